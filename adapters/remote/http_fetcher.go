package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const maxDocumentBytes = 8 << 20

type httpFetcher struct {
	client *http.Client
	url    string
	now    func() time.Time
	log    logger.Logger
}

// NewHTTPFetcher reads the remote content document. A single attempt is made per call,
// bounded by remote.timeout.
func NewHTTPFetcher(cfg config.Config, log logger.Logger) (service.ContentFetcher, error) {
	if cfg.Remote.ContentURL == "" {
		return nil, fmt.Errorf("remote content URL is not configured")
	}
	if _, err := url.Parse(cfg.Remote.ContentURL); err != nil {
		return nil, fmt.Errorf("invalid remote content URL: %w", err)
	}
	timeout := cfg.Remote.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return &httpFetcher{client: client, url: cfg.Remote.ContentURL, now: time.Now, log: log}, nil
}

func (f *httpFetcher) Fetch(ctx context.Context) (*content.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cacheBusted(), nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch remote content: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read remote content: %w", err)
	}
	doc, dropped, err := content.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("parse remote content: %w", err)
	}
	for _, d := range dropped {
		f.log.Warn("Skipping malformed remote section", zap.String("section", string(d.Section)), zap.Error(d.Err))
	}
	f.log.Debug("Remote content fetched", zap.Int("bytes", len(body)))
	return doc, nil
}

// cacheBusted appends v=<unix nanos> so intermediaries never serve a stale document.
func (f *httpFetcher) cacheBusted() string {
	u, err := url.Parse(f.url)
	if err != nil {
		return f.url
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(f.now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
