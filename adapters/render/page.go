package render

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

//go:embed shell/index.html
var defaultShell []byte

var tracer = otel.Tracer("page_renderer")

// LoadShell reads the page shell from path, or returns the built-in shell when path is empty.
func LoadShell(path string) ([]byte, error) {
	if path == "" {
		return defaultShell, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page shell: %w", err)
	}
	return b, nil
}

// PageRenderer renders documents into the shell and keeps the latest page for serving.
// Each pass starts from the pristine shell.
type PageRenderer struct {
	shell  []byte
	latest atomic.Pointer[string]
	logger logger.Logger
}

func NewPageRenderer(shell []byte, log logger.Logger) (*PageRenderer, error) {
	if _, err := NewHTMLTargets(shell); err != nil {
		return nil, err
	}
	return &PageRenderer{shell: shell, logger: log}, nil
}

var _ service.Renderer = (*PageRenderer)(nil)

func (p *PageRenderer) Render(ctx context.Context, doc *content.Document, state service.RenderState) {
	_, span := tracer.Start(ctx, "PageRenderer.Render")
	defer span.End()

	targets, err := NewHTMLTargets(p.shell)
	if err != nil {
		p.logger.Error("Failed to parse page shell", err)
		return
	}
	for _, err := range Render(doc, targets) {
		p.logger.Warn("Skipped page region", zap.Error(err))
	}
	if err := targets.SetLocalChangesIndicator(state.HasLocalChanges); err != nil {
		p.logger.Warn("Failed to render local changes indicator", zap.Error(err))
	}

	html, err := targets.HTML()
	if err != nil {
		p.logger.Error("Failed to serialise rendered page", err)
		return
	}
	p.latest.Store(&html)
}

// HTML returns the most recently rendered page, or the bare shell before the first render.
func (p *PageRenderer) HTML() string {
	if html := p.latest.Load(); html != nil {
		return *html
	}
	return string(p.shell)
}
