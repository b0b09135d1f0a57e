package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

func newTestFetcher(t *testing.T, url string, timeout time.Duration) *httpFetcher {
	t.Helper()
	var cfg config.Config
	cfg.Remote.ContentURL = url
	cfg.Remote.Timeout = timeout
	f, err := NewHTTPFetcher(cfg, logger.NewNop())
	require.NoError(t, err)
	hf := f.(*httpFetcher)
	hf.now = func() time.Time { return time.Unix(0, 42) }
	return hf
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hero":{"title":"Hi","buttons":[]},"projects":{"items":[{"id":"project_1","title":"P","description":"d","isActive":true}]}}`))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(t, srv.URL+"/content.json?lang=en", time.Second).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Hi", doc.Hero.Title)
	require.Len(t, doc.Projects.Items, 1)
	assert.Equal(t, "project_1", doc.Projects.Items[0].ID)
	assert.Equal(t, "lang=en&v=42", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
}

func TestHTTPFetcher_MalformedSectionIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hero":{"title":"Hi"},"projects":{"items":[{"id":"a","isActive":1}]}}`))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(t, srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Hero.Title)
	assert.Nil(t, doc.Projects)
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non 2xx status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "missing", http.StatusNotFound)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"hero":`))
		}},
		{"top level array", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestFetcher(t, srv.URL, time.Second).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestFetcher(t, srv.URL, 20*time.Millisecond).Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewHTTPFetcher_RequiresURL(t *testing.T) {
	_, err := NewHTTPFetcher(config.Config{}, logger.NewNop())
	assert.Error(t, err)
}
