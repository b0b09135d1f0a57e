package service

import (
	"context"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

// ContentFetcher retrieves the remote copy of the content document.
type ContentFetcher interface {
	Fetch(ctx context.Context) (*content.Document, error)
}
