package service

import (
	"context"
	"io"
)

// Uploader stores exported backup files in remote object storage and returns their URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
