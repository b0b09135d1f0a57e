package service

import (
	"context"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

// RenderState carries store state the page needs besides the document itself.
type RenderState struct {
	HasLocalChanges bool
}

// Renderer projects a document onto its output. It must not fail the caller: region level
// problems are skipped by the implementation.
type Renderer interface {
	Render(ctx context.Context, doc *content.Document, state RenderState)
}

// EventPublisher receives content ready/changed notifications.
type EventPublisher interface {
	PublishContentEvent(ctx context.Context, evt content.Event) error
}
