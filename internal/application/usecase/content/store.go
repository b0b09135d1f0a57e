package content

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

var tracer = otel.Tracer("content_store")

// Store owns the in-memory content document. All reads return copies and all writes go
// through the mutation methods, which persist the whole document and re-render once.
type Store struct {
	mu         sync.RWMutex
	doc        *content.Document
	loaded     bool
	override   bool
	source     content.Source
	lastUpdate time.Time

	fetcher    service.ContentFetcher
	reconciler *Reconciler
	renderer   service.Renderer
	publisher  service.EventPublisher
	ids        *content.IDGenerator
	now        func() time.Time
	logger     logger.Logger

	loads singleflight.Group

	bgCtx    context.Context
	bgCancel context.CancelFunc
	bg       sync.WaitGroup
}

type Option func(*Store)

func WithRenderer(r service.Renderer) Option {
	return func(s *Store) { s.renderer = r }
}

func WithPublisher(p service.EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(fetcher service.ContentFetcher, reconciler *Reconciler, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		fetcher:    fetcher,
		reconciler: reconciler,
		now:        time.Now,
		logger:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = content.NewIDGenerator(s.now)
	s.bgCtx, s.bgCancel = context.WithCancel(context.Background())
	return s
}

// Status describes where the current document came from.
type Status struct {
	Loaded          bool           `json:"loaded"`
	HasLocalChanges bool           `json:"has_local_changes"`
	Source          content.Source `json:"source"`
	LastUpdate      time.Time      `json:"last_update"`
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Loaded: s.loaded, HasLocalChanges: s.override, Source: s.source, LastUpdate: s.lastUpdate}
}

// Load resolves the document once per store. Concurrent callers share the pending load and
// later calls return immediately. It never fails: unusable sources degrade to the fallback.
func (s *Store) Load(ctx context.Context) {
	if s.isLoaded() {
		return
	}
	s.loads.Do("load", func() (any, error) {
		if !s.isLoaded() {
			s.runLoad(context.WithoutCancel(ctx))
		}
		return nil, nil
	})
}

// Reload runs the load algorithm again, e.g. after local changes were discarded.
func (s *Store) Reload(ctx context.Context) {
	s.loads.Do("reload", func() (any, error) {
		s.runLoad(context.WithoutCancel(ctx))
		return nil, nil
	})
}

func (s *Store) isLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) runLoad(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Store.Load")
	defer span.End()

	if snap, ok := s.reconciler.LoadPrimary(ctx); ok {
		s.adopt(ctx, snap.Content, true, content.SourceLocal, snap.Time())
		span.SetAttributes(attribute.String("content.source", string(content.SourceLocal)))
		s.logger.Info("Content loaded from local snapshot", zap.Time("saved_at", snap.Time()))
		s.refreshBackupAsync()
		return
	}

	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("Remote content unavailable, using fallback content", zap.Error(err))
		s.adopt(ctx, content.Fallback(), false, content.SourceFallback, s.now())
		span.SetAttributes(attribute.String("content.source", string(content.SourceFallback)))
		return
	}

	if err := s.reconciler.SaveBackup(ctx, doc); err != nil {
		s.logger.Warn("Failed to write remote backup snapshot", zap.Error(err))
	}
	s.adopt(ctx, doc, false, content.SourceRemote, s.now())
	span.SetAttributes(attribute.String("content.source", string(content.SourceRemote)))
	s.logger.Info("Content loaded from remote source")
}

func (s *Store) adopt(ctx context.Context, doc *content.Document, override bool, src content.Source, at time.Time) {
	s.mu.Lock()
	s.doc = doc
	s.loaded = true
	s.override = override
	s.source = src
	s.lastUpdate = at
	s.renderLocked(ctx)
	s.mu.Unlock()

	s.publish(ctx, content.Event{Type: content.EventReady, Source: src})
}

// refreshBackupAsync fetches the remote copy only to refresh the backup slot. The live
// document is never touched and failures are silent.
func (s *Store) refreshBackupAsync() {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		doc, err := s.fetcher.Fetch(s.bgCtx)
		if err != nil {
			s.logger.Debug("Background remote refresh failed", zap.Error(err))
			return
		}
		if err := s.reconciler.SaveBackup(s.bgCtx, doc); err != nil {
			s.logger.Debug("Background backup write failed", zap.Error(err))
		}
	}()
}

// Close stops background work and waits for it to finish.
func (s *Store) Close() {
	s.bgCancel()
	s.bg.Wait()
}

func (s *Store) renderLocked(ctx context.Context) {
	if s.renderer == nil || s.doc == nil {
		return
	}
	s.renderer.Render(ctx, s.doc.Clone(), service.RenderState{HasLocalChanges: s.override})
}

func (s *Store) publish(ctx context.Context, evt content.Event) {
	if s.publisher == nil {
		return
	}
	evt.HasLocalChanges = s.Status().HasLocalChanges
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = s.now().UTC()
	}
	if err := s.publisher.PublishContentEvent(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish content event", zap.String("type", string(evt.Type)), zap.Error(err))
	}
}

// Document returns a copy of the current document, nil before the first load settles.
func (s *Store) Document() *content.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// GetSection returns a copy of the named section, or false when not loaded or absent.
func (s *Store) GetSection(name content.SectionName) (any, bool) {
	return s.Document().Section(name)
}

// GetItem returns the item with id in the collection.
func (s *Store) GetItem(c content.Collection, id string) (content.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return content.Item{}, false
	}
	it, ok := s.doc.FindItem(c, id)
	if !ok {
		return content.Item{}, false
	}
	return cloneItem(it), true
}

func cloneItem(it content.Item) content.Item {
	out := it
	out.Technologies = slices.Clone(it.Technologies)
	out.Skills = slices.Clone(it.Skills)
	if it.Links != nil {
		l := *it.Links
		out.Links = &l
	}
	return out
}

var errNoChange = errors.New("no change")

// mutate applies fn to a copy of the document, persists the copy and only then swaps it in,
// so a failed write leaves the store untouched. fn returns errNoChange to abort quietly.
func (s *Store) mutate(ctx context.Context, evt content.Event, fn func(doc *content.Document) error) error {
	ctx, span := tracer.Start(ctx, "Store."+evt.Operation)
	defer span.End()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return apperror.NewUnavailable("content is not loaded yet", nil)
	}
	next := s.doc.Clone()
	if next == nil {
		s.mu.Unlock()
		return apperror.NewInternal("failed to copy content document", nil)
	}
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.reconciler.SavePrimary(ctx, next); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		return apperror.NewInternal("failed to persist content", err)
	}
	s.doc = next
	s.override = true
	s.source = content.SourceMutation
	if evt.Source != "" {
		s.source = evt.Source
	}
	s.lastUpdate = s.now()
	s.renderLocked(ctx)
	s.mu.Unlock()

	evt.Type = content.EventChanged
	if evt.Source == "" {
		evt.Source = content.SourceMutation
	}
	s.publish(ctx, evt)
	return nil
}

// AddItem appends an item to the collection, assigning an id when the draft has none.
func (s *Store) AddItem(ctx context.Context, c content.Collection, draft content.ItemDraft) (content.Item, error) {
	item := draft.ToItem()
	if item.ID == "" {
		item.ID = s.ids.Next(c)
	}
	err := s.mutate(ctx, content.Event{Operation: "AddItem", Collection: string(c), ItemID: item.ID}, func(doc *content.Document) error {
		if doc.HasItem(c, item.ID) {
			return apperror.NewConflict(c.Kind(), "id", item.ID)
		}
		doc.AppendItem(c, item)
		return nil
	})
	if err != nil {
		return content.Item{}, err
	}
	return cloneItem(item), nil
}

// UpdateItem merges patch onto the item with id. It returns false when there is no such item.
func (s *Store) UpdateItem(ctx context.Context, c content.Collection, id string, patch content.ItemPatch) (bool, error) {
	err := s.mutate(ctx, content.Event{Operation: "UpdateItem", Collection: string(c), ItemID: id}, func(doc *content.Document) error {
		if !doc.UpdateItem(c, id, patch) {
			return errNoChange
		}
		return nil
	})
	return changed(err)
}

// RemoveItem deletes the first item with id. It returns false when there is no such item.
func (s *Store) RemoveItem(ctx context.Context, c content.Collection, id string) (bool, error) {
	err := s.mutate(ctx, content.Event{Operation: "RemoveItem", Collection: string(c), ItemID: id}, func(doc *content.Document) error {
		if !doc.RemoveItem(c, id) {
			return errNoChange
		}
		return nil
	})
	return changed(err)
}

func changed(err error) (bool, error) {
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceDocument swaps in a whole new document, as done by a backup import.
func (s *Store) ReplaceDocument(ctx context.Context, doc *content.Document) error {
	if doc == nil {
		return apperror.NewInvalidInput("content document must be an object", nil)
	}
	replacement := doc.Clone()
	return s.mutate(ctx, content.Event{Operation: "ReplaceDocument", Source: content.SourceImport}, func(next *content.Document) error {
		*next = *replacement
		return nil
	})
}

// PatchSection shallowly overwrites fields of a flat section (hero, about, contact, site...).
func (s *Store) PatchSection(ctx context.Context, name content.SectionName, fields map[string]json.RawMessage) error {
	return s.mutate(ctx, content.Event{Operation: "PatchSection", Collection: string(name)}, func(doc *content.Document) error {
		if err := doc.PatchSection(name, fields); err != nil {
			return apperror.NewInvalidInput("cannot patch section "+string(name), err)
		}
		return nil
	})
}

// Edit applies an arbitrary whole-document edit as a single mutation.
func (s *Store) Edit(ctx context.Context, operation string, fn func(doc *content.Document) error) error {
	return s.mutate(ctx, content.Event{Operation: operation}, fn)
}

// Persist writes the current document to the primary slot (explicit "save").
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return apperror.NewUnavailable("content is not loaded yet", nil)
	}
	if err := s.reconciler.SavePrimary(ctx, s.doc); err != nil {
		return apperror.NewInternal("failed to persist content", err)
	}
	if !s.override {
		s.override = true
		s.renderLocked(ctx)
	}
	return nil
}

// persistOverride re-saves the working copy only when it already is a local override, so
// timers never turn a pristine remote copy into an override.
func (s *Store) persistOverride(ctx context.Context) error {
	s.mu.RLock()
	override := s.override && s.loaded
	s.mu.RUnlock()
	if !override {
		return nil
	}
	return s.Persist(ctx)
}

// StartAutosave re-persists the working copy every interval until ctx is done or the store
// is closed.
func (s *Store) StartAutosave(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.bgCtx.Done():
				return
			case <-ticker.C:
				if err := s.persistOverride(s.bgCtx); err != nil {
					s.logger.Warn("Autosave failed", zap.Error(err))
				}
			}
		}
	}()
}

// Shutdown persists the working copy one last time and stops background work.
func (s *Store) Shutdown(ctx context.Context) {
	if err := s.persistOverride(ctx); err != nil {
		s.logger.Warn("Final persist failed", zap.Error(err))
	}
	s.Close()
}

// HasLocalChanges reports whether a non-expired working copy is persisted.
func (s *Store) HasLocalChanges(ctx context.Context) bool {
	return s.reconciler.HasLocalChanges(ctx)
}

// RestoreFromBackup adopts the backup slot's document and writes it into the primary slot.
func (s *Store) RestoreFromBackup(ctx context.Context) (bool, error) {
	snap, ok := s.reconciler.LoadBackup(ctx)
	if !ok {
		return false, nil
	}
	err := s.mutate(ctx, content.Event{Operation: "RestoreFromBackup", Source: content.SourceRestore}, func(next *content.Document) error {
		*next = *snap.Content
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info("Content restored from remote backup", zap.Time("backup_saved_at", snap.Time()))
	return true, nil
}

// DiscardLocalChanges deletes both persisted slots. The live document is left as is; callers
// follow up with Reload.
func (s *Store) DiscardLocalChanges(ctx context.Context) error {
	if err := s.reconciler.Discard(ctx); err != nil {
		return apperror.NewInternal("failed to discard local changes", err)
	}
	s.mu.Lock()
	s.override = false
	s.mu.Unlock()
	s.logger.Info("Local content changes discarded")
	return nil
}
