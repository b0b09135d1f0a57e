package admin

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type SessionState string

const (
	StateIdle     SessionState = "idle"
	StateCreating SessionState = "creating"
	StateEditing  SessionState = "editing"
)

// ItemStore is the part of the content store the edit session writes through.
type ItemStore interface {
	GetItem(c content.Collection, id string) (content.Item, bool)
	AddItem(ctx context.Context, c content.Collection, draft content.ItemDraft) (content.Item, error)
	UpdateItem(ctx context.Context, c content.Collection, id string, patch content.ItemPatch) (bool, error)
}

type SessionInfo struct {
	State      SessionState       `json:"state"`
	Collection content.Collection `json:"collection,omitempty"`
	ItemID     string             `json:"item_id,omitempty"`
}

// EditSession is the single open editor form. Opening a form while another one is open
// discards the previous one.
type EditSession struct {
	mu         sync.Mutex
	state      SessionState
	collection content.Collection
	itemID     string

	store    ItemStore
	validate *validator.Validate
	logger   logger.Logger
}

func NewEditSession(store ItemStore, log logger.Logger) *EditSession {
	return &EditSession{
		state:    StateIdle,
		store:    store,
		validate: newValidator(),
		logger:   log,
	}
}

func (s *EditSession) State() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{State: s.state, Collection: s.collection, ItemID: s.itemID}
}

// OpenCreate opens a blank form for a new item of kind ("project" or "certification").
func (s *EditSession) OpenCreate(kind string) (ItemForm, error) {
	c, err := content.ParseCollection(kind)
	if err != nil {
		return ItemForm{}, apperror.NewInvalidInput("unknown item kind "+kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
	s.state, s.collection, s.itemID = StateCreating, c, ""
	return blankForm(c), nil
}

// OpenEdit opens the form prefilled with the stored item.
func (s *EditSession) OpenEdit(kind, id string) (ItemForm, error) {
	c, err := content.ParseCollection(kind)
	if err != nil {
		return ItemForm{}, apperror.NewInvalidInput("unknown item kind "+kind, err)
	}
	item, ok := s.store.GetItem(c, id)
	if !ok {
		return ItemForm{}, apperror.NewNotFound(c.Kind(), id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
	s.state, s.collection, s.itemID = StateEditing, c, id
	return formFromItem(c, item), nil
}

func (s *EditSession) discardLocked() {
	if s.state != StateIdle {
		s.logger.Debug("Discarding open edit session",
			zap.String("state", string(s.state)),
			zap.String("collection", string(s.collection)),
			zap.String("item_id", s.itemID))
	}
	s.reset()
}

func (s *EditSession) reset() {
	s.state, s.collection, s.itemID = StateIdle, "", ""
}

// Save validates form and writes it through the store. The session stays open when
// validation or the write fails, so the editor can correct and retry.
func (s *EditSession) Save(ctx context.Context, form ItemForm) (content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return content.Item{}, apperror.NewInvalidInput("no item form is open", nil)
	}
	c, id := s.collection, s.itemID

	form = form.trimmed()
	form.Kind = c.Kind()
	if err := s.validate.Struct(form); err != nil {
		return content.Item{}, validationError(err)
	}
	patch := form.patch(c)

	if s.state == StateCreating {
		item, err := s.store.AddItem(ctx, c, content.ItemDraft{ItemPatch: patch})
		if err != nil {
			return content.Item{}, err
		}
		s.reset()
		s.logger.Info("Item created", zap.String("collection", string(c)), zap.String("item_id", item.ID))
		return item, nil
	}

	ok, err := s.store.UpdateItem(ctx, c, id, patch)
	if err != nil {
		return content.Item{}, err
	}
	s.reset()
	if !ok {
		return content.Item{}, apperror.NewNotFound(c.Kind(), id)
	}
	item, _ := s.store.GetItem(c, id)
	s.logger.Info("Item updated", zap.String("collection", string(c)), zap.String("item_id", id))
	return item, nil
}

// Cancel closes the open form without writing anything.
func (s *EditSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
}
