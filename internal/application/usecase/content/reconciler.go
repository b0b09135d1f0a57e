package content

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type ReconcilerConfig struct {
	PrimaryKey string
	BackupKey  string
	MaxAge     time.Duration
}

// Reconciler arbitrates between the working copy (primary slot) and the last good remote
// copy (backup slot). It always adopts one whole document, never merges fields.
type Reconciler struct {
	kv     service.KeyValueStore
	cfg    ReconcilerConfig
	now    func() time.Time
	logger logger.Logger
}

func NewReconciler(kv service.KeyValueStore, cfg ReconcilerConfig, now func() time.Time, log logger.Logger) *Reconciler {
	if cfg.PrimaryKey == "" {
		cfg.PrimaryKey = "portfolio_cms_content"
	}
	if cfg.BackupKey == "" {
		cfg.BackupKey = "portfolio_cms_server_backup"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = content.DefaultMaxSnapshotAge
	}
	if now == nil {
		now = time.Now
	}
	return &Reconciler{kv: kv, cfg: cfg, now: now, logger: log}
}

func (r *Reconciler) PrimaryKey() string { return r.cfg.PrimaryKey }
func (r *Reconciler) BackupKey() string  { return r.cfg.BackupKey }

// LoadPrimary returns the working copy snapshot if one exists and has not expired.
func (r *Reconciler) LoadPrimary(ctx context.Context) (content.Snapshot, bool) {
	return r.load(ctx, r.cfg.PrimaryKey)
}

// LoadBackup returns the last remote copy snapshot if one exists and has not expired.
func (r *Reconciler) LoadBackup(ctx context.Context) (content.Snapshot, bool) {
	return r.load(ctx, r.cfg.BackupKey)
}

func (r *Reconciler) load(ctx context.Context, key string) (content.Snapshot, bool) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Failed to read snapshot", zap.String("key", key), zap.Error(err))
		return content.Snapshot{}, false
	}
	if !ok {
		return content.Snapshot{}, false
	}

	snap, err := content.DecodeSnapshot(raw)
	if err != nil {
		r.logger.Warn("Discarding corrupt snapshot", zap.String("key", key), zap.Error(err))
		r.remove(ctx, key)
		return content.Snapshot{}, false
	}
	if snap.Expired(r.now(), r.cfg.MaxAge) {
		r.logger.Info("Discarding expired snapshot", zap.String("key", key), zap.Time("saved_at", snap.Time()))
		r.remove(ctx, key)
		return content.Snapshot{}, false
	}
	for _, d := range snap.Dropped {
		r.logger.Warn("Skipping malformed snapshot section",
			zap.String("key", key), zap.String("section", string(d.Section)), zap.Error(d.Err))
	}
	return snap, true
}

func (r *Reconciler) remove(ctx context.Context, key string) {
	if err := r.kv.Remove(ctx, key); err != nil {
		r.logger.Warn("Failed to remove snapshot", zap.String("key", key), zap.Error(err))
	}
}

// SavePrimary overwrites the working copy. Only mutations, explicit saves and restores call it.
func (r *Reconciler) SavePrimary(ctx context.Context, doc *content.Document) error {
	return r.save(ctx, r.cfg.PrimaryKey, doc)
}

// SaveBackup records a successfully fetched remote copy.
func (r *Reconciler) SaveBackup(ctx context.Context, doc *content.Document) error {
	return r.save(ctx, r.cfg.BackupKey, doc)
}

func (r *Reconciler) save(ctx context.Context, key string, doc *content.Document) error {
	raw, err := content.NewSnapshot(doc, r.now()).Encode()
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, key, raw)
}

// HasLocalChanges reports whether a non-expired working copy exists.
func (r *Reconciler) HasLocalChanges(ctx context.Context) bool {
	_, ok := r.LoadPrimary(ctx)
	return ok
}

// Discard deletes both slots. Irreversible; callers gate it behind a confirmation.
func (r *Reconciler) Discard(ctx context.Context) error {
	return errors.Join(
		r.kv.Remove(ctx, r.cfg.PrimaryKey),
		r.kv.Remove(ctx, r.cfg.BackupKey),
	)
}
