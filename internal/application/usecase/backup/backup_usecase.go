package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const uploadFolder = "backups/content"

// ContentStore is what backup needs from the content store.
type ContentStore interface {
	Document() *content.Document
	ReplaceDocument(ctx context.Context, doc *content.Document) error
}

type BackupUseCase struct {
	store    ContentStore
	uploader service.Uploader
	now      func() time.Time
	logger   logger.Logger
}

// NewBackupUseCase wires export/import. uploader may be nil when no remote storage is
// configured, in which case Upload reports the service as unavailable.
func NewBackupUseCase(store ContentStore, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		store:    store,
		uploader: uploader,
		now:      time.Now,
		logger:   log,
	}
}

type ExportOutput struct {
	File     content.BackupFile
	FileName string
	Data     []byte
}

// Export wraps the current document in the downloadable backup format.
func (uc *BackupUseCase) Export(ctx context.Context) (*ExportOutput, error) {
	doc := uc.store.Document()
	if doc == nil {
		return nil, apperror.NewUnavailable("content is not loaded yet", nil)
	}
	file := content.NewBackupFile(doc, uc.now())
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, apperror.NewInternal("failed to encode backup", err)
	}
	return &ExportOutput{File: file, FileName: file.FileName(), Data: data}, nil
}

// Import replaces the whole document with the backup's content. Any JSON object with a
// "content" object is accepted.
func (uc *BackupUseCase) Import(ctx context.Context, raw []byte) error {
	file, err := content.DecodeBackupFile(raw)
	if err != nil {
		return apperror.NewValidation("Invalid backup file", err)
	}
	if file.MetadataErr != nil {
		uc.logger.Debug("Backup metadata partially unreadable", zap.Error(file.MetadataErr))
	}
	for _, d := range file.Dropped {
		uc.logger.Warn("Skipping malformed backup section", zap.String("section", string(d.Section)), zap.Error(d.Err))
	}
	if err := uc.store.ReplaceDocument(ctx, file.Content); err != nil {
		return err
	}
	uc.logger.Info("Content imported from backup file",
		zap.Int64("backup_timestamp", file.Timestamp),
		zap.String("backup_source", file.Source))
	return nil
}

type UploadOutput struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Upload exports the current document and stores it in remote object storage.
func (uc *BackupUseCase) Upload(ctx context.Context) (*UploadOutput, error) {
	if uc.uploader == nil {
		return nil, apperror.NewUnavailable("backup storage is not configured", nil)
	}
	uc.logger.Info("Starting content backup upload...")

	out, err := uc.Export(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := uc.now().UTC().Format("2006-01-02_15-04-05")
	publicID := fmt.Sprintf("%s/portfolio-backup-%s", uploadFolder, timestamp)

	uploadURL, err := uc.uploader.Upload(ctx, bytes.NewReader(out.Data), uploadFolder, publicID)
	if err != nil {
		uc.logger.Error("Failed to upload backup to Cloudinary", err)
		return nil, apperror.NewUnavailable("backup upload failed", err)
	}

	uc.logger.Info("Content backup completed and uploaded successfully",
		zap.String("url", uploadURL),
		zap.String("public_id", publicID),
	)
	return &UploadOutput{URL: uploadURL, PublicID: publicID}, nil
}
