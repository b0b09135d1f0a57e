package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type memStore struct {
	doc *content.Document
}

func (m *memStore) Document() *content.Document { return m.doc.Clone() }

func (m *memStore) ReplaceDocument(_ context.Context, doc *content.Document) error {
	m.doc = doc.Clone()
	return nil
}

type fakeUploader struct {
	body     []byte
	folder   string
	publicID string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, file io.Reader, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.body, f.folder, f.publicID = b, folder, publicID
	return "https://res.cloudinary.com/demo/raw/upload/" + publicID, nil
}

func (f *fakeUploader) Delete(context.Context, string) error { return nil }

func fixedNow() time.Time { return time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC) }

func newUseCase(store *memStore, up *fakeUploader) *BackupUseCase {
	uc := NewBackupUseCase(store, up, logger.NewNop())
	uc.now = fixedNow
	return uc
}

func TestExport(t *testing.T) {
	store := &memStore{doc: &content.Document{Footer: &content.Footer{Copyright: "2024"}}}
	out, err := newUseCase(store, nil).Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "portfolio-backup-2024-03-09.json", out.FileName)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Data, &decoded))
	assert.Equal(t, "admin-panel", decoded["source"])
	assert.Equal(t, "1.0.0", decoded["version"])
	assert.EqualValues(t, fixedNow().UnixMilli(), decoded["timestamp"])
	assert.Contains(t, decoded, "content")
}

func TestExport_NotLoaded(t *testing.T) {
	_, err := newUseCase(&memStore{}, nil).Export(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestImport(t *testing.T) {
	store := &memStore{doc: &content.Document{}}
	uc := newUseCase(store, nil)

	err := uc.Import(context.Background(), []byte(`{"content":{"hero":{"title":"Imported","buttons":[]}},"timestamp":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Imported", store.doc.Hero.Title)

	for _, raw := range []string{`{"timestamp":1}`, `{"content":null}`, `not json`, `{"content":[1]}`} {
		err := uc.Import(context.Background(), []byte(raw))
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, raw)
	}
	assert.Equal(t, "Imported", store.doc.Hero.Title)
}

func TestExportImportRoundTrip(t *testing.T) {
	original := &content.Document{
		Projects: &content.Projects{Items: []content.Item{{ID: "project_1", Title: "P", IsActive: true}}},
		About:    &content.About{Content: []string{}, Skills: []content.Skill{{Name: "Go"}}},
	}
	source := newUseCase(&memStore{doc: original}, nil)
	out, err := source.Export(context.Background())
	require.NoError(t, err)

	target := &memStore{doc: &content.Document{}}
	require.NoError(t, newUseCase(target, nil).Import(context.Background(), out.Data))
	assert.Equal(t, original, target.doc)
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{}
	store := &memStore{doc: &content.Document{Site: &content.Site{Title: "S"}}}

	out, err := newUseCase(store, up).Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backups/content/portfolio-backup-2024-03-09_10-30-00", out.PublicID)
	assert.Equal(t, "backups/content", up.folder)
	assert.Contains(t, string(up.body), `"title": "S"`)
	assert.Contains(t, out.URL, out.PublicID)
}

func TestUpload_Failures(t *testing.T) {
	store := &memStore{doc: &content.Document{}}

	_, err := NewBackupUseCase(store, nil, logger.NewNop()).Upload(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUnavailable)

	_, err = newUseCase(store, &fakeUploader{err: errors.New("quota")}).Upload(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUnavailable)
}
