package content

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	SnapshotVersion = "1.0.0"
	BackupSource    = "admin-panel"
	// DefaultMaxSnapshotAge is the retention window for persisted snapshots.
	DefaultMaxSnapshotAge = 7 * 24 * time.Hour
)

// Snapshot is the persisted wrapper around a document.
type Snapshot struct {
	Content   *Document `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`

	// Dropped lists the content sections left out on decode.
	Dropped []*SectionError `json:"-"`
}

func NewSnapshot(doc *Document, now time.Time) Snapshot {
	return Snapshot{Content: doc, Timestamp: now.UnixMilli(), Version: SnapshotVersion}
}

func (s Snapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

func (s Snapshot) Expired(now time.Time, maxAge time.Duration) bool {
	return now.UnixMilli()-s.Timestamp > maxAge.Milliseconds()
}

var ErrMissingContent = errors.New("snapshot has no content")

// DecodeSnapshot requires well formed metadata, since expiry depends on the timestamp.
// The content itself is decoded section by section.
func DecodeSnapshot(raw string) (Snapshot, error) {
	var s struct {
		Content   json.RawMessage `json:"content"`
		Timestamp int64           `json:"timestamp"`
		Version   string          `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Snapshot{}, err
	}
	if isAbsent(s.Content) {
		return Snapshot{}, ErrMissingContent
	}
	doc, dropped, err := Decode(s.Content)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Content: doc, Timestamp: s.Timestamp, Version: s.Version, Dropped: dropped}, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (s Snapshot) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BackupFile is the downloadable export format.
type BackupFile struct {
	Content   *Document `json:"content"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
	Source    string    `json:"source"`

	// Dropped lists the content sections left out on decode.
	Dropped []*SectionError `json:"-"`
	// MetadataErr is set when timestamp, version or source did not decode. The fields that
	// did decode are kept.
	MetadataErr error `json:"-"`
}

func NewBackupFile(doc *Document, now time.Time) BackupFile {
	return BackupFile{Content: doc, Timestamp: now.UnixMilli(), Version: SnapshotVersion, Source: BackupSource}
}

// FileName follows portfolio-backup-YYYY-MM-DD.json.
func (b BackupFile) FileName() string {
	return "portfolio-backup-" + time.UnixMilli(b.Timestamp).UTC().Format("2006-01-02") + ".json"
}

// DecodeBackupFile accepts any JSON object with a "content" object field. The metadata
// fields are informational and decoded best effort.
func DecodeBackupFile(raw []byte) (BackupFile, error) {
	var envelope struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return BackupFile{}, err
	}
	if isAbsent(envelope.Content) {
		return BackupFile{}, ErrMissingContent
	}
	doc, dropped, err := Decode(envelope.Content)
	if err != nil {
		return BackupFile{}, err
	}

	var meta struct {
		Timestamp int64  `json:"timestamp"`
		Version   string `json:"version"`
		Source    string `json:"source"`
	}
	metaErr := json.Unmarshal(raw, &meta)
	return BackupFile{
		Content:     doc,
		Timestamp:   meta.Timestamp,
		Version:     meta.Version,
		Source:      meta.Source,
		Dropped:     dropped,
		MetadataErr: metaErr,
	}, nil
}
