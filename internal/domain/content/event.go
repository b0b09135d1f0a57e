package content

import "time"

type EventType string

const (
	EventReady   EventType = "content.ready"
	EventChanged EventType = "content.changed"
)

type Source string

const (
	SourceLocal    Source = "local"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
	SourceRestore  Source = "restore"
	SourceMutation Source = "mutation"
	SourceImport   Source = "import"
)

// Event announces that the current document was adopted or changed.
type Event struct {
	Type            EventType `json:"type"`
	Source          Source    `json:"source"`
	Operation       string    `json:"operation,omitempty"`
	Collection      string    `json:"collection,omitempty"`
	ItemID          string    `json:"item_id,omitempty"`
	HasLocalChanges bool      `json:"has_local_changes"`
	OccurredAt      time.Time `json:"occurred_at"`
}
