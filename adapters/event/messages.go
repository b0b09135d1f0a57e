package event

import (
	"time"

	"github.com/khoahotran/portfolio-cms/internal/domain/content"
)

// ContentEventPayload is the value written to content.events.
type ContentEventPayload struct {
	EventID string `json:"event_id"`
	content.Event
}

// ContactMessagePayload is the value written to contact.messages.
type ContactMessagePayload struct {
	MessageID   string    `json:"message_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
