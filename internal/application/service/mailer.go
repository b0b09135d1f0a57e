package service

import "context"

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// Mailer hands a contact message to the email integration.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}
