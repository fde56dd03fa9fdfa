package ports

import (
	"context"

	"github.com/ayursutra/clinic/internal/core/domain"
)

// Mailer delivers a single e-mail.
type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}

// MailQueue accepts e-mails for asynchronous delivery.
type MailQueue interface {
	Enqueue(email domain.Email) error
}

// MailService handles the send-email action.
type MailService interface {
	Send(ctx context.Context, email domain.Email) domain.Result
}
