package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

type mailService struct {
	queue ports.MailQueue
	log   zerolog.Logger
}

// NewMailService returns the send-email use case backed by queue.
func NewMailService(queue ports.MailQueue, log zerolog.Logger) ports.MailService {
	return &mailService{queue: queue, log: log}
}

// Send accepts an e-mail for delivery. Every failure is reported through the
// result wrapper; the caller never sees a Go error.
func (s *mailService) Send(_ context.Context, email domain.Email) domain.Result {
	if strings.TrimSpace(email.To) == "" || strings.TrimSpace(email.Message) == "" {
		return domain.Result{Error: "recipient and message are required"}
	}
	if _, err := mail.ParseAddress(email.To); err != nil {
		return domain.Result{Error: "invalid recipient address"}
	}

	if err := s.queue.Enqueue(email); err != nil {
		s.log.Warn().Err(err).Str("to", email.To).Msg("email rejected")
		metrics.EmailsQueuedTotal.WithLabelValues("rejected").Inc()
		return domain.Result{Error: err.Error()}
	}

	metrics.EmailsQueuedTotal.WithLabelValues("accepted").Inc()
	s.log.Info().Str("to", email.To).Str("subject", email.Subject).Msg("email queued")
	return domain.Result{Success: true}
}
