package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayursutra/clinic/internal/core/domain"
)

const fillAllFields = "Please fill out all fields."

// Suggest renders scheduling hints for a patient and therapy.
func (c *Controller) Suggest(ctx context.Context, patientID, therapyName string) error {
	t, ok := c.current()
	if !ok {
		return domain.ErrNoSession
	}

	patients, err := c.api.Patients().List(ctx)
	var therapies []domain.Therapy
	if err == nil {
		therapies, err = c.api.Therapies().List(ctx)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("suggestions failed")
		c.commit(t, func() { c.failPanelLocked(PanelSuggestions, "Failed to load suggestions.") })
		return nil
	}

	var patient *domain.Patient
	for _, p := range visiblePatients(t.session, patients) {
		if p.ID == patientID {
			patient = &p
			break
		}
	}
	var therapy *domain.Therapy
	for _, th := range therapies {
		if th.Name == therapyName {
			therapy = &th
			break
		}
	}

	list := suggestionList{Suggestions: suggestions(patient, therapyName, therapy)}
	c.commit(t, func() {
		c.renderPanelLocked(PanelSuggestions, "suggestions", list, len(list.Suggestions))
	})
	return nil
}

// ScheduleTherapy records an appointment reminder notification.
func (c *Controller) ScheduleTherapy(ctx context.Context, f ScheduleForm) error {
	t, ok := c.current()
	if !ok {
		return domain.ErrNoSession
	}
	if strings.TrimSpace(f.Patient) == "" || strings.TrimSpace(f.Therapy) == "" || strings.TrimSpace(f.Date) == "" {
		c.toasts.Push(ToastInfo, fillAllFields)
		return nil
	}
	if !c.firstSubmit(ctx, t, "schedule", f) {
		return nil
	}

	_, err := c.api.Notifications().Create(ctx, map[string]any{
		"type":    "appointment_reminder",
		"title":   "New Therapy Scheduled",
		"message": fmt.Sprintf("%s scheduled for %s on %s", f.Therapy, f.Patient, f.Date),
		"channel": "System",
		"status":  "pending",
		"patient": f.Patient,
		"date":    c.clock.Now(),
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("schedule failed")
		c.toasts.Push(ToastError, "Failed to schedule therapy: "+err.Error())
		return nil
	}

	c.notifications.reload(ctx, c)
	c.toasts.Push(ToastSuccess, "Therapy scheduled!")
	return nil
}

// SendAlert asks for confirmation and e-mails message to a patient. It
// returns the prompt id, empty when nothing was asked.
func (c *Controller) SendAlert(ctx context.Context, to, message string) (string, error) {
	t, allowed, err := c.staff()
	if !allowed {
		return "", err
	}
	if strings.TrimSpace(to) == "" || strings.TrimSpace(message) == "" {
		c.toasts.Push(ToastInfo, fillAllFields)
		return "", nil
	}

	question := fmt.Sprintf(`Sending notification to %s with message: "%s"`, to, message)
	return c.prompter.Ask(ctx, question, func(ctx context.Context, confirmed bool) {
		if !confirmed || !c.sameSession(t) {
			return
		}
		res, err := c.api.SendEmail(ctx, domain.Email{To: to, Subject: alertSubject, Message: message})
		switch {
		case err != nil:
			c.log.Warn().Err(err).Str("to", to).Msg("send-email failed")
			c.toasts.Push(ToastError, "Failed to connect to the email service.")
		case !res.Success:
			c.toasts.Push(ToastError, "Failed to send email: "+res.Error)
		default:
			c.toasts.Push(ToastSuccess, "Notification sent successfully!")
		}
	}), nil
}
