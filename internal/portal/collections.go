package portal

import (
	"context"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
)

// visiblePatients narrows a restricted session to its own record.
func visiblePatients(s *domain.Session, recs []domain.Patient) []domain.Patient {
	if !s.Restricted() {
		return recs
	}
	out := make([]domain.Patient, 0, 1)
	if s == nil {
		return out
	}
	for _, p := range recs {
		if p.OwnedBy(s.Identity) {
			out = append(out, p)
		}
	}
	return out
}

func newPatientResource() *resource[domain.Patient] {
	return &resource[domain.Patient]{
		collection: domain.CollectionPatients,
		panel:      PanelPatients,
		template:   "patients",
		api:        func(a ports.ClinicAPI) ports.Collection[domain.Patient] { return a.Patients() },
		visible:    visiblePatients,
		view: func(c *Controller, recs []domain.Patient, editable bool) (any, int) {
			cards := patientCards(recs, c.filter)
			shown := 0
			for _, card := range cards {
				if !card.Hidden {
					shown++
				}
			}
			return cardList[patientCard]{Cards: cards, Editable: editable}, shown
		},
		editor: func(p domain.Patient) editorForm {
			return editorForm{
				Collection: domain.CollectionPatients,
				ID:         p.ID,
				Title:      "Patient",
				Fields: []editorField{
					{Name: "name", Label: "Name", Type: "text", Value: p.Name},
					{Name: "age", Label: "Age", Type: "number", Value: itoa(p.Age)},
					{Name: "condition", Label: "Condition", Type: "text", Value: p.Condition},
					{Name: "dosha", Label: "Dosha", Type: "text", Value: p.Dosha},
				},
			}
		},
		afterWrite: func(ctx context.Context, c *Controller) { c.refreshPatientDerived(ctx) },
	}
}

func newTherapyResource() *resource[domain.Therapy] {
	return &resource[domain.Therapy]{
		collection: domain.CollectionTherapies,
		panel:      PanelTherapies,
		template:   "therapies",
		api:        func(a ports.ClinicAPI) ports.Collection[domain.Therapy] { return a.Therapies() },
		view: func(_ *Controller, recs []domain.Therapy, editable bool) (any, int) {
			return cardList[therapyCard]{Cards: therapyCards(recs), Editable: editable}, len(recs)
		},
		editor: func(t domain.Therapy) editorForm {
			return editorForm{
				Collection: domain.CollectionTherapies,
				ID:         t.ID,
				Title:      "Therapy",
				Fields: []editorField{
					{Name: "name", Label: "Name", Type: "text", Value: t.Name},
					{Name: "duration", Label: "Duration (days)", Type: "number", Value: formatDays(t.Duration)},
					{Name: "description", Label: "Description", Type: "textarea", Value: t.Description},
					{Name: "preparation", Label: "Preparation", Type: "textarea", Value: t.Preparation},
				},
			}
		},
	}
}

func newNotificationResource() *resource[domain.Notification] {
	return &resource[domain.Notification]{
		collection: domain.CollectionNotifications,
		panel:      PanelNotifications,
		template:   "notifications",
		api:        func(a ports.ClinicAPI) ports.Collection[domain.Notification] { return a.Notifications() },
		view: func(c *Controller, recs []domain.Notification, editable bool) (any, int) {
			return cardList[notificationCard]{Cards: notificationCards(recs, c.clock.Now()), Editable: editable}, len(recs)
		},
		editor: func(n domain.Notification) editorForm {
			return editorForm{
				Collection: domain.CollectionNotifications,
				ID:         n.ID,
				Title:      "Notification",
				Fields: []editorField{
					{Name: "message", Label: "Message", Type: "textarea", Value: n.Message},
				},
			}
		},
	}
}

// ── Patients ─────────────────────────────────────────────────────────────────

// CreatePatient admits a patient with the default treatment plan.
func (c *Controller) CreatePatient(ctx context.Context, f PatientForm) error {
	return c.patients.create(ctx, c, newPatientFields(f, c.clock.Now()))
}

func (c *Controller) UpdatePatient(ctx context.Context, id string, f PatientForm) error {
	return c.patients.update(ctx, c, id, patientUpdateFields(f))
}

// DeletePatient asks for confirmation and returns the prompt id.
func (c *Controller) DeletePatient(ctx context.Context, id string) (string, error) {
	return c.patients.remove(ctx, c, id)
}

// FilterPatients hides rendered patient cards not matching search and dosha.
func (c *Controller) FilterPatients(search, dosha string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Session == nil {
		return domain.ErrNoSession
	}
	c.filter = patientFilter{Search: search, Dosha: dosha}
	if _, rendered := c.panels[PanelPatients]; rendered && c.patients.shown != nil {
		c.patients.renderLocked(c, c.state.Session)
	}
	return nil
}

func (c *Controller) ViewPatientDetails(id string) error {
	if _, allowed, err := c.staff(); !allowed {
		return err
	}
	c.toasts.Push(ToastInfo, "Viewing details for patient ID: "+id)
	return nil
}

// ── Therapies ────────────────────────────────────────────────────────────────

func (c *Controller) CreateTherapy(ctx context.Context, f TherapyForm) error {
	return c.therapies.create(ctx, c, therapyFields(f))
}

func (c *Controller) UpdateTherapy(ctx context.Context, id string, f TherapyForm) error {
	return c.therapies.update(ctx, c, id, therapyFields(f))
}

func (c *Controller) DeleteTherapy(ctx context.Context, id string) (string, error) {
	return c.therapies.remove(ctx, c, id)
}

// ── Notifications ────────────────────────────────────────────────────────────

func (c *Controller) CreateNotification(ctx context.Context, f NotificationForm) error {
	return c.notifications.create(ctx, c, map[string]any{
		"message": f.Message,
		"date":    c.clock.Now(),
	})
}

func (c *Controller) UpdateNotification(ctx context.Context, id string, f NotificationForm) error {
	return c.notifications.update(ctx, c, id, map[string]any{"message": f.Message})
}

func (c *Controller) DeleteNotification(ctx context.Context, id string) (string, error) {
	return c.notifications.remove(ctx, c, id)
}

// OpenEditor renders the edit form of one record.
func (c *Controller) OpenEditor(ctx context.Context, coll domain.Collection, id string) error {
	switch coll {
	case domain.CollectionPatients:
		return c.patients.openEditor(ctx, c, id)
	case domain.CollectionTherapies:
		return c.therapies.openEditor(ctx, c, id)
	case domain.CollectionNotifications:
		return c.notifications.openEditor(ctx, c, id)
	}
	_, err := domain.ParseCollection(string(coll))
	return err
}
