package portal

import (
	"github.com/ayursutra/clinic/internal/core/domain"
)

// Panel ids, matching the containers of the page shell.
const (
	PanelStats              = "dashboardStats"
	PanelAppointments       = "upcomingAppointments"
	PanelProgressChart      = "progressChart"
	PanelPatients           = "patientsList"
	PanelCalendar           = "scheduleCalendar"
	PanelSuggestions        = "aiSuggestions"
	PanelScheduleOptions    = "scheduleOptions"
	PanelNotifications      = "notificationsList"
	PanelRecipients         = "customAlertRecipients"
	PanelTherapies          = "therapiesList"
	PanelEffectivenessChart = "effectivenessChart"
	PanelDoshaChart         = "doshaChart"
	PanelAppointmentsChart  = "appointmentsChart"
	PanelEditor             = "editor"
)

type PanelState string

const (
	PanelReady  PanelState = "ready"
	PanelFailed PanelState = "failed"
)

// Panel is the rendered content of one container. Chart panels carry a
// chart payload instead of HTML.
type Panel struct {
	ID    string        `json:"id"`
	State PanelState    `json:"state"`
	HTML  string        `json:"html,omitempty"`
	Chart *domain.Chart `json:"chart,omitempty"`
	// Items is the number of visible cards or rows.
	Items int `json:"items"`
}

// Snapshot is everything the page shell needs to paint the screen.
type Snapshot struct {
	Session    *domain.Session   `json:"session,omitempty"`
	View       domain.View       `json:"view,omitempty"`
	Menu       []domain.MenuItem `json:"menu"`
	Panels     map[string]Panel  `json:"panels"`
	Toasts     []Toast           `json:"toasts"`
	Prompt     *Prompt           `json:"prompt,omitempty"`
	Refreshing bool              `json:"refreshing"`
}

// Panel returns the panel with the given id and whether it was rendered.
func (s Snapshot) Panel(id string) (Panel, bool) {
	p, ok := s.Panels[id]
	return p, ok
}
