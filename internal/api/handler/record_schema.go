package handler

import (
	"time"

	"github.com/ayursutra/clinic/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Patients ---

type patientRequest struct {
	PatientID         string     `json:"id"                validate:"omitempty,max=32"`
	Name              string     `json:"name"              validate:"required"`
	Age               int        `json:"age"               validate:"gte=0,lte=150"`
	Dosha             string     `json:"dosha"`
	Condition         string     `json:"condition"`
	Progress          *int       `json:"progress"          validate:"omitempty,gte=0,lte=100"`
	SessionsCompleted int        `json:"sessionsCompleted" validate:"gte=0"`
	TotalSessions     int        `json:"totalSessions"     validate:"gte=0"`
	Therapies         []string   `json:"therapies"`
	NextAppointment   *time.Time `json:"nextAppointment"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
}

func (r patientRequest) record() domain.Patient {
	return domain.Patient{
		PatientID:         r.PatientID,
		Name:              r.Name,
		Age:               r.Age,
		Dosha:             r.Dosha,
		Condition:         r.Condition,
		Progress:          r.Progress,
		SessionsCompleted: r.SessionsCompleted,
		TotalSessions:     r.TotalSessions,
		Therapies:         r.Therapies,
		NextAppointment:   r.NextAppointment,
		Email:             r.Email,
		Phone:             r.Phone,
	}
}

type patientPatch struct {
	Name              *string    `json:"name"              validate:"omitempty,min=1"`
	Age               *int       `json:"age"               validate:"omitempty,gte=0,lte=150"`
	Dosha             *string    `json:"dosha"`
	Condition         *string    `json:"condition"`
	Progress          *int       `json:"progress"          validate:"omitempty,gte=0,lte=100"`
	SessionsCompleted *int       `json:"sessionsCompleted" validate:"omitempty,gte=0"`
	TotalSessions     *int       `json:"totalSessions"     validate:"omitempty,gte=0"`
	Therapies         []string   `json:"therapies"`
	NextAppointment   *time.Time `json:"nextAppointment"`
	Email             *string    `json:"email"`
	Phone             *string    `json:"phone"`
}

func (p patientPatch) fields() map[string]any {
	f := patch{}
	f.set("name", p.Name)
	f.set("age", p.Age)
	f.set("dosha", p.Dosha)
	f.set("condition", p.Condition)
	f.set("progress", p.Progress)
	f.set("sessionsCompleted", p.SessionsCompleted)
	f.set("totalSessions", p.TotalSessions)
	f.set("nextAppointment", p.NextAppointment)
	f.set("email", p.Email)
	f.set("phone", p.Phone)
	if p.Therapies != nil {
		f["therapies"] = p.Therapies
	}
	return f
}

// --- Therapies ---

type therapyRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Duration    float64 `json:"duration"    validate:"gte=0"`
	Description string  `json:"description"`
	Preparation string  `json:"preparation"`
}

func (r therapyRequest) record() domain.Therapy {
	return domain.Therapy{
		Name:        r.Name,
		Duration:    r.Duration,
		Description: r.Description,
		Preparation: r.Preparation,
	}
}

type therapyPatch struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Duration    *float64 `json:"duration"    validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Preparation *string  `json:"preparation"`
}

func (p therapyPatch) fields() map[string]any {
	f := patch{}
	f.set("name", p.Name)
	f.set("duration", p.Duration)
	f.set("description", p.Description)
	f.set("preparation", p.Preparation)
	return f
}

// --- Notifications ---

type notificationRequest struct {
	Message string    `json:"message" validate:"required"`
	Date    time.Time `json:"date"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Channel string    `json:"channel"`
	Status  string    `json:"status"  validate:"omitempty,oneof=pending sent read"`
	Patient string    `json:"patient"`
}

func (r notificationRequest) record() domain.Notification {
	return domain.Notification{
		Message: r.Message,
		Date:    r.Date,
		Type:    r.Type,
		Title:   r.Title,
		Channel: r.Channel,
		Status:  r.Status,
		Patient: r.Patient,
	}
}

type notificationPatch struct {
	Message *string    `json:"message" validate:"omitempty,min=1"`
	Date    *time.Time `json:"date"`
	Type    *string    `json:"type"`
	Title   *string    `json:"title"`
	Channel *string    `json:"channel"`
	Status  *string    `json:"status"  validate:"omitempty,oneof=pending sent read"`
	Patient *string    `json:"patient"`
}

func (p notificationPatch) fields() map[string]any {
	f := patch{}
	f.set("message", p.Message)
	f.set("date", p.Date)
	f.set("type", p.Type)
	f.set("title", p.Title)
	f.set("channel", p.Channel)
	f.set("status", p.Status)
	f.set("patient", p.Patient)
	return f
}

// --- Actions ---

type emailRequest struct {
	To      string `json:"to"      validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// patch collects the fields present in a partial update.
type patch map[string]any

func (p patch) set(key string, v any) {
	switch x := v.(type) {
	case *string:
		if x != nil {
			p[key] = *x
		}
	case *int:
		if x != nil {
			p[key] = *x
		}
	case *float64:
		if x != nil {
			p[key] = *x
		}
	case *time.Time:
		if x != nil {
			p[key] = *x
		}
	}
}
