package portal

import (
	"strconv"
	"strings"
	"time"
)

const (
	defaultTotalSessions = 10
	placeholderPhone     = "+91 9876543XXX"
	alertSubject         = "AyurSutra Notification"
)

// PatientForm carries the editable patient fields.
type PatientForm struct {
	Name      string `json:"name"      form:"name"`
	Age       int    `json:"age"       form:"age"`
	Condition string `json:"condition" form:"condition"`
	Dosha     string `json:"dosha"     form:"dosha"`
}

// TherapyForm carries the editable therapy fields. Duration is in days.
type TherapyForm struct {
	Name        string  `json:"name"        form:"name"`
	Duration    float64 `json:"duration"    form:"duration"`
	Description string  `json:"description" form:"description"`
	Preparation string  `json:"preparation" form:"preparation"`
}

type NotificationForm struct {
	Message string `json:"message" form:"message"`
}

// ScheduleForm is the quick-schedule form. Patient is the record id.
type ScheduleForm struct {
	Patient string `json:"patient" form:"patient"`
	Therapy string `json:"therapy" form:"therapy"`
	Date    string `json:"date"    form:"date"`
}

// newPatientFields fills the defaults of a freshly admitted patient.
func newPatientFields(f PatientForm, now time.Time) map[string]any {
	return map[string]any{
		"name":              f.Name,
		"age":               f.Age,
		"condition":         f.Condition,
		"dosha":             f.Dosha,
		"progress":          0,
		"sessionsCompleted": 0,
		"totalSessions":     defaultTotalSessions,
		"therapies":         []string{},
		"nextAppointment":   now.Add(24 * time.Hour),
		"email":             patientEmail(f.Name),
		"phone":             placeholderPhone,
	}
}

func patientUpdateFields(f PatientForm) map[string]any {
	return map[string]any{
		"name":      f.Name,
		"age":       f.Age,
		"condition": f.Condition,
		"dosha":     f.Dosha,
	}
}

func therapyFields(f TherapyForm) map[string]any {
	fields := map[string]any{
		"name":        f.Name,
		"duration":    f.Duration,
		"description": f.Description,
	}
	if f.Preparation != "" {
		fields["preparation"] = f.Preparation
	}
	return fields
}

// patientEmail derives the placeholder address: first space becomes a dot.
func patientEmail(name string) string {
	return strings.Replace(strings.ToLower(name), " ", ".", 1) + "@email.com"
}

func itoa(n int) string { return strconv.Itoa(n) }
