package domain

import "time"

// Patient is owned by the clinic API; the portal reads and writes a subset.
type Patient struct {
	ID                string     `json:"_id,omitempty"               bson:"_id,omitempty"`
	PatientID         string     `json:"id,omitempty"                bson:"id,omitempty"`
	Name              string     `json:"name"                        bson:"name"`
	Age               int        `json:"age"                         bson:"age"`
	Dosha             string     `json:"dosha,omitempty"             bson:"dosha,omitempty"`
	Condition         string     `json:"condition,omitempty"         bson:"condition,omitempty"`
	Progress          *int       `json:"progress,omitempty"          bson:"progress,omitempty"`
	SessionsCompleted int        `json:"sessionsCompleted"           bson:"sessionsCompleted"`
	TotalSessions     int        `json:"totalSessions"               bson:"totalSessions"`
	Therapies         []string   `json:"therapies,omitempty"         bson:"therapies,omitempty"`
	NextAppointment   *time.Time `json:"nextAppointment,omitempty"   bson:"nextAppointment,omitempty"`
	Email             string     `json:"email,omitempty"             bson:"email,omitempty"`
	Phone             string     `json:"phone,omitempty"             bson:"phone,omitempty"`
}

// ProgressPercent is the progress clamped to 0..100; absent progress is 0.
func (p Patient) ProgressPercent() int {
	if p.Progress == nil {
		return 0
	}
	switch v := *p.Progress; {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// ProgressStatus buckets progress for display.
func (p Patient) ProgressStatus() string {
	switch v := p.ProgressPercent(); {
	case v > 70:
		return "success"
	case v > 40:
		return "warning"
	default:
		return "info"
	}
}

// OwnedBy reports whether the record belongs to the given identity.
func (p Patient) OwnedBy(id Identity) bool {
	return p.PatientID == id.ID
}
