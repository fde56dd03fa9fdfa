package portal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ayursutra/clinic/internal/core/domain"
)

const (
	upcomingLimit = 3
	dateLayout    = "Jan 2, 2006"
)

type cardList[C any] struct {
	Cards    []C
	Editable bool
}

type patientCard struct {
	ID                string
	Name              string
	Age               int
	Dosha             string
	Condition         string
	NextAppointment   string
	Progress          int
	Status            string
	SessionsCompleted int
	TotalSessions     int
	Hidden            bool
}

type therapyCard struct {
	ID          string
	Name        string
	Duration    string
	Description string
}

type notificationCard struct {
	ID      string
	Title   string
	Message string
	When    string
}

type failure struct {
	Message string
}

type dashboardStats struct {
	TotalPatients     int
	TodayAppointments int
	ActiveTherapies   int
	SuccessRate       string
}

type appointmentItem struct {
	Name string
	Date string
}

type appointmentList struct {
	Items []appointmentItem
}

type calendarGrid struct {
	Days []string
	Rows []calendarRow
}

type calendarRow struct {
	Time  string
	Cells []calendarCell
}

type calendarCell struct {
	Day     string
	Time    string
	Patient string
	Therapy string
}

type suggestionList struct {
	Suggestions []string
}

type option struct {
	Value string
	Label string
}

type scheduleOptions struct {
	Patients  []option
	Therapies []option
}

type recipientList struct {
	Recipients []option
}

type editorForm struct {
	Collection domain.Collection
	ID         string
	Title      string
	Fields     []editorField
}

type editorField struct {
	Name  string
	Label string
	Type  string
	Value string
}

// patientFilter narrows the rendered patient cards by name and dosha.
type patientFilter struct {
	Search string
	Dosha  string
}

func (f patientFilter) matches(p domain.Patient) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Dosha != "" && !strings.Contains(strings.ToLower(p.Dosha), strings.ToLower(f.Dosha)) {
		return false
	}
	return true
}

func patientCards(recs []domain.Patient, f patientFilter) []patientCard {
	cards := make([]patientCard, 0, len(recs))
	for _, p := range recs {
		next := "Not scheduled"
		if p.NextAppointment != nil {
			next = p.NextAppointment.Format(dateLayout)
		}
		cards = append(cards, patientCard{
			ID:                p.ID,
			Name:              p.Name,
			Age:               p.Age,
			Dosha:             p.Dosha,
			Condition:         p.Condition,
			NextAppointment:   next,
			Progress:          p.ProgressPercent(),
			Status:            p.ProgressStatus(),
			SessionsCompleted: p.SessionsCompleted,
			TotalSessions:     p.TotalSessions,
			Hidden:            !f.matches(p),
		})
	}
	return cards
}

func therapyCards(recs []domain.Therapy) []therapyCard {
	cards := make([]therapyCard, 0, len(recs))
	for _, t := range recs {
		cards = append(cards, therapyCard{
			ID:          t.ID,
			Name:        t.Name,
			Duration:    formatDays(t.Duration),
			Description: t.Description,
		})
	}
	return cards
}

func notificationCards(recs []domain.Notification, now time.Time) []notificationCard {
	cards := make([]notificationCard, 0, len(recs))
	for _, n := range recs {
		cards = append(cards, notificationCard{
			ID:      n.ID,
			Title:   n.Title,
			Message: n.Message,
			When:    relativeTime(now, n.Date),
		})
	}
	return cards
}

// upcoming lists the first patients that have a next appointment.
func upcoming(recs []domain.Patient) appointmentList {
	var out appointmentList
	for _, p := range recs {
		if p.NextAppointment == nil {
			continue
		}
		out.Items = append(out.Items, appointmentItem{Name: p.Name, Date: p.NextAppointment.Format(dateLayout)})
		if len(out.Items) == upcomingLimit {
			break
		}
	}
	return out
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// relativeTime renders t relative to now in whole hours or days.
func relativeTime(now, t time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}

// suggestions builds the fixed scheduling hints for a patient and therapy.
func suggestions(p *domain.Patient, therapyName string, t *domain.Therapy) []string {
	constitution := "patient"
	if p != nil && p.Dosha != "" {
		constitution = p.Dosha
	}
	duration, preparation := "0", "—"
	if t != nil {
		duration = formatDays(t.Duration)
		if t.Preparation != "" {
			preparation = t.Preparation
		}
	}
	return []string{
		fmt.Sprintf("Optimal time: 10:00 AM (%s constitution benefits from morning sessions)", constitution),
		fmt.Sprintf("Recommended room: Room 2 (equipped for %s)", therapyName),
		fmt.Sprintf("Best practitioner: Dr. Anil Gupta (available, specializes in %s)", therapyName),
		fmt.Sprintf("Estimated duration: %s days", duration),
		"Pre-procedure: " + preparation,
		"Follow-up scheduling: Auto-schedule next session in 3 days",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
