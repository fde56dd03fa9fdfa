package domain

import "fmt"

// Collection names a server-owned set of records.
type Collection string

const (
	CollectionPatients      Collection = "patients"
	CollectionTherapies     Collection = "therapies"
	CollectionNotifications Collection = "notifications"
)

func ParseCollection(s string) (Collection, error) {
	switch c := Collection(s); c {
	case CollectionPatients, CollectionTherapies, CollectionNotifications:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrNotFound, s)
}

// Singular is the record noun used in user-facing messages.
func (c Collection) Singular() string {
	switch c {
	case CollectionPatients:
		return "patient"
	case CollectionTherapies:
		return "therapy"
	case CollectionNotifications:
		return "notification"
	}
	return string(c)
}
