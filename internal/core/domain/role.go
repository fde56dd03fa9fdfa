package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role gates which data and which affordances a session sees.
type Role string

const (
	RolePatient      Role = "patient"
	RolePractitioner Role = "practitioner"
	RoleAdmin        Role = "admin"
)

// ParseRole validates a role coming from the outside world.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePatient, RolePractitioner, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Restricted reports whether the role belongs to the restricted visibility
// class. Only patients are restricted; practitioners and admins are not.
func (r Role) Restricted() bool {
	return r == RolePatient
}

// Identity is the synthetic user bound to a role.
type Identity struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Avatar string `json:"avatar"`
}

var identities = map[Role]Identity{
	RolePatient:      {Name: "Rajesh Kumar", ID: "P001", Avatar: "👤"},
	RolePractitioner: {Name: "Dr. Anil Gupta", ID: "D001", Avatar: "👨‍⚕️"},
	RoleAdmin:        {Name: "Admin User", ID: "A001", Avatar: "👨‍💼"},
}

// IdentityFor returns the identity bound to role.
func IdentityFor(r Role) (Identity, bool) {
	id, ok := identities[r]
	return id, ok
}

// Session is created wholesale on role selection and never updated.
type Session struct {
	ID       string    `json:"id"`
	Role     Role      `json:"role"`
	Identity Identity  `json:"identity"`
	Started  time.Time `json:"started"`
}

// NewSession binds role to its identity.
func NewSession(role Role, now time.Time) (*Session, error) {
	identity, ok := IdentityFor(role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return &Session{
		ID:       uuid.NewString(),
		Role:     role,
		Identity: identity,
		Started:  now,
	}, nil
}

// Restricted is true for patient sessions and for a missing session, so
// that mutation guards fail closed.
func (s *Session) Restricted() bool {
	return s == nil || s.Role.Restricted()
}
