package domain

import "time"

// State is the whole navigation state of one portal user. Transitions are
// pure: they return a new State and describe the side effects to apply.
type State struct {
	Session *Session
	View    View
	// Epoch increases on every view transition. Fetches are tagged with the
	// epoch they were issued under and dropped when it has moved on.
	Epoch uint64
}

// Transition describes what the controller must do after a view change.
type Transition struct {
	From View
	To   View
	// StopRefresh is set when leaving the dashboard; the refresh timer must
	// be torn down before the next view loads.
	StopRefresh bool
	Epoch       uint64
}

// SelectRole replaces the session and moves to the dashboard.
func (s State) SelectRole(role Role, now time.Time) (State, Transition, error) {
	session, err := NewSession(role, now)
	if err != nil {
		return s, Transition{}, err
	}
	s.Session = session
	next, t := s.ShowView(ViewDashboard)
	return next, t, nil
}

// ShowView activates v. Unknown views are still activated (nothing is shown
// and nothing loads) so the previous view's timer is always torn down.
func (s State) ShowView(v View) (State, Transition) {
	t := Transition{
		From:        s.View,
		To:          v,
		StopRefresh: s.View == ViewDashboard,
		Epoch:       s.Epoch + 1,
	}
	s.View = v
	s.Epoch = t.Epoch
	return s, t
}

// Clear ends the session, e.g. when the user goes back to role selection.
func (s State) Clear() (State, Transition) {
	t := Transition{
		From:        s.View,
		StopRefresh: s.View == ViewDashboard,
		Epoch:       s.Epoch + 1,
	}
	return State{Epoch: t.Epoch}, t
}

