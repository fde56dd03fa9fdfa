package domain

// View is one of the named application screens.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewPatients      View = "patients"
	ViewSchedule      View = "schedule"
	ViewNotifications View = "notifications"
	ViewAnalytics     View = "analytics"
	ViewTherapies     View = "therapies"
	ViewSettings      View = "settings"
)

// Views lists every view in menu order.
var Views = []View{
	ViewDashboard,
	ViewPatients,
	ViewSchedule,
	ViewNotifications,
	ViewAnalytics,
	ViewTherapies,
	ViewSettings,
}

var viewLabels = map[View]string{
	ViewDashboard:     "Dashboard",
	ViewPatients:      "Patients",
	ViewSchedule:      "Schedule",
	ViewNotifications: "Notifications",
	ViewAnalytics:     "Analytics",
	ViewTherapies:     "Therapies",
	ViewSettings:      "Settings",
}

// staffOnly views are hidden from the restricted class.
var staffOnly = map[View]bool{
	ViewPatients:  true,
	ViewAnalytics: true,
	ViewTherapies: true,
}

func (v View) Label() string {
	return viewLabels[v]
}

// VisibleTo reports whether the menu entry for v is shown to role.
func (v View) VisibleTo(r Role) bool {
	return !(r.Restricted() && staffOnly[v])
}

// MenuItem is a navigation entry as rendered.
type MenuItem struct {
	View    View   `json:"view"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
	Active  bool   `json:"active"`
}

// Menu builds the navigation for role with active highlighted.
func Menu(r Role, active View) []MenuItem {
	items := make([]MenuItem, 0, len(Views))
	for _, v := range Views {
		items = append(items, MenuItem{
			View:    v,
			Label:   v.Label(),
			Visible: v.VisibleTo(r),
			Active:  v == active,
		})
	}
	return items
}
