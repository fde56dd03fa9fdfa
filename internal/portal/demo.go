package portal

import "github.com/ayursutra/clinic/internal/core/domain"

// Demo figures shown until the backend exposes real aggregates.
const (
	demoTodayAppointments = 12
	demoActiveTherapies   = 45
	demoSuccessRate       = "92%"
)

var chartPalette = []string{"#1FB8CD", "#FFC185", "#B4413C", "#5D878F"}

func progressChart() domain.Chart {
	return domain.Chart{
		ID:     PanelProgressChart,
		Type:   "line",
		Labels: []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5", "Week 6"},
		Datasets: []domain.Dataset{{
			Label:  "Treatment Progress",
			Data:   []float64{15, 25, 40, 55, 70, 85},
			Colors: chartPalette[:1],
			Fill:   true,
		}},
		Max: 100,
	}
}

func effectivenessChart() domain.Chart {
	return domain.Chart{
		ID:     PanelEffectivenessChart,
		Type:   "bar",
		Labels: []string{"Abhyanga", "Udvartana", "Basti", "Nasya"},
		Datasets: []domain.Dataset{{
			Label:  "Effectiveness %",
			Data:   []float64{95, 88, 92, 85},
			Colors: chartPalette,
		}},
		Max: 100,
	}
}

func doshaChart() domain.Chart {
	return domain.Chart{
		ID:       PanelDoshaChart,
		Type:     "doughnut",
		Labels:   []string{"Vata", "Pitta", "Kapha", "Mixed"},
		Datasets: []domain.Dataset{{Data: []float64{35, 30, 25, 10}, Colors: chartPalette}},
		Legend:   "bottom",
	}
}

func appointmentsChart() domain.Chart {
	return domain.Chart{
		ID:     PanelAppointmentsChart,
		Type:   "line",
		Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		Datasets: []domain.Dataset{{
			Label:  "Appointments",
			Data:   []float64{120, 150, 180, 165, 200, 185},
			Colors: chartPalette[:1],
			Fill:   true,
		}},
	}
}

var (
	calendarDays  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	calendarTimes = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00"}

	// keyed by "<day>-<time>"
	demoAppointments = map[string]calendarCell{
		"Mon-10:00": {Patient: "Rajesh Kumar", Therapy: "Abhyanga"},
		"Tue-14:00": {Patient: "Priya Sharma", Therapy: "Swedana"},
		"Wed-09:00": {Patient: "Amit Patel", Therapy: "Basti"},
	}
)

func demoCalendar() calendarGrid {
	grid := calendarGrid{Days: calendarDays}
	for _, tm := range calendarTimes {
		row := calendarRow{Time: tm}
		for _, day := range calendarDays {
			cell := demoAppointments[day+"-"+tm]
			cell.Day, cell.Time = day, tm
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
