package domain

// Chart is the payload handed to the browser-side chart widget.
type Chart struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	// Max pins the y axis; zero lets the widget decide.
	Max    float64 `json:"max,omitempty"`
	Legend string  `json:"legend,omitempty"`
}

type Dataset struct {
	Label  string    `json:"label,omitempty"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
	Fill   bool      `json:"fill,omitempty"`
}
