package models

// ProgramInfo is one menu button.
type ProgramInfo struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Available bool   `json:"available"`
}

// StateView is the current menu selection of a session.
type StateView struct {
	Selected string `json:"selected"`
	Title    string `json:"title"`
}

// Panel is everything the presentation layer draws for one program.
// When Error is set the other sections are empty.
type Panel struct {
	Program string       `json:"program"`
	Title   string       `json:"title"`
	Info    string       `json:"info,omitempty"`
	Metrics []MetricCard `json:"metrics"`
	Charts  []Chart      `json:"charts"`
	Tables  []Table      `json:"tables"`
	Filters *Filters     `json:"filters,omitempty"`
	Error   *PanelError  `json:"error,omitempty"`
}

// PanelError is the single message shown instead of a failed panel.
type PanelError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// Filters lists the interactive controls a panel offers.
type Filters struct {
	Jurisdictions         []string `json:"jurisdictions,omitempty"`
	SelectedJurisdictions []string `json:"selected_jurisdictions,omitempty"`
	Lines                 []string `json:"lines,omitempty"`
	SelectedLine          string   `json:"selected_line,omitempty"`
}

// MetricCard is a scalar summary. Value is 0 when HasData is false.
type MetricCard struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	HasData bool    `json:"has_data"`
}

// Chart kinds.
const (
	ChartBar        = "bar"
	ChartBarH       = "barh"
	ChartGroupedBar = "grouped_bar"
	ChartPie        = "pie"
	ChartScatter    = "scatter"
)

// Chart is a 2-D chart description over already aggregated data.
type Chart struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Kind   string  `json:"kind"`
	XLabel string  `json:"x_label,omitempty"`
	YLabel string  `json:"y_label,omitempty"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Point is one bar, slice or bubble. Series is set for grouped bars,
// Size for bubbles.
type Point struct {
	Category string            `json:"category"`
	Series   string            `json:"series,omitempty"`
	Value    float64           `json:"value"`
	Size     float64           `json:"size,omitempty"`
	Hover    map[string]string `json:"hover,omitempty"`
}

// Table is a tabular dump.
type Table struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}
