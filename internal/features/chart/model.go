package chart

// Chart types rendered by the frontend. The engine only cares about the
// grouping and aggregation, the type rides along for display.
const (
	TypeBar  = "bar"
	TypeLine = "line"
	TypePie  = "pie"
)

const (
	AggCount = "count"
	AggSum   = "sum"
	AggAvg   = "avg"
)

// ChartSpec describes one chart attached to a report.
type ChartSpec struct {
	Type        string `json:"type" bson:"type"`
	Title       string `json:"title" bson:"title"`
	XField      string `json:"x_field" bson:"x_field"`
	YField      string `json:"y_field,omitempty" bson:"y_field,omitempty"`
	GroupBy     string `json:"group_by,omitempty" bson:"group_by,omitempty"`
	Aggregation string `json:"aggregation" bson:"aggregation"`
}

// SeriesPoint is one bucket of a computed series.
type SeriesPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Series is the computed output for one chart.
type Series struct {
	Type   string        `json:"type"`
	Title  string        `json:"title"`
	Points []SeriesPoint `json:"points"`
}
