package chart

import (
	"reflect"
	"testing"
)

func rowsOf(stage ...interface{}) []map[string]interface{} {
	rows := make([]map[string]interface{}, len(stage))
	for i, s := range stage {
		rows[i] = map[string]interface{}{}
		if s != nil {
			rows[i]["stage"] = s
		}
	}
	return rows
}

func TestComputeSeriesCountFirstSeenOrder(t *testing.T) {
	rows := rowsOf("Open", "Open", "Closed", "Open", nil)

	series := ComputeSeries(ChartSpec{Type: TypeBar, XField: "stage", Aggregation: AggCount}, rows)

	want := []SeriesPoint{
		{Name: "Open", Value: 3},
		{Name: "Closed", Value: 1},
		{Name: "Unknown", Value: 1},
	}
	if !reflect.DeepEqual(series.Points, want) {
		t.Errorf("points = %v, want %v", series.Points, want)
	}
}

func TestComputeSeriesSumAndAvg(t *testing.T) {
	rows := []map[string]interface{}{
		{"stage": "Open", "amount": float64(10)},
		{"stage": "Open", "amount": float64(30)},
		{"stage": "Closed", "amount": float64(5)},
	}

	sum := ComputeSeries(ChartSpec{XField: "stage", YField: "amount", Aggregation: AggSum}, rows)
	wantSum := []SeriesPoint{{Name: "Open", Value: 40}, {Name: "Closed", Value: 5}}
	if !reflect.DeepEqual(sum.Points, wantSum) {
		t.Errorf("sum = %v, want %v", sum.Points, wantSum)
	}

	avg := ComputeSeries(ChartSpec{XField: "stage", YField: "amount", Aggregation: AggAvg}, rows)
	wantAvg := []SeriesPoint{{Name: "Open", Value: 20}, {Name: "Closed", Value: 5}}
	if !reflect.DeepEqual(avg.Points, wantAvg) {
		t.Errorf("avg = %v, want %v", avg.Points, wantAvg)
	}
}

func TestComputeSeriesNonNumericCountsAsZero(t *testing.T) {
	rows := []map[string]interface{}{
		{"stage": "Open", "amount": "12.5"},
		{"stage": "Open", "amount": "n/a"},
		{"stage": "Open", "amount": nil},
	}

	series := ComputeSeries(ChartSpec{XField: "stage", YField: "amount", Aggregation: AggSum}, rows)
	want := []SeriesPoint{{Name: "Open", Value: 12.5}}
	if !reflect.DeepEqual(series.Points, want) {
		t.Errorf("points = %v, want %v", series.Points, want)
	}
}

func TestComputeSeriesDegenerateSpecs(t *testing.T) {
	rows := rowsOf("Open")

	tests := []struct {
		name string
		spec ChartSpec
	}{
		{"no x field", ChartSpec{Aggregation: AggCount}},
		{"sum without y field", ChartSpec{XField: "stage", Aggregation: AggSum}},
		{"avg without y field", ChartSpec{XField: "stage", Aggregation: AggAvg}},
		{"unknown aggregation", ChartSpec{XField: "stage", YField: "stage", Aggregation: "median"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := ComputeSeries(tt.spec, rows)
			if len(series.Points) != 0 {
				t.Errorf("expected empty series, got %v", series.Points)
			}
			if series.Points == nil {
				t.Error("points must be an empty slice, not nil")
			}
		})
	}
}

func TestComputeSeriesEmptyRows(t *testing.T) {
	series := ComputeSeries(ChartSpec{XField: "stage", Aggregation: AggCount}, nil)
	if len(series.Points) != 0 {
		t.Errorf("expected no points, got %v", series.Points)
	}
}

func TestComputeSeriesDoesNotMutateRows(t *testing.T) {
	rows := []map[string]interface{}{{"stage": "Open", "amount": float64(1)}}
	ComputeSeries(ChartSpec{XField: "stage", YField: "amount", Aggregation: AggSum}, rows)
	if len(rows[0]) != 2 {
		t.Errorf("rows mutated: %v", rows[0])
	}
}

func TestComputeSeriesNumericBuckets(t *testing.T) {
	rows := []map[string]interface{}{
		{"qty": float64(2)},
		{"qty": float64(2)},
		{"qty": float64(10)},
	}
	series := ComputeSeries(ChartSpec{XField: "qty", Aggregation: AggCount}, rows)
	want := []SeriesPoint{{Name: "2", Value: 2}, {Name: "10", Value: 1}}
	if !reflect.DeepEqual(series.Points, want) {
		t.Errorf("points = %v, want %v", series.Points, want)
	}
}

func TestLookupDottedPath(t *testing.T) {
	row := map[string]interface{}{
		"order": map[string]interface{}{"status": "paid"},
	}
	if got := Lookup(row, "order.status"); got != "paid" {
		t.Errorf("Lookup = %v", got)
	}
	if got := Lookup(row, "order.missing"); got != nil {
		t.Errorf("expected nil for missing leaf, got %v", got)
	}

	flat := map[string]interface{}{"order.status": "flat-wins", "order": map[string]interface{}{"status": "nested"}}
	if got := Lookup(flat, "order.status"); got != "flat-wins" {
		t.Errorf("flat key should win, got %v", got)
	}
}

func TestComputeAll(t *testing.T) {
	rows := rowsOf("Open", "Closed")
	specs := []ChartSpec{
		{Type: TypePie, Title: "By Stage", XField: "stage", Aggregation: AggCount},
		{Type: TypeBar, Title: "Broken", Aggregation: AggCount},
	}
	series := ComputeAll(specs, rows)
	if len(series) != 2 {
		t.Fatalf("expected a series per spec, got %d", len(series))
	}
	if series[0].Title != "By Stage" || len(series[0].Points) != 2 {
		t.Errorf("first series = %+v", series[0])
	}
	if len(series[1].Points) != 0 {
		t.Errorf("second series should be empty, got %v", series[1].Points)
	}
}
