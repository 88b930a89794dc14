package report

import (
	"context"
	"reflect"
	"testing"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/features/chart"
	"go-reporting/internal/features/record"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRecordService struct {
	lastInput record.QueryInput
	rows      []map[string]interface{}
	total     int64
}

func (f *fakeRecordService) Query(_ context.Context, _ primitive.ObjectID, input record.QueryInput) (*record.QueryResult, error) {
	f.lastInput = input
	return &record.QueryResult{Rows: f.rows, Total: f.total}, nil
}

func (f *fakeRecordService) CreateRecord(context.Context, primitive.ObjectID, string, map[string]interface{}) (string, error) {
	return "", nil
}

func (f *fakeRecordService) GetRecord(context.Context, primitive.ObjectID, string, string) (map[string]interface{}, error) {
	return nil, nil
}

func (f *fakeRecordService) DeleteRecord(context.Context, primitive.ObjectID, string, string) error {
	return nil
}

func sampleReport() *Report {
	return &Report{
		ID:             primitive.NewObjectID(),
		Name:           "Pipeline",
		ObjectType:     "deals",
		SelectedFields: []string{"name", "amount"},
		Filters: []common_models.FilterPredicate{
			{Field: "stage", Operator: "eq", Value: "Open"},
		},
		Sorting: []common_models.SortSpec{{Field: "amount", Direction: "desc"}},
	}
}

func TestBuildRunInputWithoutOverrides(t *testing.T) {
	rpt := sampleReport()
	input := buildRunInput(rpt, RunOptions{})

	if input.ObjectType != "deals" {
		t.Errorf("object type = %q", input.ObjectType)
	}
	if !reflect.DeepEqual(input.Filters, rpt.Filters) {
		t.Errorf("filters changed: %v", input.Filters)
	}
	if !reflect.DeepEqual(input.Sort, rpt.Sorting) {
		t.Errorf("sort changed: %v", input.Sort)
	}
}

func TestBuildRunInputDateFilterNotPersisted(t *testing.T) {
	rpt := sampleReport()
	opts := RunOptions{
		DateField: "created_at",
		DateRange: &common_models.Range{Start: "2024-01-01", End: "2024-06-30"},
	}

	input := buildRunInput(rpt, opts)

	if len(input.Filters) != 2 {
		t.Fatalf("expected saved filter plus quick filter, got %v", input.Filters)
	}
	if input.Filters[1].Operator != "between" || input.Filters[1].Field != "created_at" {
		t.Errorf("quick filter = %+v", input.Filters[1])
	}

	// The definition itself must be untouched.
	if len(rpt.Filters) != 1 {
		t.Errorf("stored definition mutated: %v", rpt.Filters)
	}
}

func TestBuildRunInputSortOverrideReplaces(t *testing.T) {
	rpt := sampleReport()
	input := buildRunInput(rpt, RunOptions{SortField: "name"})

	want := []common_models.SortSpec{{Field: "name", Direction: "asc"}}
	if !reflect.DeepEqual(input.Sort, want) {
		t.Errorf("sort = %v, want %v", input.Sort, want)
	}
	if rpt.Sorting[0].Field != "amount" {
		t.Errorf("stored sorting mutated: %v", rpt.Sorting)
	}
}

func TestRunComputesCharts(t *testing.T) {
	rec := &fakeRecordService{
		rows: []map[string]interface{}{
			{"name": "A", "amount": float64(10), "stage": "Open"},
			{"name": "B", "amount": float64(20), "stage": "Open"},
		},
		total: 2,
	}
	svc := &ReportServiceImpl{RecordService: rec, Logger: zap.NewNop()}

	rpt := sampleReport()
	rpt.Charts = []chart.ChartSpec{{Type: chart.TypeBar, XField: "stage", YField: "amount", Aggregation: chart.AggSum}}

	result, err := svc.run(context.Background(), primitive.NewObjectID(), rpt, RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Total != 2 || len(result.Rows) != 2 {
		t.Errorf("result = total %d rows %d", result.Total, len(result.Rows))
	}
	if !rec.lastInput.WithCount {
		t.Error("run must request a total count")
	}
	if len(result.Charts) != 1 {
		t.Fatalf("charts = %v", result.Charts)
	}
	want := []chart.SeriesPoint{{Name: "Open", Value: 30}}
	if !reflect.DeepEqual(result.Charts[0].Points, want) {
		t.Errorf("chart points = %v, want %v", result.Charts[0].Points, want)
	}
}

func TestRunWithoutChartsReturnsEmptySlice(t *testing.T) {
	rec := &fakeRecordService{total: 0}
	svc := &ReportServiceImpl{RecordService: rec, Logger: zap.NewNop()}

	result, err := svc.run(context.Background(), primitive.NewObjectID(), sampleReport(), RunOptions{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Charts == nil || len(result.Charts) != 0 {
		t.Errorf("charts should be an empty slice, got %v", result.Charts)
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Report)
		wantErr bool
	}{
		{"valid", func(r *Report) {}, false},
		{"missing name", func(r *Report) { r.Name = "" }, true},
		{"missing object type", func(r *Report) { r.ObjectType = "" }, true},
		{"no fields", func(r *Report) { r.SelectedFields = nil }, true},
		{"chart without x field", func(r *Report) {
			r.Charts = []chart.ChartSpec{{Aggregation: chart.AggCount}}
		}, true},
		{"sum chart without y field", func(r *Report) {
			r.Charts = []chart.ChartSpec{{XField: "stage", Aggregation: chart.AggSum}}
		}, true},
		{"count chart without y field is fine", func(r *Report) {
			r.Charts = []chart.ChartSpec{{XField: "stage", Aggregation: chart.AggCount}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpt := sampleReport()
			tt.mutate(rpt)
			err := validateDefinition(rpt)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
