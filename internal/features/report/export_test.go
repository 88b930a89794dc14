package report

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestWriteCSVQuotesOnlyWhenNeeded(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "A, Inc", "total": float64(10)},
		{"name": "B", "total": float64(20)},
	}

	data, err := writeCSV([]string{"name", "total"}, rows)
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	want := "name,total\n\"A, Inc\",10\nB,20\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", string(data), want)
	}
}

func TestWriteCSVResolvesDottedFields(t *testing.T) {
	rows := []map[string]interface{}{
		{
			"customer": map[string]interface{}{"first_name": "Ada"},
			"quantity": float64(3),
		},
	}

	data, err := writeCSV([]string{"customer.first_name", "quantity"}, rows)
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	want := "customer.first_name,quantity\nAda,3\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", string(data), want)
	}
}

type fakeReportRepo struct {
	report *Report
}

func (f *fakeReportRepo) Create(context.Context, primitive.ObjectID, *Report) error { return nil }
func (f *fakeReportRepo) Get(context.Context, primitive.ObjectID, string) (*Report, error) {
	return f.report, nil
}
func (f *fakeReportRepo) List(context.Context, primitive.ObjectID, ListFilter) ([]Report, error) {
	return nil, nil
}
func (f *fakeReportRepo) Update(context.Context, primitive.ObjectID, string, *Report) error {
	return nil
}
func (f *fakeReportRepo) SetFavorite(context.Context, primitive.ObjectID, string, bool) error {
	return nil
}
func (f *fakeReportRepo) SetShared(context.Context, primitive.ObjectID, string, bool) error {
	return nil
}
func (f *fakeReportRepo) Delete(context.Context, primitive.ObjectID, string) error { return nil }

func TestExportHonorsViewerPage(t *testing.T) {
	rec := &fakeRecordService{}
	svc := &ReportServiceImpl{
		Repo:          &fakeReportRepo{report: sampleReport()},
		RecordService: rec,
		Logger:        zap.NewNop(),
	}

	_, _, err := svc.Export(context.Background(), primitive.NewObjectID(), "id", "csv", RunOptions{Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if rec.lastInput.Page != 2 || rec.lastInput.PageSize != 1 {
		t.Errorf("query window = page %d size %d, want 2/1", rec.lastInput.Page, rec.lastInput.PageSize)
	}
}

func TestExportWithoutWindowCoversFullResult(t *testing.T) {
	rec := &fakeRecordService{}
	svc := &ReportServiceImpl{
		Repo:          &fakeReportRepo{report: sampleReport()},
		RecordService: rec,
		Logger:        zap.NewNop(),
	}

	_, _, err := svc.Export(context.Background(), primitive.NewObjectID(), "id", "csv", RunOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if rec.lastInput.Page != 1 || rec.lastInput.PageSize != exportRowCap {
		t.Errorf("query window = page %d size %d, want 1/%d", rec.lastInput.Page, rec.lastInput.PageSize, exportRowCap)
	}
}

func TestWriteCSVMissingValuesBlank(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "A"},
	}

	data, err := writeCSV([]string{"name", "total"}, rows)
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	want := "name,total\nA,\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", string(data), want)
	}
}

func TestWriteCSVHeaderOnlyForEmptyResult(t *testing.T) {
	data, err := writeCSV([]string{"name"}, nil)
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}
	if string(data) != "name\n" {
		t.Errorf("csv = %q", string(data))
	}
}

func TestFormatCell(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil is blank", nil, ""},
		{"string passes through", "hello", "hello"},
		{"whole float drops decimals", float64(10), "10"},
		{"fractional float keeps them", float64(12.5), "12.5"},
		{"bool", true, "true"},
		{"time formats", ts, "2024-03-01 09:30:00"},
		{"object id as hex", oid, oid.Hex()},
		{"lookup map uses name", map[string]interface{}{"name": "Acme"}, "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.in); got != tt.want {
				t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteExcelProducesWorkbook(t *testing.T) {
	rows := []map[string]interface{}{
		{"name": "A", "total": float64(10)},
	}
	data, err := writeExcel("Deals", []string{"name", "total"}, rows)
	if err != nil {
		t.Fatalf("writeExcel: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected workbook bytes")
	}
	// xlsx files are zip archives
	if data[0] != 'P' || data[1] != 'K' {
		t.Errorf("unexpected magic bytes %v", data[:2])
	}
}
