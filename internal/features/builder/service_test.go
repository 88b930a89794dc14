package builder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-reporting/internal/common/models"
	"go-reporting/internal/config"
	"go-reporting/internal/features/catalog"
	"go-reporting/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	fields []catalog.ReportField
	err    error
}

func (f *fakeCatalog) ResolveFields(_ context.Context, _ primitive.ObjectID, _ string, selection []string) ([]catalog.ReportField, error) {
	if f.err != nil {
		return nil, f.err
	}
	selected := make(map[string]bool, len(selection))
	for _, s := range selection {
		selected[s] = true
	}
	out := make([]catalog.ReportField, len(f.fields))
	copy(out, f.fields)
	for i := range out {
		out[i].Selected = selected[out[i].Name]
	}
	return out, nil
}

type fakeReports struct {
	stored   map[string]*report.Report
	runs     atomic.Int64
	runErr   error
	created  *report.Report
	updated  *report.Report
}

func newFakeReports() *fakeReports {
	return &fakeReports{stored: map[string]*report.Report{}}
}

func (f *fakeReports) CreateReport(_ context.Context, _ primitive.ObjectID, r *report.Report) error {
	f.created = r
	return nil
}

func (f *fakeReports) GetReport(_ context.Context, _ primitive.ObjectID, id string) (*report.Report, error) {
	r, ok := f.stored[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (f *fakeReports) ListReports(context.Context, primitive.ObjectID, report.ListFilter) ([]report.Report, error) {
	return nil, nil
}

func (f *fakeReports) UpdateReport(_ context.Context, _ primitive.ObjectID, _ string, r *report.Report) error {
	f.updated = r
	return nil
}

func (f *fakeReports) DeleteReport(context.Context, primitive.ObjectID, string) error { return nil }

func (f *fakeReports) SetFavorite(context.Context, primitive.ObjectID, string, bool) error {
	return nil
}

func (f *fakeReports) SetShared(context.Context, primitive.ObjectID, string, bool) error { return nil }

func (f *fakeReports) Run(context.Context, primitive.ObjectID, string, report.RunOptions) (*report.RunResult, error) {
	return nil, nil
}

func (f *fakeReports) RunDefinition(_ context.Context, _ primitive.ObjectID, rpt *report.Report, _ report.RunOptions) (*report.RunResult, error) {
	f.runs.Add(1)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &report.RunResult{
		Columns: rpt.SelectedFields,
		Rows:    []map[string]interface{}{{"name": "A"}},
		Total:   1,
	}, nil
}

func (f *fakeReports) Export(context.Context, primitive.ObjectID, string, string, report.RunOptions) ([]byte, string, error) {
	return nil, "", nil
}

func newTestService(cat *fakeCatalog, rep *fakeReports, debounce time.Duration) *BuilderServiceImpl {
	return &BuilderServiceImpl{
		Manager:        NewSessionManager(zap.NewNop()),
		CatalogService: cat,
		ReportService:  rep,
		Config:         &config.Config{PreviewDebounce: debounce},
		Logger:         zap.NewNop(),
	}
}

func dealsCatalog() *fakeCatalog {
	return &fakeCatalog{fields: []catalog.ReportField{
		{Kind: catalog.KindStandard, Name: "name", DataType: models.FieldTypeText},
		{Kind: catalog.KindStandard, Name: "amount", DataType: models.FieldTypeNumber},
		{Kind: catalog.KindCustom, Name: "region__c", DataType: models.FieldTypeText},
	}}
}

func TestEditSessionStartsAtFieldsWithSelectionChecked(t *testing.T) {
	rep := newFakeReports()
	rep.stored["abc"] = &report.Report{
		Name:           "Pipeline",
		ObjectType:     "deals",
		SelectedFields: []string{"name", "region__c"},
	}
	svc := newTestService(dealsCatalog(), rep, time.Hour)
	orgID := primitive.NewObjectID()

	view, err := svc.StartSession(context.Background(), orgID, "abc")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if view.Step != StepFields {
		t.Errorf("step = %q, want %q", view.Step, StepFields)
	}
	if !view.Editing {
		t.Error("expected editing flag")
	}

	checked := map[string]bool{}
	for _, f := range view.Catalog {
		checked[f.Name] = f.Selected
	}
	if !checked["name"] || !checked["region__c"] || checked["amount"] {
		t.Errorf("selection marks = %v", checked)
	}
}

func TestEditSessionObjectTypeFixed(t *testing.T) {
	rep := newFakeReports()
	rep.stored["abc"] = &report.Report{Name: "P", ObjectType: "deals", SelectedFields: []string{"name"}}
	svc := newTestService(dealsCatalog(), rep, time.Hour)
	orgID := primitive.NewObjectID()

	view, err := svc.StartSession(context.Background(), orgID, "abc")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.SelectObject(context.Background(), orgID, view.ID, "orders"); !errors.Is(err, ErrObjectFixed) {
		t.Fatalf("expected ErrObjectFixed, got %v", err)
	}
}

func TestCatalogFailureLeavesEmptyCatalog(t *testing.T) {
	svc := newTestService(&fakeCatalog{err: errors.New("boom")}, newFakeReports(), time.Hour)
	orgID := primitive.NewObjectID()

	view, err := svc.StartSession(context.Background(), orgID, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	view, err = svc.SelectObject(context.Background(), orgID, view.ID, "deals")
	if err != nil {
		t.Fatalf("select object: %v", err)
	}
	if len(view.Catalog) != 0 {
		t.Errorf("catalog = %v", view.Catalog)
	}
	if view.CatalogErr == "" {
		t.Error("expected a catalog error message")
	}

	// With no fields selectable the wizard cannot move past fields.
	if _, err := svc.Next(orgID, view.ID); err != nil {
		t.Fatalf("next to fields: %v", err)
	}
	if _, err := svc.Next(orgID, view.ID); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}
}

func TestSetFieldsDropsUnknownAndDuplicates(t *testing.T) {
	svc := newTestService(dealsCatalog(), newFakeReports(), time.Hour)
	orgID := primitive.NewObjectID()

	view, _ := svc.StartSession(context.Background(), orgID, "")
	view, err := svc.SelectObject(context.Background(), orgID, view.ID, "deals")
	if err != nil {
		t.Fatalf("select object: %v", err)
	}

	view, err = svc.SetFields(orgID, view.ID, []string{"name", "bogus", "name", "amount"})
	if err != nil {
		t.Fatalf("set fields: %v", err)
	}

	want := []string{"name", "amount"}
	if len(view.Draft.SelectedFields) != 2 || view.Draft.SelectedFields[0] != want[0] || view.Draft.SelectedFields[1] != want[1] {
		t.Errorf("selected = %v, want %v", view.Draft.SelectedFields, want)
	}
}

func TestDebounceCoalescesPreviewFetches(t *testing.T) {
	rep := newFakeReports()
	svc := newTestService(dealsCatalog(), rep, 30*time.Millisecond)
	orgID := primitive.NewObjectID()

	view, _ := svc.StartSession(context.Background(), orgID, "")
	view, _ = svc.SelectObject(context.Background(), orgID, view.ID, "deals")
	if _, err := svc.Next(orgID, view.ID); err != nil {
		t.Fatalf("next: %v", err)
	}

	// Rapid successive edits inside the debounce window.
	for _, fields := range [][]string{{"name"}, {"name", "amount"}, {"amount"}} {
		if _, err := svc.SetFields(orgID, view.ID, fields); err != nil {
			t.Fatalf("set fields: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	if got := rep.runs.Load(); got != 1 {
		t.Errorf("preview fetches = %d, want 1", got)
	}

	sessView, err := svc.GetSession(orgID, view.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sessView.Preview == nil || sessView.Preview.Total != 1 {
		t.Errorf("preview = %+v", sessView.Preview)
	}
}

func TestPreviewErrorKeepsStaleData(t *testing.T) {
	rep := newFakeReports()
	svc := newTestService(dealsCatalog(), rep, 5*time.Millisecond)
	orgID := primitive.NewObjectID()

	view, _ := svc.StartSession(context.Background(), orgID, "")
	view, _ = svc.SelectObject(context.Background(), orgID, view.ID, "deals")
	_, _ = svc.Next(orgID, view.ID)

	if _, err := svc.SetFields(orgID, view.ID, []string{"name"}); err != nil {
		t.Fatalf("set fields: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	rep.runErr = errors.New("query failed: store unavailable")
	if _, err := svc.SetFields(orgID, view.ID, []string{"amount"}); err != nil {
		t.Fatalf("set fields: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	sessView, err := svc.GetSession(orgID, view.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sessView.Preview == nil {
		t.Error("stale preview should remain visible")
	}
	if sessView.PreviewErr == "" {
		t.Error("expected a preview error message")
	}
}

func TestSaveOnlyFromPreview(t *testing.T) {
	rep := newFakeReports()
	svc := newTestService(dealsCatalog(), rep, time.Hour)
	orgID := primitive.NewObjectID()

	view, _ := svc.StartSession(context.Background(), orgID, "")
	view, _ = svc.SelectObject(context.Background(), orgID, view.ID, "deals")
	_, _ = svc.SetFields(orgID, view.ID, []string{"name"})

	if _, err := svc.Save(context.Background(), orgID, view.ID); !errors.Is(err, ErrNotAtPreview) {
		t.Fatalf("expected ErrNotAtPreview, got %v", err)
	}

	if _, err := svc.Goto(orgID, view.ID, StepPreview); err != nil {
		t.Fatalf("goto preview: %v", err)
	}

	// Name still missing.
	if _, err := svc.Save(context.Background(), orgID, view.ID); err == nil {
		t.Fatal("expected error for unnamed report")
	}

	if _, err := svc.SetMeta(orgID, view.ID, "Pipeline", "", nil); err != nil {
		t.Fatalf("set meta: %v", err)
	}

	saved, err := svc.Save(context.Background(), orgID, view.ID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rep.created == nil || saved.Name != "Pipeline" {
		t.Errorf("saved = %+v", saved)
	}

	// The session is gone after a successful save.
	if _, err := svc.GetSession(orgID, view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionsAreOrganizationScoped(t *testing.T) {
	svc := newTestService(dealsCatalog(), newFakeReports(), time.Hour)

	view, _ := svc.StartSession(context.Background(), primitive.NewObjectID(), "")

	otherOrg := primitive.NewObjectID()
	if _, err := svc.GetSession(otherOrg, view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	svc := newTestService(dealsCatalog(), newFakeReports(), time.Hour)
	orgID := primitive.NewObjectID()

	view, _ := svc.StartSession(context.Background(), orgID, "")

	sess, _ := svc.Manager.Get(orgID, view.ID)
	sess.LastActive = time.Now().Add(-time.Hour)

	if n := svc.Manager.SweepExpired(30 * time.Minute); n != 1 {
		t.Errorf("swept = %d, want 1", n)
	}
	if _, err := svc.Manager.Get(orgID, view.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
