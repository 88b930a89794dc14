package report

import (
	"context"
	"errors"
	"fmt"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/features/audit"
	"go-reporting/internal/features/chart"
	"go-reporting/internal/features/record"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// chartRowCap bounds how many rows feed chart aggregation on one run.
const chartRowCap = 10000

type ReportService interface {
	CreateReport(ctx context.Context, orgID primitive.ObjectID, report *Report) error
	GetReport(ctx context.Context, orgID primitive.ObjectID, id string) (*Report, error)
	ListReports(ctx context.Context, orgID primitive.ObjectID, filter ListFilter) ([]Report, error)
	UpdateReport(ctx context.Context, orgID primitive.ObjectID, id string, report *Report) error
	DeleteReport(ctx context.Context, orgID primitive.ObjectID, id string) error
	SetFavorite(ctx context.Context, orgID primitive.ObjectID, id string, favorite bool) error
	SetShared(ctx context.Context, orgID primitive.ObjectID, id string, shared bool) error

	// Run executes a saved report with the viewer's per-run options
	// layered on top. Options are never written back to the definition.
	Run(ctx context.Context, orgID primitive.ObjectID, id string, opts RunOptions) (*RunResult, error)

	// RunDefinition executes an unsaved definition. The builder preview
	// goes through here so preview and viewer share one query path.
	RunDefinition(ctx context.Context, orgID primitive.ObjectID, rpt *Report, opts RunOptions) (*RunResult, error)

	// Export renders the full (uncapped by page size) result in the
	// requested format and returns the bytes plus a download filename.
	Export(ctx context.Context, orgID primitive.ObjectID, id string, format string, opts RunOptions) ([]byte, string, error)
}

type ReportServiceImpl struct {
	Repo          ReportRepository
	RecordService record.RecordService
	AuditService  audit.AuditService
	Logger        *zap.Logger
}

func NewReportService(repo ReportRepository, recordService record.RecordService, auditService audit.AuditService, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Repo:          repo,
		RecordService: recordService,
		AuditService:  auditService,
		Logger:        logger,
	}
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context, orgID primitive.ObjectID, report *Report) error {
	if err := validateDefinition(report); err != nil {
		return err
	}

	report.ID = primitive.NewObjectID()
	if uid, ok := ctx.Value(common_models.UserIDKey).(string); ok {
		report.CreatedBy = uid
	}

	err := s.Repo.Create(ctx, orgID, report)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionReport, "reports", report.ID.Hex(), map[string]common_models.Change{
			"report": {New: report},
		})
	}
	return err
}

func (s *ReportServiceImpl) GetReport(ctx context.Context, orgID primitive.ObjectID, id string) (*Report, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *ReportServiceImpl) ListReports(ctx context.Context, orgID primitive.ObjectID, filter ListFilter) ([]Report, error) {
	return s.Repo.List(ctx, orgID, filter)
}

func (s *ReportServiceImpl) UpdateReport(ctx context.Context, orgID primitive.ObjectID, id string, report *Report) error {
	if err := validateDefinition(report); err != nil {
		return err
	}

	old, err := s.Repo.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	err = s.Repo.Update(ctx, orgID, id, report)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionReport, "reports", id, map[string]common_models.Change{
			"report": {Old: old, New: report},
		})
	}
	return err
}

func (s *ReportServiceImpl) DeleteReport(ctx context.Context, orgID primitive.ObjectID, id string) error {
	old, _ := s.Repo.Get(ctx, orgID, id)
	err := s.Repo.Delete(ctx, orgID, id)
	if err == nil {
		name := id
		if old != nil {
			name = old.Name
		}
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionReport, "reports", name, map[string]common_models.Change{
			"report": {Old: old, New: "DELETED"},
		})
	}
	return err
}

func (s *ReportServiceImpl) SetFavorite(ctx context.Context, orgID primitive.ObjectID, id string, favorite bool) error {
	return s.Repo.SetFavorite(ctx, orgID, id, favorite)
}

func (s *ReportServiceImpl) SetShared(ctx context.Context, orgID primitive.ObjectID, id string, shared bool) error {
	return s.Repo.SetShared(ctx, orgID, id, shared)
}

func (s *ReportServiceImpl) Run(ctx context.Context, orgID primitive.ObjectID, id string, opts RunOptions) (*RunResult, error) {
	rpt, err := s.Repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, orgID, rpt, opts)
}

func (s *ReportServiceImpl) RunDefinition(ctx context.Context, orgID primitive.ObjectID, rpt *Report, opts RunOptions) (*RunResult, error) {
	if rpt.ObjectType == "" {
		return nil, errors.New("definition has no object type")
	}
	if len(rpt.SelectedFields) == 0 {
		return nil, errors.New("definition has no selected fields")
	}
	return s.run(ctx, orgID, rpt, opts)
}

func (s *ReportServiceImpl) run(ctx context.Context, orgID primitive.ObjectID, rpt *Report, opts RunOptions) (*RunResult, error) {
	input := buildRunInput(rpt, opts)
	input.WithCount = true

	page, err := s.RecordService.Query(ctx, orgID, input)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Columns:  rpt.SelectedFields,
		Rows:     page.Rows,
		Total:    page.Total,
		Page:     input.Page,
		PageSize: input.PageSize,
		Charts:   []chart.Series{},
	}

	if len(rpt.Charts) > 0 {
		chartRows := page.Rows
		if result.Total > input.PageSize {
			full := input
			full.Page = 1
			full.PageSize = chartRowCap
			full.WithCount = false
			fullPage, err := s.RecordService.Query(ctx, orgID, full)
			if err != nil {
				return nil, err
			}
			chartRows = fullPage.Rows
		}
		result.Charts = chart.ComputeAll(rpt.Charts, chartRows)
	}
	return result, nil
}

// buildRunInput layers the viewer options over the saved definition.
// The definition's filter slice is copied before the quick date filter
// is appended so the stored report is never mutated.
func buildRunInput(rpt *Report, opts RunOptions) record.QueryInput {
	filters := make([]common_models.FilterPredicate, len(rpt.Filters))
	copy(filters, rpt.Filters)
	if opts.DateField != "" && opts.DateRange != nil {
		filters = append(filters, common_models.FilterPredicate{
			Field:    opts.DateField,
			Operator: "between",
			Value:    *opts.DateRange,
		})
	}

	sorting := rpt.Sorting
	if opts.SortField != "" {
		dir := opts.SortDir
		if dir == "" {
			dir = "asc"
		}
		sorting = []common_models.SortSpec{{Field: opts.SortField, Direction: dir}}
	}

	return record.QueryInput{
		ObjectType:     rpt.ObjectType,
		SelectedFields: rpt.SelectedFields,
		Filters:        filters,
		Sort:           sorting,
		Page:           opts.Page,
		PageSize:       opts.PageSize,
	}
}

func validateDefinition(rpt *Report) error {
	if rpt.Name == "" {
		return errors.New("report name is required")
	}
	if rpt.ObjectType == "" {
		return errors.New("report object type is required")
	}
	if len(rpt.SelectedFields) == 0 {
		return errors.New("report needs at least one selected field")
	}
	for _, c := range rpt.Charts {
		if c.XField == "" {
			return fmt.Errorf("chart %q needs an x field", c.Title)
		}
		if c.Aggregation != "" && c.Aggregation != chart.AggCount && c.YField == "" {
			return fmt.Errorf("chart %q needs a y field for %s", c.Title, c.Aggregation)
		}
	}
	return nil
}
