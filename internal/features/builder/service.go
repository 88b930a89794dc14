package builder

import (
	"context"
	"errors"
	"time"

	"go-reporting/internal/common/models"
	"go-reporting/internal/config"
	"go-reporting/internal/features/catalog"
	"go-reporting/internal/features/chart"
	"go-reporting/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const previewPageSize = 25

type BuilderService interface {
	// StartSession opens a new wizard. With a report id it opens in
	// edit mode: the draft is the stored definition and the wizard
	// starts at the fields step with the saved selection pre-checked.
	StartSession(ctx context.Context, orgID primitive.ObjectID, reportID string) (View, error)
	GetSession(orgID primitive.ObjectID, id string) (View, error)
	CloseSession(orgID primitive.ObjectID, id string) error

	SelectObject(ctx context.Context, orgID primitive.ObjectID, id, objectType string) (View, error)
	SetFields(orgID primitive.ObjectID, id string, fields []string) (View, error)
	SetFilters(orgID primitive.ObjectID, id string, filters []models.FilterPredicate) (View, error)
	SetCharts(orgID primitive.ObjectID, id string, charts []chart.ChartSpec) (View, error)
	SetSorting(orgID primitive.ObjectID, id string, sorting []models.SortSpec) (View, error)
	SetMeta(orgID primitive.ObjectID, id, name, description string, folderID *primitive.ObjectID) (View, error)

	Next(orgID primitive.ObjectID, id string) (View, error)
	Back(orgID primitive.ObjectID, id string) (View, error)
	Goto(orgID primitive.ObjectID, id, step string) (View, error)

	// Save persists the draft and closes the session. Only valid at
	// the preview step.
	Save(ctx context.Context, orgID primitive.ObjectID, id string) (*report.Report, error)

	Subscribe(orgID primitive.ObjectID, id string) (chan PreviewEvent, error)
	Unsubscribe(orgID primitive.ObjectID, id string, ch chan PreviewEvent)
}

type BuilderServiceImpl struct {
	Manager        *SessionManager
	CatalogService catalog.CatalogService
	ReportService  report.ReportService
	Config         *config.Config
	Logger         *zap.Logger
}

func NewBuilderService(manager *SessionManager, catalogService catalog.CatalogService, reportService report.ReportService, cfg *config.Config, logger *zap.Logger) BuilderService {
	return &BuilderServiceImpl{
		Manager:        manager,
		CatalogService: catalogService,
		ReportService:  reportService,
		Config:         cfg,
		Logger:         logger,
	}
}

func (s *BuilderServiceImpl) StartSession(ctx context.Context, orgID primitive.ObjectID, reportID string) (View, error) {
	sess := s.Manager.Create(orgID)

	if reportID != "" {
		rpt, err := s.ReportService.GetReport(ctx, orgID, reportID)
		if err != nil {
			s.Manager.Remove(sess.ID)
			return View{}, err
		}

		sess.mu.Lock()
		sess.ReportID = reportID
		sess.Draft = *rpt
		sess.Step = StepFields
		s.loadCatalogLocked(ctx, sess)
		view := sess.view()
		sess.mu.Unlock()

		s.schedulePreview(sess)
		return view, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *BuilderServiceImpl) GetSession(orgID primitive.ObjectID, id string) (View, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()
	return sess.view(), nil
}

func (s *BuilderServiceImpl) CloseSession(orgID primitive.ObjectID, id string) error {
	if _, err := s.Manager.Get(orgID, id); err != nil {
		return err
	}
	s.Manager.Remove(id)
	return nil
}

func (s *BuilderServiceImpl) SelectObject(ctx context.Context, orgID primitive.ObjectID, id, objectType string) (View, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	if sess.ReportID != "" {
		return sess.view(), ErrObjectFixed
	}
	if objectType == "" {
		return sess.view(), errors.New("object type is required")
	}

	// Changing the object invalidates everything built on the old one.
	sess.Draft.ObjectType = objectType
	sess.Draft.SelectedFields = nil
	sess.Draft.Filters = nil
	sess.Draft.Sorting = nil
	sess.Draft.Charts = nil
	sess.Preview = nil
	sess.PreviewErr = ""

	s.loadCatalogLocked(ctx, sess)
	return sess.view(), nil
}

// loadCatalogLocked resolves the field catalog for the draft's object
// type. Failure leaves the catalog empty with a message; the fields
// gate then blocks forward navigation on its own.
func (s *BuilderServiceImpl) loadCatalogLocked(ctx context.Context, sess *Session) {
	fields, err := s.CatalogService.ResolveFields(ctx, sess.OrganizationID, sess.Draft.ObjectType, sess.Draft.SelectedFields)
	if err != nil {
		s.Logger.Warn("catalog resolution failed",
			zap.String("object_type", sess.Draft.ObjectType), zap.Error(err))
		sess.Catalog = nil
		sess.CatalogErr = "could not load fields for " + sess.Draft.ObjectType
		return
	}
	sess.Catalog = fields
	sess.CatalogErr = ""
}

func (s *BuilderServiceImpl) SetFields(orgID primitive.ObjectID, id string, fields []string) (View, error) {
	return s.mutate(orgID, id, func(sess *Session) error {
		known := make(map[string]bool, len(sess.Catalog))
		for _, f := range sess.Catalog {
			known[f.Name] = true
		}

		// Order is preserved, duplicates and unknown names are dropped.
		seen := make(map[string]bool, len(fields))
		selected := make([]string, 0, len(fields))
		for _, name := range fields {
			if !known[name] || seen[name] {
				continue
			}
			seen[name] = true
			selected = append(selected, name)
		}
		sess.Draft.SelectedFields = selected

		for i := range sess.Catalog {
			sess.Catalog[i].Selected = seen[sess.Catalog[i].Name]
		}
		return nil
	})
}

func (s *BuilderServiceImpl) SetFilters(orgID primitive.ObjectID, id string, filters []models.FilterPredicate) (View, error) {
	return s.mutate(orgID, id, func(sess *Session) error {
		sess.Draft.Filters = filters
		return nil
	})
}

func (s *BuilderServiceImpl) SetCharts(orgID primitive.ObjectID, id string, charts []chart.ChartSpec) (View, error) {
	return s.mutate(orgID, id, func(sess *Session) error {
		sess.Draft.Charts = charts
		return nil
	})
}

func (s *BuilderServiceImpl) SetSorting(orgID primitive.ObjectID, id string, sorting []models.SortSpec) (View, error) {
	return s.mutate(orgID, id, func(sess *Session) error {
		sess.Draft.Sorting = sorting
		return nil
	})
}

func (s *BuilderServiceImpl) SetMeta(orgID primitive.ObjectID, id, name, description string, folderID *primitive.ObjectID) (View, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()
	sess.Draft.Name = name
	sess.Draft.Description = description
	sess.Draft.FolderID = folderID
	return sess.view(), nil
}

// mutate applies one draft edit and, when the wizard is at or past the
// fields step, schedules a debounced preview refresh.
func (s *BuilderServiceImpl) mutate(orgID primitive.ObjectID, id string, fn func(*Session) error) (View, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	sess.touch()
	if err := fn(sess); err != nil {
		view := sess.view()
		sess.mu.Unlock()
		return view, err
	}
	refresh := sess.inPreviewScope() && len(sess.Draft.SelectedFields) > 0
	view := sess.view()
	sess.mu.Unlock()

	if refresh {
		s.schedulePreview(sess)
	}
	return view, nil
}

func (s *BuilderServiceImpl) Next(orgID primitive.ObjectID, id string) (View, error) {
	return s.navigate(orgID, id, func(sess *Session) error { return sess.Next() })
}

func (s *BuilderServiceImpl) Back(orgID primitive.ObjectID, id string) (View, error) {
	return s.navigate(orgID, id, func(sess *Session) error { return sess.Back() })
}

func (s *BuilderServiceImpl) Goto(orgID primitive.ObjectID, id, step string) (View, error) {
	return s.navigate(orgID, id, func(sess *Session) error { return sess.Goto(step) })
}

func (s *BuilderServiceImpl) navigate(orgID primitive.ObjectID, id string, fn func(*Session) error) (View, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	sess.touch()
	navErr := fn(sess)
	refresh := navErr == nil && sess.Step == StepPreview
	view := sess.view()
	sess.mu.Unlock()

	// Entering preview always refreshes so the terminal step never
	// shows stale data.
	if refresh {
		s.schedulePreview(sess)
	}
	return view, navErr
}

func (s *BuilderServiceImpl) Save(ctx context.Context, orgID primitive.ObjectID, id string) (*report.Report, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.Step != StepPreview {
		sess.mu.Unlock()
		return nil, ErrNotAtPreview
	}
	draft := sess.Draft
	reportID := sess.ReportID
	sess.mu.Unlock()

	if draft.Name == "" {
		return nil, errors.New("report name is required")
	}
	if draft.ObjectType == "" {
		return nil, errors.New("report object type is required")
	}

	if reportID != "" {
		if err := s.ReportService.UpdateReport(ctx, orgID, reportID, &draft); err != nil {
			return nil, err
		}
	} else {
		if err := s.ReportService.CreateReport(ctx, orgID, &draft); err != nil {
			return nil, err
		}
	}

	// A successful save ends the wizard.
	s.Manager.Remove(id)
	return &draft, nil
}

func (s *BuilderServiceImpl) Subscribe(orgID primitive.ObjectID, id string) (chan PreviewEvent, error) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return nil, err
	}
	return sess.subscribe(), nil
}

func (s *BuilderServiceImpl) Unsubscribe(orgID primitive.ObjectID, id string, ch chan PreviewEvent) {
	sess, err := s.Manager.Get(orgID, id)
	if err != nil {
		return
	}
	sess.unsubscribe(ch)
}

// schedulePreview restarts the session's single debounce timer. Rapid
// edits keep pushing the fetch out; only the last one runs.
func (s *BuilderServiceImpl) schedulePreview(sess *Session) {
	delay := s.Config.PreviewDebounce
	if delay <= 0 {
		delay = 400 * time.Millisecond
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.timer != nil {
		sess.timer.Stop()
	}
	sess.timer = time.AfterFunc(delay, func() {
		s.refreshPreview(sess)
	})
}

// refreshPreview runs the draft through the shared report pipeline. A
// newer edit cancels the in-flight fetch; a failed fetch keeps the last
// good preview visible and records the error alongside it.
func (s *BuilderServiceImpl) refreshPreview(sess *Session) {
	sess.mu.Lock()
	if sess.cancelFetch != nil {
		sess.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	sess.cancelFetch = cancel
	orgID := sess.OrganizationID
	draft := sess.Draft
	sess.mu.Unlock()

	result, err := s.ReportService.RunDefinition(ctx, orgID, &draft, report.RunOptions{PageSize: previewPageSize})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if ctx.Err() != nil {
		// Superseded by a newer fetch.
		return
	}
	if err != nil {
		s.Logger.Warn("preview fetch failed", zap.String("session", sess.ID), zap.Error(err))
		sess.PreviewErr = err.Error()
	} else {
		sess.Preview = result
		sess.PreviewErr = ""
	}
	sess.broadcast()
}
