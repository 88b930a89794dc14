package builder

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-reporting/internal/features/catalog"
	"go-reporting/internal/features/report"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Builder steps in forward order. Each step gates the next through a
// completeness predicate checked on advance.
const (
	StepObject  = "object"
	StepFields  = "fields"
	StepFilters = "filters"
	StepCharts  = "charts"
	StepPreview = "preview"
)

var stepOrder = []string{StepObject, StepFields, StepFilters, StepCharts, StepPreview}

var (
	ErrStepIncomplete  = errors.New("current step is incomplete")
	ErrStepUnknown     = errors.New("unknown step")
	ErrStepUnreachable = errors.New("step is not reachable yet")
	ErrObjectFixed     = errors.New("object type is fixed for an existing report")
	ErrNotAtPreview    = errors.New("save is only available from the preview step")
)

// PreviewEvent is pushed to session subscribers whenever the preview
// state changes.
type PreviewEvent struct {
	SessionID string            `json:"session_id"`
	Result    *report.RunResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Session is one in-progress builder wizard. All mutation goes through
// methods holding mu; the debounce timer and the in-flight preview
// fetch are owned by the session so a new edit can cancel both.
type Session struct {
	ID             string
	OrganizationID primitive.ObjectID
	ReportID       string // set when editing an existing report
	Step           string
	Draft          report.Report
	Catalog        []catalog.ReportField
	CatalogErr     string
	Preview        *report.RunResult
	PreviewErr     string
	CreatedAt      time.Time
	LastActive     time.Time

	mu          sync.Mutex
	timer       *time.Timer
	cancelFetch context.CancelFunc
	subs        map[chan PreviewEvent]struct{}
}

func stepIndex(step string) int {
	for i, s := range stepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// stepComplete reports whether a step's gate is satisfied. Filters and
// charts are optional, so those steps always pass.
func (s *Session) stepComplete(step string) bool {
	switch step {
	case StepObject:
		return s.Draft.ObjectType != ""
	case StepFields:
		return len(s.Draft.SelectedFields) > 0
	default:
		return true
	}
}

// Next advances one step, blocked while the current gate fails.
func (s *Session) Next() error {
	idx := stepIndex(s.Step)
	if idx < 0 || idx == len(stepOrder)-1 {
		return nil
	}
	if !s.stepComplete(s.Step) {
		return ErrStepIncomplete
	}
	s.Step = stepOrder[idx+1]
	return nil
}

// Back moves one step backward, unconditionally.
func (s *Session) Back() error {
	idx := stepIndex(s.Step)
	if idx <= 0 {
		return nil
	}
	s.Step = stepOrder[idx-1]
	return nil
}

// Goto jumps to an earlier-or-equal step, or forward when every gate on
// the way is satisfied. A click on "fields" with no object chosen is a
// no-op error.
func (s *Session) Goto(step string) error {
	target := stepIndex(step)
	if target < 0 {
		return ErrStepUnknown
	}
	for i := 0; i < target; i++ {
		if !s.stepComplete(stepOrder[i]) {
			return ErrStepUnreachable
		}
	}
	s.Step = step
	return nil
}

// inPreviewScope reports whether the session has passed the fields
// step, which is when edits start driving preview fetches.
func (s *Session) inPreviewScope() bool {
	return stepIndex(s.Step) >= stepIndex(StepFields)
}

func (s *Session) touch() {
	s.LastActive = time.Now()
}

// subscribe registers a preview listener. The returned channel is
// buffered; slow consumers drop events rather than block an update.
func (s *Session) subscribe() chan PreviewEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan PreviewEvent, 4)
	if s.subs == nil {
		s.subs = make(map[chan PreviewEvent]struct{})
	}
	s.subs[ch] = struct{}{}
	return ch
}

func (s *Session) unsubscribe(ch chan PreviewEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// broadcast pushes the current preview state to all subscribers.
// Callers must hold mu.
func (s *Session) broadcast() {
	ev := PreviewEvent{SessionID: s.ID, Result: s.Preview, Error: s.PreviewErr}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeLocked releases the timer, any in-flight fetch and all
// subscribers. Callers must hold mu.
func (s *Session) closeLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}

// View is the JSON shape handed to the frontend.
type View struct {
	ID         string                `json:"id"`
	Step       string                `json:"step"`
	Steps      []string              `json:"steps"`
	Editing    bool                  `json:"editing"`
	Draft      report.Report         `json:"draft"`
	Catalog    []catalog.ReportField `json:"catalog"`
	CatalogErr string                `json:"catalog_error,omitempty"`
	Preview    *report.RunResult     `json:"preview,omitempty"`
	PreviewErr string                `json:"preview_error,omitempty"`
}

func (s *Session) view() View {
	return View{
		ID:         s.ID,
		Step:       s.Step,
		Steps:      stepOrder,
		Editing:    s.ReportID != "",
		Draft:      s.Draft,
		Catalog:    s.Catalog,
		CatalogErr: s.CatalogErr,
		Preview:    s.Preview,
		PreviewErr: s.PreviewErr,
	}
}
