package builder

import (
	"errors"
	"testing"

	"go-reporting/internal/features/report"
)

func TestNextBlockedWithoutObjectType(t *testing.T) {
	sess := &Session{Step: StepObject}

	if err := sess.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}
	if sess.Step != StepObject {
		t.Errorf("step moved to %q", sess.Step)
	}
}

func TestGotoFieldsBlockedWithoutObjectType(t *testing.T) {
	sess := &Session{Step: StepObject}

	if err := sess.Goto(StepFields); !errors.Is(err, ErrStepUnreachable) {
		t.Fatalf("expected ErrStepUnreachable, got %v", err)
	}
	if sess.Step != StepObject {
		t.Errorf("direct click must be a no-op, step = %q", sess.Step)
	}
}

func TestNextBlockedWithoutSelectedFields(t *testing.T) {
	sess := &Session{Step: StepFields, Draft: report.Report{ObjectType: "deals"}}

	if err := sess.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}

	sess.Draft.SelectedFields = []string{"name"}
	if err := sess.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if sess.Step != StepFilters {
		t.Errorf("step = %q, want %q", sess.Step, StepFilters)
	}
}

func TestFiltersAndChartsAlwaysAdvanceable(t *testing.T) {
	sess := &Session{
		Step:  StepFilters,
		Draft: report.Report{ObjectType: "deals", SelectedFields: []string{"name"}},
	}

	if err := sess.Next(); err != nil {
		t.Fatalf("filters next: %v", err)
	}
	if err := sess.Next(); err != nil {
		t.Fatalf("charts next: %v", err)
	}
	if sess.Step != StepPreview {
		t.Errorf("step = %q, want %q", sess.Step, StepPreview)
	}

	// Preview is terminal; Next stays put.
	if err := sess.Next(); err != nil {
		t.Fatalf("next at preview: %v", err)
	}
	if sess.Step != StepPreview {
		t.Errorf("step = %q", sess.Step)
	}
}

func TestBackIsUnconditional(t *testing.T) {
	sess := &Session{Step: StepCharts}

	if err := sess.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if sess.Step != StepFilters {
		t.Errorf("step = %q", sess.Step)
	}

	sess.Step = StepObject
	if err := sess.Back(); err != nil {
		t.Fatalf("back at first step: %v", err)
	}
	if sess.Step != StepObject {
		t.Errorf("step = %q", sess.Step)
	}
}

func TestGotoEarlierAlwaysAllowed(t *testing.T) {
	sess := &Session{
		Step:  StepCharts,
		Draft: report.Report{ObjectType: "deals", SelectedFields: []string{"name"}},
	}

	if err := sess.Goto(StepObject); err != nil {
		t.Fatalf("goto object: %v", err)
	}
	if sess.Step != StepObject {
		t.Errorf("step = %q", sess.Step)
	}
}

func TestGotoForwardRequiresGates(t *testing.T) {
	sess := &Session{Step: StepObject, Draft: report.Report{ObjectType: "deals"}}

	// Fields gate passes, but the fields step itself is incomplete so
	// anything past it is unreachable.
	if err := sess.Goto(StepFields); err != nil {
		t.Fatalf("goto fields: %v", err)
	}
	if err := sess.Goto(StepPreview); !errors.Is(err, ErrStepUnreachable) {
		t.Fatalf("expected ErrStepUnreachable, got %v", err)
	}

	sess.Draft.SelectedFields = []string{"name"}
	if err := sess.Goto(StepPreview); err != nil {
		t.Fatalf("goto preview: %v", err)
	}
}

func TestGotoUnknownStep(t *testing.T) {
	sess := &Session{Step: StepObject}
	if err := sess.Goto("summary"); !errors.Is(err, ErrStepUnknown) {
		t.Fatalf("expected ErrStepUnknown, got %v", err)
	}
}
