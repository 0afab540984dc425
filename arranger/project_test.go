package arranger_test

import (
	"testing"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger"
	"github.com/vlehtola/tahti/arranger/types"
)

func TestSetLoop(t *testing.T) {
	m := newModel()
	mustExecute(t, m, arranger.NewSetLoop(true, tahti.LoopRange{StartBar: 2, EndBar: 5}))
	p := m.Project()
	if !p.LoopEnabled || p.Loop.StartBar != 2 || p.Loop.EndBar != 5 {
		t.Fatalf("the loop was not set: %+v", p.Loop)
	}
	mustExecute(t, m, arranger.NewSetLoop(false, tahti.LoopRange{}))
	if p.LoopEnabled {
		t.Fatalf("the loop was not disabled")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	if !p.LoopEnabled || p.Loop.EndBar != 5 {
		t.Fatalf("undo did not restore the loop: %+v", p.Loop)
	}
}

func TestSetLoopOrdersBars(t *testing.T) {
	cmd := arranger.NewSetLoop(true, tahti.LoopRange{StartBar: 5, EndBar: 2})
	if cmd.Loop.StartBar != 2 || cmd.Loop.EndBar != 5 {
		t.Fatalf("got: %+v expected a 2-5 range", cmd.Loop)
	}
}

func TestSetLoopValidatesRange(t *testing.T) {
	m := newModel() // 16 bars
	if m.Execute(arranger.NewSetLoop(true, tahti.LoopRange{StartBar: 0, EndBar: 16})) {
		t.Fatalf("a loop past the last bar should fail")
	}
	if m.Execute(arranger.NewSetLoop(true, tahti.LoopRange{StartBar: -1, EndBar: 4})) {
		t.Fatalf("a loop starting before bar 0 should fail")
	}
	// a disabled loop range is not checked, it is just remembered
	mustExecute(t, m, arranger.NewSetLoop(false, tahti.LoopRange{StartBar: 0, EndBar: 99}))
}

func TestUpdateProject(t *testing.T) {
	m := newModel()
	mustExecute(t, m, arranger.NewUpdateProject(
		types.NewOptionalOf(90.0),
		types.NewOptionalOf(tahti.TimeSignature{Numerator: 3, Denominator: 4}),
		types.NewOptionalOf("Am")))
	p := m.Project()
	if p.BPM != 90 || p.TimeSignature.Numerator != 3 || p.Key != "Am" {
		t.Fatalf("the update did not apply: %+v", p)
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	if p.BPM != 120 || p.TimeSignature.Numerator != 4 || p.Key != "C" {
		t.Fatalf("undo did not restore the project: %+v", p)
	}
}

func TestUpdateProjectValidates(t *testing.T) {
	m := newModel()
	if m.Execute(arranger.NewUpdateProject(
		types.NewOptionalOf(-1.0),
		types.NewEmptyOptional[tahti.TimeSignature](),
		types.NewEmptyOptional[string]())) {
		t.Fatalf("a negative BPM should fail")
	}
	if m.Execute(arranger.NewUpdateProject(
		types.NewEmptyOptional[float64](),
		types.NewOptionalOf(tahti.TimeSignature{Numerator: 0, Denominator: 4}),
		types.NewEmptyOptional[string]())) {
		t.Fatalf("a zero numerator should fail")
	}
	if m.Project().BPM != 120 {
		t.Fatalf("a failed update should not touch the project")
	}
}
