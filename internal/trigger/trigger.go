// Package trigger watches page state and gaze transitions and decides which
// pipeline to start or abort. Each trigger owns one interaction slot and is
// debounced: it fires once per transition, not once per frame while its
// condition holds.
package trigger

import (
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
)

// Ended reports a pipeline that left a slot on the previous frame.
type Ended struct {
	Slot    pipeline.Slot
	Outcome pipeline.Outcome
}

// Observation is what triggers see on one frame.
type Observation struct {
	Page page.State
	Gaze gaze.FilteredPoint
	// Point is the drift corrected gaze position.
	Point    gaze.Point
	Elements page.Querier
	// Modal is true while a modal pipeline runs in any slot.
	Modal bool
	Ended []Ended
}

// Decision is the result of one evaluation. Abort is applied to the
// trigger's slot, or to every slot when the trigger has none, before Start.
type Decision struct {
	Start *pipeline.Spec
	Abort error
}

// IsZero reports whether the decision asks for nothing.
func (d Decision) IsZero() bool {
	return d.Start == nil && d.Abort == nil
}

// Trigger is evaluated once per frame.
type Trigger interface {
	Name() string
	// Slot returns the slot the trigger starts pipelines in. An empty slot
	// means the trigger only aborts, across all slots.
	Slot() pipeline.Slot
	Evaluate(obs Observation) Decision
}

func start(kind pipeline.Kind, slot pipeline.Slot, seed func(*actiondata.Map)) Decision {
	return Decision{Start: &pipeline.Spec{Kind: kind, Slot: slot, Seed: seed}}
}
