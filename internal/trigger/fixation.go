package trigger

import (
	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
)

// FixationConfig tunes pointing pipeline selection.
type FixationConfig struct {
	// PivotRadius is the query radius used to count candidates.
	PivotRadius float64
	// MinTargetSize is the smallest element side clicked without zooming.
	MinTargetSize float64
	// ScrollBand is the height of the scroll zones as a viewport fraction.
	ScrollBand float64
}

// Fixation starts a pointing pipeline at every fixation onset.
type Fixation struct {
	cfg     FixationConfig
	fixated bool
}

// NewFixation creates the pointing trigger.
func NewFixation(cfg FixationConfig) *Fixation {
	return &Fixation{cfg: cfg}
}

func (t *Fixation) Name() string        { return "fixation" }
func (t *Fixation) Slot() pipeline.Slot { return pipeline.SlotGaze }

func (t *Fixation) Evaluate(obs Observation) Decision {
	fixated := obs.Gaze.Valid && obs.Gaze.Fixated
	onset := fixated && !t.fixated
	t.fixated = fixated
	if !onset || obs.Modal || obs.Page.VideoMode {
		return Decision{}
	}

	var hits int
	var smallest float64
	if obs.Elements != nil {
		candidates := obs.Elements.ElementsAt(obs.Point, t.cfg.PivotRadius)
		hits = len(candidates)
		if hits == 1 {
			smallest = candidates[0].Bounds.MinSide()
		}
	}

	switch {
	case hits == 0 && action.ScrollDirection(obs.Page.Viewport, obs.Point, t.cfg.ScrollBand) != 0:
		return start(pipeline.KindScroll, pipeline.SlotGaze, nil)
	case hits >= 2:
		return start(pipeline.KindPivotMenu, pipeline.SlotGaze, nil)
	case hits == 1 && smallest < t.cfg.MinTargetSize:
		return start(pipeline.KindZoomClick, pipeline.SlotGaze, nil)
	default:
		return start(pipeline.KindClick, pipeline.SlotGaze, nil)
	}
}
