package pipeline

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Recurse runs the chosen target's own pipeline as a nested pipeline: links
// navigate to their URL, everything else is clicked at its center. Aborting
// the parent aborts the nested pipeline. The nested pipeline advances under
// the tab's drift guard, so it cannot update the correction.
type Recurse struct {
	registry *Registry
	env      action.Env
	nested   *Pipeline
}

// NewRecurse creates the nesting action.
func NewRecurse(r *Registry, env action.Env) *Recurse {
	return &Recurse{registry: r, env: env}
}

func (a *Recurse) Name() string { return "recurse" }

// Nested returns the nested pipeline once it was built.
func (a *Recurse) Nested() *Pipeline { return a.nested }

func (a *Recurse) Update(in action.Input) (action.State, error) {
	if a.nested == nil {
		spec, err := targetSpec(in.Data)
		if err != nil {
			return action.Failed, err
		}
		nested, err := a.registry.Build("", spec, a.env)
		if err != nil {
			return action.Failed, err
		}
		a.nested = nested
	}

	var st State
	advance := func() {
		st = a.nested.Advance(Frame{DT: in.DT, Gaze: in.Gaze, Previous: in.Previous, Typed: in.Typed})
	}
	if a.env.Drift == nil {
		advance()
	} else if err := a.env.Drift.Exclusive(advance); err != nil {
		return action.Failed, err
	}

	switch st {
	case Succeeded:
		return action.Finished, nil
	case Aborted:
		return action.Failed, a.nested.Err()
	default:
		return action.Active, nil
	}
}

// Elapsed implements action.Timed with the time the nested actions used.
func (a *Recurse) Elapsed() time.Duration {
	if a.nested == nil {
		return 0
	}
	return a.nested.Consumed()
}

// Rollback aborts the nested pipeline.
func (a *Recurse) Rollback(*actiondata.Map) {
	if a.nested != nil {
		a.nested.Abort(errParentAborted)
	}
}

func targetSpec(data *actiondata.Map) (Spec, error) {
	kind, _ := actiondata.Lookup(data, actiondata.TargetKind)
	id, _ := actiondata.Lookup(data, actiondata.TargetElementID)

	if url, ok := actiondata.Lookup(data, actiondata.TargetURL); ok && page.ElementKind(kind) == page.KindLink {
		return Spec{Kind: KindTargetLink, Seed: func(m *actiondata.Map) {
			actiondata.Set(m, actiondata.TargetURL, url)
			actiondata.Set(m, actiondata.TargetElementID, id)
		}}, nil
	}
	at, err := actiondata.Get(data, actiondata.TargetCoordinate)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Kind: KindTargetClick, Seed: func(m *actiondata.Map) {
		actiondata.Set(m, actiondata.TargetCoordinate, at)
		actiondata.Set(m, actiondata.TargetElementID, id)
	}}, nil
}
