package action

import (
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

type layoutFunc func(at gaze.Point, n int, cfg MenuConfig) []page.MenuEntry

// Disambiguation finds the interactive elements under the gaze and lets the
// user pick one. A single candidate is chosen at once; several are laid out
// as a menu and selected by fixation. The chosen element is written to the
// target keys.
type Disambiguation struct {
	chooser
	name       string
	layout     layoutFunc
	candidates []page.Element
	started    bool
}

// NewPivotMenu lays candidates out on a circle around the gaze point.
func NewPivotMenu(env Env, cfg MenuConfig) *Disambiguation {
	return &Disambiguation{
		chooser: newChooser(env, cfg, ErrAmbiguousTarget),
		name:    "pivot_menu",
		layout:  radial,
	}
}

// NewHint stacks labelled hints next to the gaze point.
func NewHint(env Env, cfg MenuConfig) *Disambiguation {
	return &Disambiguation{
		chooser: newChooser(env, cfg, ErrAmbiguousTarget),
		name:    "hint",
		layout: func(at gaze.Point, n int, cfg MenuConfig) []page.MenuEntry {
			top := at.Y - cfg.EntryRadius*float64(n)
			return column(at.X+cfg.MenuRadius-cfg.EntryRadius, top, n, cfg)
		},
	}
}

func (a *Disambiguation) Name() string { return a.name }

func (a *Disambiguation) Update(in Input) (State, error) {
	if a.started {
		idx, st, err := a.step(in)
		if st == Finished {
			a.choose(in.Data, idx)
		}
		return st, err
	}

	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	if a.env.Page == nil {
		return Failed, ErrNoTarget
	}
	at := a.env.correct(in.Gaze.Point())
	a.candidates = a.env.Page.ElementsAt(at, a.cfg.Radius)
	switch len(a.candidates) {
	case 0:
		return Failed, ErrNoTarget
	case 1:
		a.choose(in.Data, 0)
		return Finished, nil
	}

	entries := a.layout(at, len(a.candidates), a.cfg)
	for i, el := range a.candidates {
		entries[i].Label = label(el)
		entries[i].ElementID = el.ID
	}
	a.show(entries, "")
	a.started = true
	return Active, nil
}

// Rollback hides the menu if it is still shown.
func (a *Disambiguation) Rollback(*actiondata.Map) { a.hide() }

// Candidates returns the elements offered to the user.
func (a *Disambiguation) Candidates() []page.Element { return a.candidates }

func (a *Disambiguation) choose(data *actiondata.Map, idx int) {
	el := a.candidates[idx]
	actiondata.Set(data, actiondata.ChosenIndex, idx)
	actiondata.Set(data, actiondata.TargetElementID, el.ID)
	actiondata.Set(data, actiondata.TargetKind, string(el.Kind))
	actiondata.Set(data, actiondata.TargetCoordinate, el.Bounds.Center())
	if el.Href != "" {
		actiondata.Set(data, actiondata.TargetURL, el.Href)
	}
}

func label(el page.Element) string {
	if el.Label != "" {
		return el.Label
	}
	if el.Href != "" {
		return el.Href
	}
	return el.ID
}

// SelectFieldOptions shows the options of the target select element and
// waits for a fixation on one of them.
type SelectFieldOptions struct {
	chooser
	started bool
}

// NewSelectFieldOptions creates the option chooser.
func NewSelectFieldOptions(env Env, cfg MenuConfig) *SelectFieldOptions {
	return &SelectFieldOptions{chooser: newChooser(env, cfg, ErrTimeout)}
}

func (a *SelectFieldOptions) Name() string { return "select_field_options" }

func (a *SelectFieldOptions) Update(in Input) (State, error) {
	if !a.started {
		id, err := actiondata.Get(in.Data, actiondata.TargetElementID)
		if err != nil {
			return Failed, err
		}
		if a.env.Page == nil {
			return Failed, ErrNoTarget
		}
		el, ok := a.env.Page.Element(id)
		if !ok || len(el.Options) == 0 {
			return Failed, ErrNoTarget
		}
		entries := column(el.Bounds.X, el.Bounds.Y+el.Bounds.Height, len(el.Options), a.cfg)
		for i, opt := range el.Options {
			entries[i].Label = opt
			entries[i].ElementID = el.ID
		}
		a.show(entries, el.Label)
		a.started = true
		return Active, nil
	}

	idx, st, err := a.step(in)
	if st == Finished {
		actiondata.Set(in.Data, actiondata.SelectedOption, idx)
	}
	return st, err
}

// Rollback hides the option list if it is still shown.
func (a *SelectFieldOptions) Rollback(*actiondata.Map) { a.hide() }

// JSDialog offers accept and dismiss for a pending JavaScript dialog. Alerts
// only offer accept.
type JSDialog struct {
	chooser
	started bool
}

// NewJSDialog creates the dialog chooser.
func NewJSDialog(env Env, cfg MenuConfig) *JSDialog {
	return &JSDialog{chooser: newChooser(env, cfg, ErrTimeout)}
}

func (a *JSDialog) Name() string { return "js_dialog" }

func (a *JSDialog) Update(in Input) (State, error) {
	if !a.started {
		kind, err := actiondata.Get(in.Data, actiondata.DialogKind)
		if err != nil {
			return Failed, err
		}
		labels := []string{"OK", "Cancel"}
		if page.DialogKind(kind) == page.DialogAlert {
			labels = labels[:1]
		}
		vp := a.env.viewport()
		width := a.cfg.EntryRadius * 2 * float64(len(labels))
		entries := make([]page.MenuEntry, len(labels))
		for i, l := range labels {
			entries[i] = page.MenuEntry{
				Label: l,
				Center: gaze.Point{
					X: vp.X + vp.Width/2 - width/2 + a.cfg.EntryRadius*float64(2*i+1),
					Y: vp.Y + vp.Height/2,
				},
				Radius: a.cfg.EntryRadius,
			}
		}
		text, _ := actiondata.Lookup(in.Data, actiondata.Text)
		a.show(entries, text)
		a.started = true
		return Active, nil
	}

	idx, st, err := a.step(in)
	if st == Finished {
		actiondata.Set(in.Data, actiondata.DialogAccept, idx == 0)
	}
	return st, err
}

// Rollback hides the dialog buttons if they are still shown.
func (a *JSDialog) Rollback(*actiondata.Map) { a.hide() }
