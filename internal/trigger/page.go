package trigger

import (
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
)

// FieldFocus starts text entry or option selection when a field gains
// focus, and aborts it when the field loses focus or disappears.
type FieldFocus struct {
	focused string
}

func NewFieldFocus() *FieldFocus { return &FieldFocus{} }

func (t *FieldFocus) Name() string        { return "field_focus" }
func (t *FieldFocus) Slot() pipeline.Slot { return pipeline.SlotField }

func (t *FieldFocus) Evaluate(obs Observation) Decision {
	el, ok := obs.Page.Focused()
	if !ok || !(el.Kind.IsTextEntry() || el.Kind == page.KindSelect) {
		if t.focused == "" {
			return Decision{}
		}
		t.focused = ""
		return Decision{Abort: pipeline.ErrAbortedByPage}
	}
	if el.ID == t.focused {
		return Decision{}
	}
	t.focused = el.ID

	kind := pipeline.KindTextInput
	if el.Kind == page.KindSelect {
		kind = pipeline.KindSelectField
	}
	return start(kind, pipeline.SlotField, func(m *actiondata.Map) {
		actiondata.Set(m, actiondata.TargetElementID, el.ID)
		actiondata.Set(m, actiondata.TargetKind, string(el.Kind))
		actiondata.Set(m, actiondata.TargetCoordinate, el.Bounds.Center())
	})
}

// VideoMode starts the exit dwell when the page enters fullscreen video. It
// re-arms after its pipeline fails while the mode persists.
type VideoMode struct {
	active bool
}

func NewVideoMode() *VideoMode { return &VideoMode{} }

func (t *VideoMode) Name() string        { return "video_mode" }
func (t *VideoMode) Slot() pipeline.Slot { return pipeline.SlotMedia }

func (t *VideoMode) Evaluate(obs Observation) Decision {
	if !obs.Page.VideoMode {
		if !t.active {
			return Decision{}
		}
		t.active = false
		return Decision{Abort: pipeline.ErrAbortedByPage}
	}
	if !t.active {
		t.active = true
		return start(pipeline.KindVideoExit, pipeline.SlotMedia, nil)
	}
	for _, e := range obs.Ended {
		if e.Slot == pipeline.SlotMedia && e.Outcome.Failed {
			return start(pipeline.KindVideoExit, pipeline.SlotMedia, nil)
		}
	}
	return Decision{}
}

// Dialog answers JavaScript dialogs.
type Dialog struct {
	current string
}

func NewDialog() *Dialog { return &Dialog{} }

func (t *Dialog) Name() string        { return "dialog" }
func (t *Dialog) Slot() pipeline.Slot { return pipeline.SlotDialog }

func (t *Dialog) Evaluate(obs Observation) Decision {
	d := obs.Page.Dialog
	if d == nil {
		if t.current == "" {
			return Decision{}
		}
		t.current = ""
		return Decision{Abort: pipeline.ErrAbortedByPage}
	}
	if d.ID == t.current {
		return Decision{}
	}
	t.current = d.ID
	dialog := *d
	return start(pipeline.KindJSDialog, pipeline.SlotDialog, func(m *actiondata.Map) {
		actiondata.Set(m, actiondata.TargetElementID, dialog.ID)
		actiondata.Set(m, actiondata.DialogKind, string(dialog.Kind))
		if dialog.DefaultText != "" {
			actiondata.Set(m, actiondata.Text, dialog.DefaultText)
		}
	})
}

// Navigation aborts every pipeline when the page navigates away or reloads.
type Navigation struct {
	url      string
	revision uint64
	seen     bool
}

func NewNavigation() *Navigation { return &Navigation{} }

func (t *Navigation) Name() string        { return "navigation" }
func (t *Navigation) Slot() pipeline.Slot { return "" }

func (t *Navigation) Evaluate(obs Observation) Decision {
	url, rev := obs.Page.URL, obs.Page.Revision
	if !t.seen {
		if url == "" {
			return Decision{}
		}
		t.seen = true
		t.url, t.revision = url, rev
		return Decision{}
	}
	changed := url != t.url || rev < t.revision
	t.url, t.revision = url, rev
	if !changed {
		return Decision{}
	}
	return Decision{Abort: pipeline.ErrAbortedByPage}
}

// Defaults returns the built-in triggers in evaluation order.
func Defaults(cfg FixationConfig) []Trigger {
	return []Trigger{
		NewNavigation(),
		NewDialog(),
		NewFieldFocus(),
		NewVideoMode(),
		NewFixation(cfg),
	}
}
