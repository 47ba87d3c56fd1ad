package pipeline

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Kind names a pipeline recipe.
type Kind string

const (
	KindClick                  Kind = "click"
	KindZoomClick              Kind = "zoom_click"
	KindPivotMenu              Kind = "pivot_menu"
	KindHint                   Kind = "hint"
	KindTargetClick            Kind = "target_click"
	KindTargetLink             Kind = "target_link"
	KindTextInput              Kind = "text_input"
	KindTextSelection          Kind = "text_selection"
	KindSelectField            Kind = "select_field"
	KindScroll                 Kind = "scroll"
	KindVideoExit              Kind = "video_exit"
	KindJSDialog               Kind = "js_dialog"
	KindDriftCorrection        Kind = "drift_correction"
	KindDynamicDriftCorrection Kind = "dynamic_drift_correction"
)

// Slot is a logical interaction slot. At most one pipeline runs per slot.
type Slot string

const (
	SlotGaze        Slot = "gaze"
	SlotField       Slot = "field"
	SlotDialog      Slot = "dialog"
	SlotMedia       Slot = "media"
	SlotCalibration Slot = "calibration"
)

// Spec requests a pipeline instance.
type Spec struct {
	Kind Kind
	Slot Slot
	// Seed pre-populates the data map before the first frame.
	Seed func(data *actiondata.Map)
}

// DwellConfig holds the dwell time of each pipeline kind.
type DwellConfig struct {
	Click       time.Duration
	Zoom        time.Duration
	Text        time.Duration
	Selection   time.Duration
	Select      time.Duration
	Scroll      time.Duration
	Video       time.Duration
	Calibration time.Duration
}

// Config parameterizes the built-in recipes.
type Config struct {
	Dwell             DwellConfig
	PredictionLatency time.Duration
	ZoomFactor        float64
	// ZoomTimeout bounds the wait for a fixation inside the magnifier.
	ZoomTimeout time.Duration
	Menu        action.MenuConfig
	Scroll      action.ScrollConfig
	TextTimeout time.Duration
	// SelectionTimeout bounds the wait for each selection endpoint.
	SelectionTimeout     time.Duration
	SelectionMinDistance float64
}

// DefaultConfig returns the recipe settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Dwell: DwellConfig{
			Click:       1000 * time.Millisecond,
			Zoom:        800 * time.Millisecond,
			Text:        600 * time.Millisecond,
			Selection:   600 * time.Millisecond,
			Select:      600 * time.Millisecond,
			Scroll:      400 * time.Millisecond,
			Video:       2000 * time.Millisecond,
			Calibration: 1000 * time.Millisecond,
		},
		PredictionLatency:    50 * time.Millisecond,
		ZoomFactor:           2.5,
		ZoomTimeout:          5 * time.Second,
		Menu:                 action.DefaultMenuConfig(),
		Scroll:               action.ScrollConfig{Band: 0.12, Step: 240},
		TextTimeout:          60 * time.Second,
		SelectionTimeout:     10 * time.Second,
		SelectionMinDistance: 20,
	}
}

// Recipe builds the action list of one pipeline kind.
type Recipe func(r *Registry, env action.Env) []action.Action

// Registry maps pipeline kinds to recipes.
type Registry struct {
	mu      sync.RWMutex
	cfg     Config
	recipes map[Kind]Recipe
	modal   map[Kind]bool
}

// NewRegistry creates a registry holding the built-in recipes.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{
		cfg:     cfg,
		recipes: make(map[Kind]Recipe),
		modal:   make(map[Kind]bool),
	}
	for kind, recipe := range builtin {
		r.recipes[kind] = recipe
	}
	for _, kind := range []Kind{
		KindZoomClick, KindPivotMenu, KindHint, KindTextInput, KindTextSelection,
		KindSelectField, KindJSDialog, KindDriftCorrection, KindDynamicDriftCorrection,
	} {
		r.modal[kind] = true
	}
	return r
}

// Config returns the recipe settings.
func (r *Registry) Config() Config { return r.cfg }

// Register adds or replaces a recipe. A modal pipeline takes over the gaze
// while it runs.
func (r *Registry) Register(kind Kind, recipe Recipe, modal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[kind] = recipe
	r.modal[kind] = modal
}

// Modal reports whether pipelines of kind take over the gaze.
func (r *Registry) Modal(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modal[kind]
}

// Has reports whether a recipe is registered for kind.
func (r *Registry) Has(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.recipes[kind]
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.recipes))
	for k := range r.recipes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Build creates a running pipeline for spec. Feedback emitted by its actions
// is tagged with id.
func (r *Registry) Build(id string, spec Spec, env action.Env) (*Pipeline, error) {
	r.mu.RLock()
	recipe, ok := r.recipes[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}

	if env.Feedback != nil {
		env.Feedback = tagged{id: id, next: env.Feedback}
	}
	data := actiondata.New()
	if spec.Seed != nil {
		spec.Seed(data)
	}
	return New(id, spec.Kind, recipe(r, env), data), nil
}

type tagged struct {
	id   string
	next page.FeedbackSink
}

func (t tagged) Show(fb page.Feedback) {
	if fb.Pipeline == "" {
		fb.Pipeline = t.id
	}
	t.next.Show(fb)
}

var builtin = map[Kind]Recipe{
	KindClick: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewFutureCoordinate(env, r.cfg.PredictionLatency),
			action.NewDelay(env, r.cfg.Dwell.Click, true),
			action.NewLeftMouseButtonClick(env.Sink, actiondata.PredictedCoordinate),
		}
	},
	KindZoomClick: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewMagnificationCoordinate(env, r.cfg.ZoomFactor),
			action.NewDelay(env, r.cfg.Dwell.Zoom, true, action.RestartOnLoss(r.cfg.ZoomTimeout)),
			action.NewZoomCoordinate(env),
			action.NewLeftMouseButtonClick(env.Sink, actiondata.PageCoordinate),
		}
	},
	KindPivotMenu: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewPivotMenu(env, r.cfg.Menu),
			NewRecurse(r, env),
		}
	},
	KindHint: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewHint(env, r.cfg.Menu),
			NewRecurse(r, env),
		}
	},
	KindTargetClick: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewLeftMouseButtonClick(env.Sink, actiondata.TargetCoordinate),
		}
	},
	KindTargetLink: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewLinkNavigation(env.Sink),
		}
	},
	KindTextInput: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewDelay(env, r.cfg.Dwell.Text, true),
			action.NewAwaitText(env, r.cfg.TextTimeout),
			action.NewTextInput(env.Sink),
		}
	},
	KindTextSelection: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewCaptureCoordinate(env, actiondata.SelectionStart,
				action.CaptureTimeout(r.cfg.SelectionTimeout)),
			action.NewDelay(env, r.cfg.Dwell.Selection, true),
			action.NewCaptureCoordinate(env, actiondata.SelectionEnd,
				action.AwayFrom(actiondata.SelectionStart, r.cfg.SelectionMinDistance),
				action.CaptureTimeout(r.cfg.SelectionTimeout)),
			action.NewDelay(env, r.cfg.Dwell.Selection, true),
			action.NewTextSelection(env.Sink),
		}
	},
	KindSelectField: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewDelay(env, r.cfg.Dwell.Select, true),
			action.NewSelectFieldOptions(env, r.cfg.Menu),
			action.NewSelectField(env.Sink),
		}
	},
	KindScroll: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewFutureCoordinate(env, r.cfg.PredictionLatency),
			action.NewDelay(env, r.cfg.Dwell.Scroll, true),
			action.NewMouseWheelScrolling(env.Sink, env.Viewport, r.cfg.Scroll),
		}
	},
	KindVideoExit: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewDelay(env, r.cfg.Dwell.Video, true),
			action.NewKeyboard(env.Sink, "Escape"),
		}
	},
	KindJSDialog: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewJSDialog(env, r.cfg.Menu),
			action.NewReplyJSDialog(env.Sink),
		}
	},
	KindDriftCorrection: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewDriftCorrection(env.Drift),
		}
	},
	KindDynamicDriftCorrection: func(r *Registry, env action.Env) []action.Action {
		return []action.Action{
			action.NewDynamicDriftCorrection(env.Drift, r.cfg.Dwell.Calibration),
		}
	},
}
