package action

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

var (
	// ErrAmbiguousTarget is returned when several candidates were offered and
	// none was chosen before the menu timed out.
	ErrAmbiguousTarget = errors.New("ambiguous target")
	// ErrFixationLost is returned when the gaze left a fixation the action
	// depended on.
	ErrFixationLost = errors.New("fixation lost")
	// ErrTimeout is returned when an action waited longer than allowed.
	ErrTimeout = errors.New("action timed out")
	// ErrNoTarget is returned when there is nothing to act on.
	ErrNoTarget = errors.New("no target")
)

// State is the lifecycle of an action.
type State int

const (
	NotStarted State = iota
	Active
	Finished
	Failed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether the state is terminal.
func (s State) Done() bool {
	return s == Finished || s == Failed
}

// Typed is text handed over by the keyboard collaborator.
type Typed struct {
	Text   string
	Submit bool
}

// Input is what an action sees on one frame.
type Input struct {
	DT       time.Duration
	Gaze     gaze.FilteredPoint
	Previous gaze.FilteredPoint
	Data     *actiondata.Map
	// Typed is non-nil on the frame text was submitted.
	Typed *Typed
}

// Action is one step of a pipeline. Update is called once per frame until it
// returns Finished or Failed; a Failed state always comes with an error.
type Action interface {
	Name() string
	Update(in Input) (State, error)
}

// Reversible is implemented by actions with a visible side effect that must
// be undone when their pipeline aborts.
type Reversible interface {
	Rollback(data *actiondata.Map)
}

// Timed is implemented by actions that consume frame time.
type Timed interface {
	Elapsed() time.Duration
}

// Elapsed returns the frame time a consumed, or zero for untimed actions.
func Elapsed(a Action) time.Duration {
	if t, ok := a.(Timed); ok {
		return t.Elapsed()
	}
	return 0
}

// Env carries the collaborators actions are built with.
type Env struct {
	Sink     page.Sink
	Feedback page.FeedbackSink
	Page     page.Index
	Drift    *drift.Correction
	// Viewport returns the current visible page area.
	Viewport func() page.Rect
}

func (e Env) feedback() page.FeedbackSink {
	if e.Feedback == nil {
		return page.NopFeedback{}
	}
	return e.Feedback
}

func (e Env) viewport() page.Rect {
	if e.Viewport == nil {
		return page.Rect{}
	}
	return e.Viewport()
}

// correct applies the drift offset when the env has one.
func (e Env) correct(p gaze.Point) gaze.Point {
	if e.Drift == nil {
		return p
	}
	return e.Drift.Apply(p)
}

// clock accumulates consumed frame time.
type clock struct {
	elapsed time.Duration
}

func (c *clock) Elapsed() time.Duration { return c.elapsed }

func (c *clock) tick(dt time.Duration) time.Duration {
	c.elapsed += dt
	return c.elapsed
}
