package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

var (
	// ErrAbortedByPage is the abort reason when the page invalidated the
	// interaction (navigation, blur, element removed, dialog closed).
	ErrAbortedByPage = errors.New("aborted by page")
	// ErrSuperseded is the abort reason when a new pipeline took the slot.
	ErrSuperseded = errors.New("superseded by a new pipeline")
	// ErrClosed is the abort reason when the tab closed.
	ErrClosed = errors.New("tab closed")
	// ErrUnknownKind is returned when no recipe is registered for a kind.
	ErrUnknownKind = errors.New("unknown pipeline kind")

	errParentAborted = errors.New("parent pipeline aborted")
	errEmpty         = errors.New("pipeline has no actions")
)

// State is the lifecycle of a pipeline.
type State int

const (
	Running State = iota
	Succeeded
	Aborted
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Frame is the per-frame input of a pipeline.
type Frame struct {
	DT       time.Duration
	Gaze     gaze.FilteredPoint
	Previous gaze.FilteredPoint
	Typed    *action.Typed
}

// Outcome describes how a pipeline ended.
type Outcome struct {
	ID    string
	Kind  Kind
	State State
	// Failed is true when an action failure ended the pipeline, false for
	// aborts from outside.
	Failed bool
	Err    error
	// Action is the name of the action at the cursor when the pipeline ended.
	Action   string
	Finished int
	Elapsed  time.Duration
}

// Pipeline runs an ordered list of actions.
type Pipeline struct {
	id      string
	kind    Kind
	actions []action.Action
	data    *actiondata.Map

	cursor  int
	started int
	state   State
	err     error
	failed  bool
	elapsed time.Duration
}

// New creates a running pipeline. A nil data map gets a fresh one.
func New(id string, kind Kind, actions []action.Action, data *actiondata.Map) *Pipeline {
	if data == nil {
		data = actiondata.New()
	}
	p := &Pipeline{id: id, kind: kind, actions: actions, data: data}
	if len(actions) == 0 {
		p.state = Aborted
		p.failed = true
		p.err = errEmpty
	}
	return p
}

func (p *Pipeline) ID() string { return p.id }
func (p *Pipeline) Kind() Kind { return p.kind }
func (p *Pipeline) State() State { return p.state }
func (p *Pipeline) Err() error { return p.err }
func (p *Pipeline) Data() *actiondata.Map { return p.data }
func (p *Pipeline) Elapsed() time.Duration { return p.elapsed }
func (p *Pipeline) Done() bool { return p.state != Running }

// Current returns the action at the cursor, or nil once the pipeline ended
// successfully.
func (p *Pipeline) Current() action.Action {
	if p.cursor < len(p.actions) {
		return p.actions[p.cursor]
	}
	return nil
}

// Advance drives the pipeline by one frame and returns its state.
func (p *Pipeline) Advance(f Frame) State {
	if p.state != Running {
		return p.state
	}

	in := action.Input{
		DT:       f.DT,
		Gaze:     f.Gaze,
		Previous: f.Previous,
		Data:     p.data,
		Typed:    f.Typed,
	}
	p.elapsed += f.DT

	for p.cursor < len(p.actions) {
		a := p.actions[p.cursor]
		if p.started <= p.cursor {
			p.started = p.cursor + 1
		}

		st, err := a.Update(in)
		switch st {
		case action.Finished:
			p.cursor++
			if action.Elapsed(a) > 0 {
				return p.settle()
			}
		case action.Failed:
			if err == nil {
				err = errors.New("action failed")
			}
			p.stop(fmt.Errorf("%s: %w", a.Name(), err), true)
			return p.state
		default:
			return p.state
		}
	}
	return p.settle()
}

func (p *Pipeline) settle() State {
	if p.cursor >= len(p.actions) {
		p.state = Succeeded
	}
	return p.state
}

// Abort ends a running pipeline with reason and rolls back its started
// reversible actions. No later action runs. Aborting an ended pipeline is a
// no-op.
func (p *Pipeline) Abort(reason error) {
	if p.state != Running {
		return
	}
	p.stop(reason, false)
}

func (p *Pipeline) stop(reason error, failed bool) {
	p.state = Aborted
	p.err = reason
	p.failed = failed
	for i := p.started - 1; i >= 0; i-- {
		if r, ok := p.actions[i].(action.Reversible); ok {
			r.Rollback(p.data)
		}
	}
}

// Consumed returns the frame time the started actions report having used.
func (p *Pipeline) Consumed() time.Duration {
	var total time.Duration
	for _, a := range p.actions[:p.started] {
		total += action.Elapsed(a)
	}
	return total
}

// Outcome summarizes the pipeline.
func (p *Pipeline) Outcome() Outcome {
	o := Outcome{
		ID:       p.id,
		Kind:     p.kind,
		State:    p.state,
		Failed:   p.failed,
		Err:      p.err,
		Finished: p.cursor,
		Elapsed:  p.elapsed,
	}
	if a := p.Current(); a != nil {
		o.Action = a.Name()
	}
	return o
}
