// Package pagetest provides recording sinks for tests of the gaze core.
package pagetest

import (
	"sync"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Recorder records every command and feedback request it receives.
type Recorder struct {
	mu       sync.Mutex
	commands []page.Command
	feedback []page.Feedback
	// Err, when set, is returned from Emit after recording the command.
	Err error
}

// Emit implements page.Sink.
func (r *Recorder) Emit(cmd page.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return r.Err
}

// Show implements page.FeedbackSink.
func (r *Recorder) Show(fb page.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, fb)
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []page.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]page.Command(nil), r.commands...)
}

// CommandsOf returns the recorded commands of one type.
func (r *Recorder) CommandsOf(t page.CommandType) []page.Command {
	var out []page.Command
	for _, c := range r.Commands() {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Feedback returns the recorded feedback requests.
func (r *Recorder) Feedback() []page.Feedback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]page.Feedback(nil), r.feedback...)
}

// FeedbackOf returns the recorded feedback of one kind.
func (r *Recorder) FeedbackOf(k page.FeedbackKind) []page.Feedback {
	var out []page.Feedback
	for _, fb := range r.Feedback() {
		if fb.Kind == k {
			out = append(out, fb)
		}
	}
	return out
}

// Reset clears the recordings.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
	r.feedback = nil
}

// Elements is a fixed page.Index returning the same elements for every point
// and counting the queries it answered.
type Elements struct {
	Items   []page.Element
	Queries int
}

// ElementsAt implements page.Querier.
func (e *Elements) ElementsAt(gaze.Point, float64) []page.Element {
	e.Queries++
	return e.Items
}

// Element implements page.Index.
func (e *Elements) Element(id string) (page.Element, bool) {
	for _, el := range e.Items {
		if el.ID == id {
			return el, true
		}
	}
	return page.Element{}, false
}

// Fixated returns a fixated, valid point at (x, y).
func Fixated(x, y float64) gaze.FilteredPoint {
	return gaze.FilteredPoint{X: x, Y: y, Fixated: true, Valid: true}
}

// Moving returns a valid, non-fixated point at (x, y).
func Moving(x, y float64) gaze.FilteredPoint {
	return gaze.FilteredPoint{X: x, Y: y, Valid: true}
}
