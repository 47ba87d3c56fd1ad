// Package drift holds the per-tab drift correction state: the smoothed
// offset between where the tracker reports the gaze and where the user is
// actually looking.
//
// A Correction is created with its tab, handed to the actions that read or
// update it, and dropped with the tab. Updates are exclusive: an update
// started while another one is in progress (a reentrant call through a
// nested pipeline) is rejected instead of interleaving.
package drift

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// ErrReentrantUpdate is returned when an update starts while another one is
// still running.
var ErrReentrantUpdate = errors.New("drift correction update already in progress")

// DefaultAlpha is the smoothing factor used when none is configured.
const DefaultAlpha = 0.3

// State is a snapshot of the correction.
type State struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Samples int     `json:"samples"`
}

// Offset returns the offset as a point.
func (s State) Offset() gaze.Point {
	return gaze.Point{X: s.OffsetX, Y: s.OffsetY}
}

// Correction is the process-lifetime drift state of one tab.
type Correction struct {
	alpha float64

	busy  atomic.Bool
	mu    sync.RWMutex
	state State
}

// New creates a correction with smoothing factor alpha in (0,1].
func New(alpha float64) (*Correction, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("drift smoothing factor must be in (0,1], got %v", alpha)
	}
	return &Correction{alpha: alpha}, nil
}

// Alpha returns the smoothing factor.
func (c *Correction) Alpha() float64 { return c.alpha }

// Observe folds one measured offset (target minus gaze) into the state:
// offset = offset*(1-alpha) + measured*alpha.
func (c *Correction) Observe(measured gaze.Point) (State, error) {
	return c.update(func(s State) State {
		return State{
			OffsetX: s.OffsetX*(1-c.alpha) + measured.X*c.alpha,
			OffsetY: s.OffsetY*(1-c.alpha) + measured.Y*c.alpha,
			Samples: s.Samples + 1,
		}
	})
}

// Reset clears the offset, as on explicit recalibration.
func (c *Correction) Reset() error {
	_, err := c.update(func(State) State { return State{} })
	return err
}

// Apply shifts a tracker coordinate by the current offset.
func (c *Correction) Apply(p gaze.Point) gaze.Point {
	return p.Add(c.Snapshot().Offset())
}

// Snapshot returns the current state.
func (c *Correction) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Correction) update(fn func(State) State) (State, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return c.Snapshot(), ErrReentrantUpdate
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	return c.state, nil
}

// Exclusive runs fn while holding the update guard, so that any Observe or
// Reset reached from inside fn is rejected with ErrReentrantUpdate.
func (c *Correction) Exclusive(fn func()) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrReentrantUpdate
	}
	defer c.busy.Store(false)
	fn()
	return nil
}
