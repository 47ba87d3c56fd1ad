package action

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Delay is a dwell gate. It finishes once its duration of frame time has
// passed. With fixation required, dwell time only counts while the gaze is
// fixated: the delay waits for a fixation to begin and fails if it is lost
// afterwards, unless it was built to restart.
type Delay struct {
	clock
	env             Env
	duration        time.Duration
	requireFixation bool
	restart         bool
	timeout         time.Duration

	begun bool
	dwell time.Duration
}

// DelayOption configures a Delay.
type DelayOption func(*Delay)

// RestartOnLoss makes a lost fixation restart the dwell instead of failing.
// The delay fails with ErrTimeout once timeout has passed in total; zero
// waits forever.
func RestartOnLoss(timeout time.Duration) DelayOption {
	return func(d *Delay) {
		d.restart = true
		d.timeout = timeout
	}
}

// NewDelay creates a dwell gate.
func NewDelay(env Env, d time.Duration, requireFixation bool, opts ...DelayOption) *Delay {
	a := &Delay{env: env, duration: d, requireFixation: requireFixation}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Delay) Name() string { return "delay" }

func (a *Delay) Update(in Input) (State, error) {
	if a.duration <= 0 {
		return Finished, nil
	}
	if a.requireFixation {
		if !in.Gaze.Valid {
			return Failed, filter.ErrTrackerDropout
		}
		if !in.Gaze.Fixated {
			if a.begun && !a.restart {
				return Failed, ErrFixationLost
			}
			a.begun = false
			a.dwell = 0
			if total := a.tick(in.DT); a.timeout > 0 && total >= a.timeout {
				return Failed, ErrTimeout
			}
			return Active, nil
		}
		a.begun = true
	}

	a.tick(in.DT)
	a.dwell += in.DT
	progress := float64(a.dwell) / float64(a.duration)
	if progress > 1 {
		progress = 1
	}
	a.env.feedback().Show(page.Feedback{
		Kind:     page.FeedbackDwellProgress,
		Point:    in.Gaze.Point(),
		Progress: progress,
	})
	if a.dwell >= a.duration {
		return Finished, nil
	}
	return Active, nil
}
