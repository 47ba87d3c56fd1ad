package action

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// FutureCoordinate extrapolates where the gaze will be after the pointing
// latency, from the velocity between the last two filtered points. It writes
// the raw, drift corrected and predicted coordinates and finishes at once.
type FutureCoordinate struct {
	env     Env
	latency time.Duration
}

// NewFutureCoordinate creates the prediction action.
func NewFutureCoordinate(env Env, latency time.Duration) *FutureCoordinate {
	return &FutureCoordinate{env: env, latency: latency}
}

func (a *FutureCoordinate) Name() string { return "future_coordinate" }

func (a *FutureCoordinate) Update(in Input) (State, error) {
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	raw := in.Gaze.Point()
	corrected := a.env.correct(raw)

	var velocity gaze.Point
	if in.Previous.Valid && in.DT > 0 {
		velocity = raw.Sub(in.Previous.Point()).Scale(1 / in.DT.Seconds())
	}
	predicted := corrected.Add(velocity.Scale(a.latency.Seconds()))

	actiondata.Set(in.Data, actiondata.RawCoordinate, raw)
	actiondata.Set(in.Data, actiondata.CorrectedCoordinate, corrected)
	actiondata.Set(in.Data, actiondata.PredictedCoordinate, predicted)
	return Finished, nil
}

// CaptureCoordinate waits for a fixation and stores its drift corrected
// position under a key. When Away is set, the fixation must be at least
// MinDistance from the point stored under that key.
type CaptureCoordinate struct {
	clock
	env         Env
	key         actiondata.Key[gaze.Point]
	away        *actiondata.Key[gaze.Point]
	minDistance float64
	timeout     time.Duration
}

// CaptureOption configures a CaptureCoordinate.
type CaptureOption func(*CaptureCoordinate)

// AwayFrom requires the captured point to be at least distance px from the
// point stored under key.
func AwayFrom(key actiondata.Key[gaze.Point], distance float64) CaptureOption {
	return func(a *CaptureCoordinate) {
		a.away = &key
		a.minDistance = distance
	}
}

// CaptureTimeout bounds the wait. Zero waits forever.
func CaptureTimeout(d time.Duration) CaptureOption {
	return func(a *CaptureCoordinate) { a.timeout = d }
}

// NewCaptureCoordinate creates a capture into key.
func NewCaptureCoordinate(env Env, key actiondata.Key[gaze.Point], opts ...CaptureOption) *CaptureCoordinate {
	a := &CaptureCoordinate{env: env, key: key}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *CaptureCoordinate) Name() string { return "capture_" + a.key.Name() }

func (a *CaptureCoordinate) Update(in Input) (State, error) {
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	if in.Gaze.Fixated {
		p := a.env.correct(in.Gaze.Point())
		ok := true
		if a.away != nil {
			ref, err := actiondata.Get(in.Data, *a.away)
			if err != nil {
				return Failed, err
			}
			ok = p.Distance(ref) >= a.minDistance
		}
		if ok {
			actiondata.Set(in.Data, a.key, p)
			return Finished, nil
		}
	}
	if elapsed := a.tick(in.DT); a.timeout > 0 && elapsed >= a.timeout {
		return Failed, ErrTimeout
	}
	return Active, nil
}
