package action

import (
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
)

// DriftCorrection measures the offset between a known calibration target and
// the filtered gaze on a single frame and folds it into the tab's correction.
type DriftCorrection struct {
	correction *drift.Correction
}

// NewDriftCorrection creates the single-frame correction action.
func NewDriftCorrection(c *drift.Correction) *DriftCorrection {
	return &DriftCorrection{correction: c}
}

func (a *DriftCorrection) Name() string { return "drift_correction" }

func (a *DriftCorrection) Update(in Input) (State, error) {
	if a.correction == nil {
		return Failed, errors.New("drift correction has no state")
	}
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	target, err := actiondata.Get(in.Data, actiondata.CalibrationTarget)
	if err != nil {
		return Failed, err
	}
	if _, err := a.correction.Observe(target.Sub(in.Gaze.Point())); err != nil {
		return Failed, fmt.Errorf("observe drift: %w", err)
	}
	return Finished, nil
}

// DynamicDriftCorrection re-estimates the offset on every frame while the
// user keeps fixating the anchor, until its dwell elapses.
type DynamicDriftCorrection struct {
	clock
	correction *drift.Correction
	dwell      time.Duration
}

// NewDynamicDriftCorrection creates the continuous correction action.
func NewDynamicDriftCorrection(c *drift.Correction, dwell time.Duration) *DynamicDriftCorrection {
	return &DynamicDriftCorrection{correction: c, dwell: dwell}
}

func (a *DynamicDriftCorrection) Name() string { return "dynamic_drift_correction" }

func (a *DynamicDriftCorrection) Update(in Input) (State, error) {
	if a.correction == nil {
		return Failed, errors.New("drift correction has no state")
	}
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	if !in.Gaze.Fixated {
		return Failed, ErrFixationLost
	}
	target, err := actiondata.Get(in.Data, actiondata.CalibrationTarget)
	if err != nil {
		return Failed, err
	}
	if _, err := a.correction.Observe(target.Sub(in.Gaze.Point())); err != nil {
		return Failed, fmt.Errorf("observe drift: %w", err)
	}
	if a.tick(in.DT) >= a.dwell {
		return Finished, nil
	}
	return Active, nil
}
