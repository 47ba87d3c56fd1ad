package coordinator

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
	"github.com/GriffinCanCode/gazeweb/internal/trigger"
)

// DefaultFrameInterval is the frame period used by Run when none is given.
const DefaultFrameInterval = 16 * time.Millisecond

// Settings tunes one tab.
type Settings struct {
	Filter     filter.Config
	Pipeline   pipeline.Config
	Fixation   trigger.FixationConfig
	DriftAlpha float64
	QueueSize  int
	// Viewport is used until the page reports its own.
	Viewport page.Rect
	// MaxFrameDT caps the time credited to a single frame after a stall.
	MaxFrameDT time.Duration
}

// DefaultSettings returns the built-in tuning.
func DefaultSettings() Settings {
	return Settings{
		Filter:   filter.DefaultConfig(),
		Pipeline: pipeline.DefaultConfig(),
		Fixation: trigger.FixationConfig{
			PivotRadius:   40,
			MinTargetSize: 24,
			ScrollBand:    0.12,
		},
		DriftAlpha: drift.DefaultAlpha,
		QueueSize:  gaze.DefaultQueueCapacity,
		Viewport:   page.Rect{Width: 1280, Height: 800},
		MaxFrameDT: 4 * DefaultFrameInterval,
	}
}
