package tab

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/coordinator"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/config"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
	"github.com/GriffinCanCode/gazeweb/internal/trigger"
)

// SettingsFromConfig converts the service configuration into per-tab tuning.
func SettingsFromConfig(cfg *config.Config) coordinator.Settings {
	return coordinator.Settings{
		Filter: filter.Config{
			Kind:               filter.Kind(cfg.Filter.Kind),
			WindowSize:         cfg.Filter.Window,
			Weighting:          filter.Weighting(cfg.Filter.Weighting),
			Decay:              cfg.Filter.Decay,
			FixationDispersion: cfg.Filter.FixationDispersion,
			FixationDuration:   cfg.Filter.FixationDuration,
			DropoutTimeout:     cfg.Tracker.DropoutTimeout,
			OutlierDistance:    cfg.Filter.OutlierDistance,
			OutlierConfirm:     cfg.Filter.OutlierConfirm,
		},
		Pipeline: pipeline.Config{
			Dwell: pipeline.DwellConfig{
				Click:       cfg.Dwell.Click,
				Zoom:        cfg.Dwell.Zoom,
				Text:        cfg.Dwell.Text,
				Selection:   cfg.Dwell.Selection,
				Select:      cfg.Dwell.Select,
				Scroll:      cfg.Dwell.Scroll,
				Video:       cfg.Dwell.Video,
				Calibration: cfg.Dwell.Calibration,
			},
			PredictionLatency: cfg.Prediction.Latency,
			ZoomFactor:        cfg.Zoom.Factor,
			ZoomTimeout:       cfg.Zoom.Timeout,
			Menu: action.MenuConfig{
				Radius:      cfg.Pivot.Radius,
				MenuRadius:  cfg.Pivot.MenuRadius,
				EntryRadius: cfg.Pivot.EntryRadius,
				Dwell:       cfg.Pivot.Dwell,
				Timeout:     cfg.Pivot.Timeout,
			},
			Scroll:               action.ScrollConfig{Band: cfg.Scroll.Band, Step: cfg.Scroll.Step},
			TextTimeout:          cfg.Text.Timeout,
			SelectionTimeout:     cfg.Text.SelectionTimeout,
			SelectionMinDistance: cfg.Text.SelectionMinDistance,
		},
		Fixation: trigger.FixationConfig{
			PivotRadius:   cfg.Pivot.Radius,
			MinTargetSize: cfg.Zoom.MinTargetSize,
			ScrollBand:    cfg.Scroll.Band,
		},
		DriftAlpha: cfg.Drift.Alpha,
		QueueSize:  cfg.Tracker.QueueSize,
		Viewport:   page.Rect{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		MaxFrameDT: 4 * frameInterval(cfg),
	}
}

func frameInterval(cfg *config.Config) time.Duration {
	if cfg.Frame.Interval > 0 {
		return cfg.Frame.Interval
	}
	return coordinator.DefaultFrameInterval
}
