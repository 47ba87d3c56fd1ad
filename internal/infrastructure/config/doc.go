// Package config provides 12-factor configuration management for the gaze
// service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility,
// and a per-device tuning profile (TOML or YAML) can override the tuning
// sections.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Filter, Tracker: Gaze smoothing, fixation and dropout detection
//   - Dwell: Dwell time per pipeline kind
//   - Drift, Prediction, Zoom, Pivot, Scroll, Text: Pipeline tuning
//   - Frame, Viewport, Feedback, Bridge: Frame loop and WebSocket bridge
//   - Profile: Path to the device tuning profile
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables are prefixed with GAZE_ and named after the section
// and field, for example GAZE_FILTER_WINDOW, GAZE_DWELL_CLICK,
// GAZE_DRIFT_ALPHA and GAZE_PROFILE_PATH. PORT and HOST are also honored
// without the prefix.
package config
