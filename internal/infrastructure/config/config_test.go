package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Tuning
	assert.Equal(t, 10, cfg.Filter.Window)
	assert.Equal(t, time.Second, cfg.Dwell.Click)
	assert.Equal(t, 0.3, cfg.Drift.Alpha)
	assert.Equal(t, 3*time.Second, cfg.Pivot.Timeout)

	require.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"GAZE_SERVER_PORT":                "9000",
		"GAZE_LOGGING_LEVEL":              "debug",
		"GAZE_LOGGING_DEVELOPMENT":        "true",
		"GAZE_RATE_LIMIT_ENABLED":         "false",
		"GAZE_FILTER_WINDOW":              "6",
		"GAZE_FILTER_KIND":                "simple",
		"GAZE_FILTER_FIXATION_DISPERSION": "20",
		"GAZE_TRACKER_DROPOUT_TIMEOUT":    "250ms",
		"GAZE_DWELL_CLICK":                "1.5s",
		"GAZE_DRIFT_ALPHA":                "0.5",
		"GAZE_BRIDGE_ALLOWED_ORIGINS":     "http://a.test,http://b.test",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 6, cfg.Filter.Window)
	assert.Equal(t, "simple", cfg.Filter.Kind)
	assert.Equal(t, 20.0, cfg.Filter.FixationDispersion)
	assert.Equal(t, 250*time.Millisecond, cfg.Tracker.DropoutTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Dwell.Click)
	assert.Equal(t, 0.5, cfg.Drift.Alpha)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Bridge.AllowedOrigins)

	// Unset values keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 800*time.Millisecond, cfg.Dwell.Zoom)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "alpha zero", key: "GAZE_DRIFT_ALPHA", value: "0"},
		{name: "alpha above one", key: "GAZE_DRIFT_ALPHA", value: "1.2"},
		{name: "empty window", key: "GAZE_FILTER_WINDOW", value: "0"},
		{name: "unknown kind", key: "GAZE_FILTER_KIND", value: "kalman"},
		{name: "zoom out", key: "GAZE_ZOOM_FACTOR", value: "0.5"},
		{name: "not a duration", key: "GAZE_DWELL_CLICK", value: "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)

			cfg := LoadOrDefault()
			assert.Equal(t, Default(), cfg, "falls back to defaults")
		})
	}
}

func TestParseProfile(t *testing.T) {
	tomlProfile := `
name = "tobii-4c"

[filter]
window = 14
weighting = "exponential"
fixation_duration = "150ms"

[dwell]
click = "850ms"
video = "3s"

[drift]
alpha = 0.2
`
	yamlProfile := `
name: tobii-4c
filter:
  window: 14
  weighting: exponential
  fixation_duration: 150ms
dwell:
  click: 850ms
  video: 3s
drift:
  alpha: 0.2
`
	for _, tt := range []struct {
		ext  string
		data string
	}{
		{ext: ".toml", data: tomlProfile},
		{ext: ".yaml", data: yamlProfile},
	} {
		t.Run(tt.ext, func(t *testing.T) {
			p, err := ParseProfile(tt.ext, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, "tobii-4c", p.Name)

			cfg := Default()
			p.Apply(cfg)
			assert.Equal(t, 14, cfg.Filter.Window)
			assert.Equal(t, "exponential", cfg.Filter.Weighting)
			assert.Equal(t, 150*time.Millisecond, cfg.Filter.FixationDuration)
			assert.Equal(t, 850*time.Millisecond, cfg.Dwell.Click)
			assert.Equal(t, 3*time.Second, cfg.Dwell.Video)
			assert.Equal(t, 0.2, cfg.Drift.Alpha)

			// Absent values are untouched.
			assert.Equal(t, 800*time.Millisecond, cfg.Dwell.Zoom)
			assert.Equal(t, 2.5, cfg.Zoom.Factor)
		})
	}

	_, err := ParseProfile(".ini", nil)
	assert.Error(t, err)
}

func TestLoadWithProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.toml")
	require.NoError(t, os.WriteFile(path, []byte("[zoom]\nfactor = 3.0\n"), 0o600))

	t.Setenv("GAZE_PROFILE_PATH", path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Zoom.Factor)

	t.Setenv("GAZE_PROFILE_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}
