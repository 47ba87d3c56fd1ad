package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration read from a profile as a string such as
// "850ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Profile holds per-device tuning. Only the values present in the file
// override the environment configuration.
type Profile struct {
	Name   string        `toml:"name" yaml:"name"`
	Filter FilterProfile `toml:"filter" yaml:"filter"`
	// Dwell maps pipeline kinds (click, zoom, text, selection, select,
	// scroll, video, calibration) to dwell times.
	Dwell      map[string]Duration `toml:"dwell" yaml:"dwell"`
	Drift      DriftProfile        `toml:"drift" yaml:"drift"`
	Prediction PredictionProfile   `toml:"prediction" yaml:"prediction"`
	Zoom       ZoomProfile         `toml:"zoom" yaml:"zoom"`
	Pivot      PivotProfile        `toml:"pivot" yaml:"pivot"`
}

type FilterProfile struct {
	Kind               *string   `toml:"kind" yaml:"kind"`
	Window             *int      `toml:"window" yaml:"window"`
	Weighting          *string   `toml:"weighting" yaml:"weighting"`
	Decay              *float64  `toml:"decay" yaml:"decay"`
	FixationDispersion *float64  `toml:"fixation_dispersion" yaml:"fixation_dispersion"`
	FixationDuration   *Duration `toml:"fixation_duration" yaml:"fixation_duration"`
	DropoutTimeout     *Duration `toml:"dropout_timeout" yaml:"dropout_timeout"`
}

type DriftProfile struct {
	Alpha *float64 `toml:"alpha" yaml:"alpha"`
}

type PredictionProfile struct {
	Latency *Duration `toml:"latency" yaml:"latency"`
}

type ZoomProfile struct {
	Factor        *float64 `toml:"factor" yaml:"factor"`
	MinTargetSize *float64 `toml:"min_target_size" yaml:"min_target_size"`
}

type PivotProfile struct {
	Radius  *float64  `toml:"radius" yaml:"radius"`
	Timeout *Duration `toml:"timeout" yaml:"timeout"`
}

// LoadProfile reads a TOML or YAML profile, chosen by file extension.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(filepath.Ext(path), data)
}

// ParseProfile decodes a profile in the format named by ext (".toml",
// ".yaml" or ".yml").
func ParseProfile(ext string, data []byte) (*Profile, error) {
	var p Profile
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse TOML profile: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile format %q", ext)
	}
	return &p, nil
}

// Apply overrides cfg with the values present in the profile.
func (p *Profile) Apply(cfg *Config) {
	f := p.Filter
	setString(&cfg.Filter.Kind, f.Kind)
	setInt(&cfg.Filter.Window, f.Window)
	setString(&cfg.Filter.Weighting, f.Weighting)
	setFloat(&cfg.Filter.Decay, f.Decay)
	setFloat(&cfg.Filter.FixationDispersion, f.FixationDispersion)
	setDuration(&cfg.Filter.FixationDuration, f.FixationDuration)
	setDuration(&cfg.Tracker.DropoutTimeout, f.DropoutTimeout)

	setFloat(&cfg.Drift.Alpha, p.Drift.Alpha)
	setDuration(&cfg.Prediction.Latency, p.Prediction.Latency)
	setFloat(&cfg.Zoom.Factor, p.Zoom.Factor)
	setFloat(&cfg.Zoom.MinTargetSize, p.Zoom.MinTargetSize)
	setFloat(&cfg.Pivot.Radius, p.Pivot.Radius)
	setDuration(&cfg.Pivot.Timeout, p.Pivot.Timeout)

	dwell := map[string]*time.Duration{
		"click":       &cfg.Dwell.Click,
		"zoom":        &cfg.Dwell.Zoom,
		"text":        &cfg.Dwell.Text,
		"selection":   &cfg.Dwell.Selection,
		"select":      &cfg.Dwell.Select,
		"scroll":      &cfg.Dwell.Scroll,
		"video":       &cfg.Dwell.Video,
		"calibration": &cfg.Dwell.Calibration,
	}
	for kind, d := range p.Dwell {
		if dst, ok := dwell[kind]; ok {
			*dst = time.Duration(d)
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = time.Duration(*v)
	}
}
