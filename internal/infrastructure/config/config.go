package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix.
const Prefix = "gaze"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig `split_words:"true"`
	Filter     FilterConfig
	Tracker    TrackerConfig
	Dwell      DwellConfig
	Drift      DriftConfig
	Prediction PredictionConfig
	Zoom       ZoomConfig
	Pivot      PivotConfig
	Scroll     ScrollConfig
	Text       TextConfig
	Frame      FrameConfig
	Viewport   ViewportConfig
	Feedback   FeedbackConfig
	Bridge     BridgeConfig
	Profile    ProfileConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `split_words:"true" default:"info"`
	Development bool   `split_words:"true" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `split_words:"true" default:"100"`
	Burst             int  `split_words:"true" default:"200"`
	Enabled           bool `split_words:"true" default:"true"`
}

// FilterConfig tunes gaze smoothing and fixation detection.
type FilterConfig struct {
	Kind               string        `split_words:"true" default:"weighted"`
	Window             int           `split_words:"true" default:"10"`
	Weighting          string        `split_words:"true" default:"linear"`
	Decay              float64       `split_words:"true" default:"0.8"`
	FixationDispersion float64       `split_words:"true" default:"35"`
	FixationDuration   time.Duration `split_words:"true" default:"100ms"`
	OutlierDistance    float64       `split_words:"true" default:"150"`
	OutlierConfirm     int           `split_words:"true" default:"3"`
}

// TrackerConfig holds tracker input settings.
type TrackerConfig struct {
	DropoutTimeout time.Duration `split_words:"true" default:"500ms"`
	QueueSize      int           `split_words:"true" default:"512"`
}

// DwellConfig holds the dwell time of each pipeline kind.
type DwellConfig struct {
	Click       time.Duration `split_words:"true" default:"1000ms"`
	Zoom        time.Duration `split_words:"true" default:"800ms"`
	Text        time.Duration `split_words:"true" default:"600ms"`
	Selection   time.Duration `split_words:"true" default:"600ms"`
	Select      time.Duration `split_words:"true" default:"600ms"`
	Scroll      time.Duration `split_words:"true" default:"400ms"`
	Video       time.Duration `split_words:"true" default:"2s"`
	Calibration time.Duration `split_words:"true" default:"1s"`
}

// DriftConfig holds drift correction settings.
type DriftConfig struct {
	Alpha float64 `split_words:"true" default:"0.3"`
}

// PredictionConfig holds gaze prediction settings.
type PredictionConfig struct {
	Latency time.Duration `split_words:"true" default:"50ms"`
}

// ZoomConfig holds magnifier settings.
type ZoomConfig struct {
	Factor        float64       `split_words:"true" default:"2.5"`
	Timeout       time.Duration `split_words:"true" default:"5s"`
	MinTargetSize float64       `split_words:"true" default:"24"`
}

// PivotConfig holds disambiguation menu settings.
type PivotConfig struct {
	Radius      float64       `split_words:"true" default:"40"`
	MenuRadius  float64       `split_words:"true" default:"140"`
	EntryRadius float64       `split_words:"true" default:"55"`
	Dwell       time.Duration `split_words:"true" default:"600ms"`
	Timeout     time.Duration `split_words:"true" default:"3s"`
}

// ScrollConfig holds edge scrolling settings.
type ScrollConfig struct {
	Band float64 `split_words:"true" default:"0.12"`
	Step float64 `split_words:"true" default:"240"`
}

// TextConfig holds text entry and selection settings.
type TextConfig struct {
	Timeout              time.Duration `split_words:"true" default:"60s"`
	SelectionTimeout     time.Duration `split_words:"true" default:"10s"`
	SelectionMinDistance float64       `split_words:"true" default:"20"`
}

// FrameConfig holds the frame loop settings.
type FrameConfig struct {
	Interval time.Duration `split_words:"true" default:"16ms"`
}

// ViewportConfig is the viewport assumed until the page reports one.
type ViewportConfig struct {
	Width  float64 `split_words:"true" default:"1280"`
	Height float64 `split_words:"true" default:"800"`
}

// FeedbackConfig holds feedback throttling settings.
type FeedbackConfig struct {
	Rate  float64 `split_words:"true" default:"30"`
	Burst int     `split_words:"true" default:"10"`
}

// BridgeConfig holds WebSocket bridge settings.
type BridgeConfig struct {
	ReadLimit       int64         `split_words:"true" default:"1048576"`
	WriteTimeout    time.Duration `split_words:"true" default:"5s"`
	PingInterval    time.Duration `split_words:"true" default:"30s"`
	SendBuffer      int           `split_words:"true" default:"256"`
	AllowedOrigins  []string      `split_words:"true" default:"*"`
	BreakerFailures uint32        `split_words:"true" default:"3"`
	BreakerTimeout  time.Duration `split_words:"true" default:"2s"`
}

// ProfileConfig points at an optional device tuning profile.
type ProfileConfig struct {
	Path string `split_words:"true"`
}

// Load loads configuration from environment variables and applies the
// device profile, if one is configured.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Profile.Path != "" {
		p, err := LoadProfile(cfg.Profile.Path)
		if err != nil {
			return nil, err
		}
		p.Apply(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Filter: FilterConfig{
			Kind:               "weighted",
			Window:             10,
			Weighting:          "linear",
			Decay:              0.8,
			FixationDispersion: 35,
			FixationDuration:   100 * time.Millisecond,
			OutlierDistance:    150,
			OutlierConfirm:     3,
		},
		Tracker: TrackerConfig{
			DropoutTimeout: 500 * time.Millisecond,
			QueueSize:      512,
		},
		Dwell: DwellConfig{
			Click:       1000 * time.Millisecond,
			Zoom:        800 * time.Millisecond,
			Text:        600 * time.Millisecond,
			Selection:   600 * time.Millisecond,
			Select:      600 * time.Millisecond,
			Scroll:      400 * time.Millisecond,
			Video:       2 * time.Second,
			Calibration: time.Second,
		},
		Drift:      DriftConfig{Alpha: 0.3},
		Prediction: PredictionConfig{Latency: 50 * time.Millisecond},
		Zoom: ZoomConfig{
			Factor:        2.5,
			Timeout:       5 * time.Second,
			MinTargetSize: 24,
		},
		Pivot: PivotConfig{
			Radius:      40,
			MenuRadius:  140,
			EntryRadius: 55,
			Dwell:       600 * time.Millisecond,
			Timeout:     3 * time.Second,
		},
		Scroll: ScrollConfig{Band: 0.12, Step: 240},
		Text: TextConfig{
			Timeout:              60 * time.Second,
			SelectionTimeout:     10 * time.Second,
			SelectionMinDistance: 20,
		},
		Frame:    FrameConfig{Interval: 16 * time.Millisecond},
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		Feedback: FeedbackConfig{Rate: 30, Burst: 10},
		Bridge: BridgeConfig{
			ReadLimit:       1 << 20,
			WriteTimeout:    5 * time.Second,
			PingInterval:    30 * time.Second,
			SendBuffer:      256,
			AllowedOrigins:  []string{"*"},
			BreakerFailures: 3,
			BreakerTimeout:  2 * time.Second,
		},
	}
}

// Validate checks value ranges that envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Filter.Window > 0, "filter window must be positive, got %d", c.Filter.Window)
	check(c.Filter.Kind == "simple" || c.Filter.Kind == "weighted", "unknown filter kind %q", c.Filter.Kind)
	check(c.Filter.Weighting == "linear" || c.Filter.Weighting == "exponential", "unknown filter weighting %q", c.Filter.Weighting)
	check(c.Filter.Decay > 0 && c.Filter.Decay <= 1, "filter decay must be in (0,1], got %v", c.Filter.Decay)
	check(c.Tracker.DropoutTimeout > 0, "dropout timeout must be positive")
	check(c.Tracker.QueueSize > 0, "tracker queue size must be positive")
	check(c.Drift.Alpha > 0 && c.Drift.Alpha <= 1, "drift alpha must be in (0,1], got %v", c.Drift.Alpha)
	check(c.Zoom.Factor >= 1, "zoom factor must be >= 1, got %v", c.Zoom.Factor)
	check(c.Pivot.Timeout > 0, "pivot timeout must be positive")
	check(c.Scroll.Band >= 0 && c.Scroll.Band < 0.5, "scroll band must be in [0,0.5), got %v", c.Scroll.Band)
	check(c.Frame.Interval > 0, "frame interval must be positive")
	check(c.Feedback.Rate > 0, "feedback rate must be positive")
	check(c.Bridge.SendBuffer > 0, "bridge send buffer must be positive")

	return errors.Join(errs...)
}
