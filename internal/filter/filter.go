package filter

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// ErrTrackerDropout reports that no valid sample arrived within the dropout
// timeout.
var ErrTrackerDropout = errors.New("tracker dropout")

// Kind selects the averaging strategy.
type Kind string

const (
	KindSimple   Kind = "simple"
	KindWeighted Kind = "weighted"
)

// Config tunes the filter. Values are device specific and come from
// configuration, never from constants in the pipelines.
type Config struct {
	Kind       Kind
	WindowSize int
	Weighting  Weighting
	// Decay is the weight ratio between a sample and its successor for the
	// exponential curve.
	Decay float64
	// FixationDispersion is the maximum spread (px) of the window that still
	// counts as a fixation.
	FixationDispersion float64
	// FixationDuration is how long, in sample time, the spread must stay
	// below FixationDispersion before the point reports Fixated.
	FixationDuration time.Duration
	DropoutTimeout   time.Duration
	// OutlierDistance disables the outlier gate when zero.
	OutlierDistance float64
	OutlierConfirm  int
}

// DefaultConfig returns the filter defaults.
func DefaultConfig() Config {
	return Config{
		Kind:               KindWeighted,
		WindowSize:         10,
		Weighting:          WeightingLinear,
		Decay:              0.8,
		FixationDispersion: 35,
		FixationDuration:   100 * time.Millisecond,
		DropoutTimeout:     500 * time.Millisecond,
		OutlierDistance:    150,
		OutlierConfirm:     3,
	}
}

// Filter turns raw samples into a stabilized gaze point.
type Filter interface {
	// Push feeds one sample and returns the updated point.
	Push(s gaze.Sample) gaze.FilteredPoint
	// Advance moves frame time forward; it is what detects dropouts when
	// the tracker stops delivering samples altogether.
	Advance(dt time.Duration) gaze.FilteredPoint
	Current() gaze.FilteredPoint
	// Err returns ErrTrackerDropout while the tracker is considered lost.
	Err() error
	Reset()
}

// New creates the filter selected by cfg.Kind.
func New(cfg Config) (Filter, error) {
	switch cfg.Kind {
	case KindSimple:
		return NewSimple(cfg), nil
	case KindWeighted, "":
		return NewWeighted(cfg)
	default:
		return nil, fmt.Errorf("unknown filter kind %q", cfg.Kind)
	}
}

// Smoother implements both strategies; they differ only in the weights
// used for averaging.
type Smoother struct {
	cfg     Config
	window  *Ring[gaze.Sample]
	gate    outlierGate
	weights [][]float64 // indexed by number of valid samples

	current  gaze.FilteredPoint
	lastGood gaze.Point
	hasGood  bool

	lastTS  int64
	started bool

	sinceValid time.Duration
	droppedOut bool

	fixating bool
	fixStart int64
}

// NewSimple creates an arithmetic-mean filter.
func NewSimple(cfg Config) *Smoother {
	return newSmoother(cfg, nil)
}

// NewWeighted creates a recency-weighted filter.
func NewWeighted(cfg Config) (*Smoother, error) {
	size := windowSize(cfg)
	table := make([][]float64, size+1)
	for n := 1; n <= size; n++ {
		w, err := Weights(cfg.Weighting, cfg.Decay, n)
		if err != nil {
			return nil, err
		}
		table[n] = w
	}
	return newSmoother(cfg, table), nil
}

func newSmoother(cfg Config, weights [][]float64) *Smoother {
	return &Smoother{
		cfg:     cfg,
		window:  NewRing[gaze.Sample](windowSize(cfg)),
		gate:    newOutlierGate(cfg.OutlierDistance, cfg.OutlierConfirm),
		weights: weights,
	}
}

func windowSize(cfg Config) int {
	if cfg.WindowSize < 1 {
		return 1
	}
	return cfg.WindowSize
}

// Push implements Filter.
func (f *Smoother) Push(s gaze.Sample) gaze.FilteredPoint {
	if f.started && s.TimestampMs <= f.lastTS {
		return f.current
	}
	f.started = true
	f.lastTS = s.TimestampMs

	if s.Valid {
		f.sinceValid = 0
		f.droppedOut = false

		accept, restart := f.gate.admit(s.Point())
		if !accept {
			return f.current
		}
		if restart {
			f.window.Reset()
			f.fixating = false
		}
	}

	f.window.Push(s)
	f.evaluate(s.TimestampMs)
	return f.current
}

// Advance implements Filter.
func (f *Smoother) Advance(dt time.Duration) gaze.FilteredPoint {
	f.sinceValid += dt
	if !f.droppedOut && f.cfg.DropoutTimeout > 0 && f.sinceValid > f.cfg.DropoutTimeout {
		f.droppedOut = true
		f.window.Reset()
		f.gate.reset()
		f.fixating = false
		f.current.Valid = false
		f.current.Fixated = false
	}
	return f.current
}

// Current implements Filter.
func (f *Smoother) Current() gaze.FilteredPoint {
	return f.current
}

// Err implements Filter.
func (f *Smoother) Err() error {
	if f.droppedOut {
		return ErrTrackerDropout
	}
	return nil
}

// Reset implements Filter.
func (f *Smoother) Reset() {
	f.window.Reset()
	f.gate.reset()
	f.current = gaze.FilteredPoint{}
	f.hasGood = false
	f.started = false
	f.sinceValid = 0
	f.droppedOut = false
	f.fixating = false
}

func (f *Smoother) evaluate(ts int64) {
	xs := make([]float64, 0, f.window.Len())
	ys := make([]float64, 0, f.window.Len())
	f.window.Each(func(s gaze.Sample) {
		if s.Valid {
			xs = append(xs, s.X)
			ys = append(ys, s.Y)
		}
	})

	if len(xs) == 0 {
		f.fixating = false
		f.current = gaze.FilteredPoint{
			X:     f.lastGood.X,
			Y:     f.lastGood.Y,
			Valid: f.hasGood && !f.droppedOut,
		}
		return
	}

	var w []float64
	if f.weights != nil {
		w = f.weights[len(xs)]
	}
	p := gaze.Point{X: stat.Mean(xs, w), Y: stat.Mean(ys, w)}
	f.lastGood = p
	f.hasGood = true

	f.current = gaze.FilteredPoint{
		X:       p.X,
		Y:       p.Y,
		Fixated: f.fixated(xs, ys, ts),
		Valid:   true,
	}
}

func (f *Smoother) fixated(xs, ys []float64, ts int64) bool {
	if len(xs) < 2 {
		f.fixating = false
		return false
	}

	_, vx := stat.MeanVariance(xs, nil)
	_, vy := stat.MeanVariance(ys, nil)
	if math.Sqrt(vx+vy) > f.cfg.FixationDispersion {
		f.fixating = false
		return false
	}

	if !f.fixating {
		f.fixating = true
		f.fixStart = ts
	}
	return time.Duration(ts-f.fixStart)*time.Millisecond >= f.cfg.FixationDuration
}
