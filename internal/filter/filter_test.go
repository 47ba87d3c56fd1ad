package filter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

const frame = 16 * time.Millisecond

func testConfig(kind Kind) Config {
	cfg := DefaultConfig()
	cfg.Kind = kind
	cfg.WindowSize = 5
	return cfg
}

func sample(x, y float64, ts int64) gaze.Sample {
	return gaze.Sample{X: x, Y: y, TimestampMs: ts, Valid: true}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		wantErr bool
	}{
		{name: "simple", kind: KindSimple},
		{name: "weighted", kind: KindWeighted},
		{name: "default is weighted", kind: ""},
		{name: "unknown", kind: "kalman", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(testConfig(tt.kind))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestSimpleFilterAveragesValidSamples(t *testing.T) {
	f := NewSimple(testConfig(KindSimple))

	f.Push(sample(100, 100, 0))
	f.Push(gaze.Sample{X: 900, Y: 900, TimestampMs: 10})
	p := f.Push(sample(110, 120, 20))

	assert.True(t, p.Valid)
	assert.InDelta(t, 105, p.X, 1e-9)
	assert.InDelta(t, 110, p.Y, 1e-9)
}

func TestSimpleFilterAllInvalidReturnsLastGood(t *testing.T) {
	cfg := testConfig(KindSimple)
	cfg.WindowSize = 2
	f := NewSimple(cfg)

	f.Push(sample(200, 300, 0))
	f.Push(sample(200, 300, 150))
	f.Push(gaze.Sample{TimestampMs: 160})
	p := f.Push(gaze.Sample{TimestampMs: 170})

	assert.Equal(t, 200.0, p.X)
	assert.Equal(t, 300.0, p.Y)
	assert.False(t, p.Fixated)
	assert.True(t, p.Valid)
}

func TestWeightsNormalizedAndMonotonic(t *testing.T) {
	for _, curve := range []Weighting{WeightingLinear, WeightingExponential} {
		t.Run(string(curve), func(t *testing.T) {
			for n := 1; n <= 20; n++ {
				w, err := Weights(curve, 0.7, n)
				require.NoError(t, err)
				require.Len(t, w, n)

				assert.InDelta(t, 1.0, floats(w).sum(), 1e-12)
				for i := 1; i < n; i++ {
					assert.GreaterOrEqual(t, w[i], w[i-1])
				}
			}
		})
	}

	_, err := Weights(WeightingExponential, 0, 3)
	assert.Error(t, err)
	_, err = Weights("cubic", 0.5, 3)
	assert.Error(t, err)
}

type floats []float64

func (f floats) sum() float64 {
	var s float64
	for _, v := range f {
		s += v
	}
	return s
}

func TestWeightedFilterLagsLessThanSimple(t *testing.T) {
	cfg := testConfig(KindWeighted)
	cfg.OutlierDistance = 0
	weighted, err := NewWeighted(cfg)
	require.NoError(t, err)
	simple := NewSimple(cfg)

	var ts int64
	for i := 0; i < 5; i++ {
		weighted.Push(sample(0, 0, ts))
		simple.Push(sample(0, 0, ts))
		ts += 16
	}

	w := weighted.Push(sample(100, 0, ts))
	s := simple.Push(sample(100, 0, ts))
	assert.Greater(t, w.X, s.X)
}

func TestFilterSmoothsJitter(t *testing.T) {
	const sigma = 8.0

	for _, kind := range []Kind{KindSimple, KindWeighted} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Kind = kind
			f, err := New(cfg)
			require.NoError(t, err)

			rng := rand.New(rand.NewSource(42))
			var inX, outX []float64
			var ts int64
			for i := 0; i < 600; i++ {
				x := 500 + rng.NormFloat64()*sigma
				y := 400 + rng.NormFloat64()*sigma
				p := f.Push(sample(x, y, ts))
				ts += 16
				if i < cfg.WindowSize {
					continue
				}
				inX = append(inX, x)
				outX = append(outX, p.X)
			}

			assert.Less(t, stat.StdDev(outX, nil), stat.StdDev(inX, nil))
			assert.Less(t, stat.StdDev(outX, nil), sigma)
		})
	}
}

func TestFixationNeedsMinimumDuration(t *testing.T) {
	cfg := testConfig(KindSimple)
	cfg.FixationDuration = 100 * time.Millisecond
	f := NewSimple(cfg)

	var ts int64
	var p gaze.FilteredPoint
	for ts = 0; ts < 100; ts += 20 {
		p = f.Push(sample(300, 300, ts))
	}
	assert.False(t, p.Fixated, "stable for only 60ms")

	p = f.Push(sample(301, 300, ts+20))
	assert.True(t, p.Fixated)

	// A spread wider than the dispersion, but inside the outlier gate,
	// breaks the fixation.
	p = f.Push(sample(420, 300, ts+40))
	assert.False(t, p.Fixated)
}

func TestOutlierGateHoldsFixationUntilConfirmed(t *testing.T) {
	cfg := testConfig(KindSimple)
	cfg.FixationDuration = 60 * time.Millisecond
	require.Greater(t, cfg.OutlierDistance, 0.0)
	require.Greater(t, cfg.OutlierConfirm, 1)
	f := NewSimple(cfg)

	var ts int64
	var p gaze.FilteredPoint
	for ; ts <= 100; ts += 20 {
		p = f.Push(sample(300, 300, ts))
	}
	require.True(t, p.Fixated)

	far := 300 + cfg.OutlierDistance + 100
	for i := 0; i < cfg.OutlierConfirm-1; i++ {
		p = f.Push(sample(far, 300, ts))
		ts += 20
		assert.True(t, p.Fixated, "unconfirmed jump %d is rejected", i+1)
		assert.Equal(t, 300.0, p.X)
	}

	p = f.Push(sample(far, 300, ts))
	assert.False(t, p.Fixated, "confirming sample restarts the window")
	assert.Equal(t, far, p.X)
}

func TestDropoutInvalidatesWithinOneFrame(t *testing.T) {
	cfg := testConfig(KindWeighted)
	cfg.DropoutTimeout = 100 * time.Millisecond
	cfg.FixationDuration = 0
	f, err := NewWeighted(cfg)
	require.NoError(t, err)

	var p gaze.FilteredPoint
	for ts := int64(0); ts < 100; ts += 16 {
		f.Push(sample(640, 360, ts))
		p = f.Advance(frame)
	}
	require.True(t, p.Fixated)
	require.NoError(t, f.Err())

	elapsed := time.Duration(0)
	for elapsed <= cfg.DropoutTimeout {
		p = f.Advance(frame)
		elapsed += frame
	}
	assert.False(t, p.Fixated)
	assert.False(t, p.Valid)
	assert.ErrorIs(t, f.Err(), ErrTrackerDropout)

	// Invalid samples keep the tracker in dropout.
	p = f.Push(gaze.Sample{TimestampMs: 1000})
	assert.False(t, p.Valid)

	p = f.Push(sample(10, 10, 1016))
	assert.True(t, p.Valid)
	assert.NoError(t, f.Err())
	assert.Equal(t, 10.0, p.X, "window restarts after a dropout")
}

func TestOutlierRejectedAndSaccadeAccepted(t *testing.T) {
	cfg := testConfig(KindSimple)
	cfg.OutlierDistance = 100
	cfg.OutlierConfirm = 3
	f := NewSimple(cfg)

	var ts int64
	for i := 0; i < 5; i++ {
		f.Push(sample(100, 100, ts))
		ts += 16
	}

	p := f.Push(sample(900, 100, ts))
	ts += 16
	assert.Equal(t, 100.0, p.X, "single spike is rejected")

	p = f.Push(sample(100, 100, ts))
	ts += 16
	assert.Equal(t, 100.0, p.X)

	for i := 0; i < 3; i++ {
		p = f.Push(sample(800, 600, ts))
		ts += 16
	}
	assert.Equal(t, 800.0, p.X, "confirmed saccade restarts the window")
	assert.Equal(t, 600.0, p.Y)
}

func TestOutOfOrderSamplesIgnored(t *testing.T) {
	f := NewSimple(testConfig(KindSimple))

	f.Push(sample(100, 100, 50))
	p := f.Push(sample(400, 400, 40))
	assert.Equal(t, 100.0, p.X)
	p = f.Push(sample(400, 400, 50))
	assert.Equal(t, 100.0, p.X)
}

func TestRingOrder(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	var got []int
	r.Each(func(i int) { got = append(got, i) })
	assert.Equal(t, []int{3, 4, 5}, got)
	assert.Equal(t, 3, r.Len())

	r.Reset()
	got = nil
	r.Each(func(i int) { got = append(got, i) })
	assert.Empty(t, got)
	assert.Zero(t, r.Len())
}
