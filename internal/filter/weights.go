package filter

import (
	"fmt"
	"math"
)

// Weighting selects the recency weight curve of the weighted filter.
type Weighting string

const (
	// WeightingLinear weights the i-th oldest of n samples by i+1.
	WeightingLinear Weighting = "linear"
	// WeightingExponential weights each sample decay times its successor.
	WeightingExponential Weighting = "exponential"
)

// Weights returns n recency weights ordered oldest to newest. The weights
// sum to 1 and never decrease towards the newest sample.
func Weights(curve Weighting, decay float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, nil
	}

	w := make([]float64, n)
	switch curve {
	case WeightingLinear, "":
		for i := range w {
			w[i] = float64(i + 1)
		}
	case WeightingExponential:
		if decay <= 0 || decay > 1 {
			return nil, fmt.Errorf("exponential decay must be in (0,1], got %v", decay)
		}
		for i := range w {
			w[i] = math.Pow(decay, float64(n-1-i))
		}
	default:
		return nil, fmt.Errorf("unknown weighting curve %q", curve)
	}

	var sum float64
	for _, v := range w {
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}
	return w, nil
}
