package gaze

import "math"

// Sample is a raw tracker reading in screen pixels.
type Sample struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TimestampMs int64   `json:"timestamp_ms"`
	Valid       bool    `json:"valid"`
}

// Point returns the sample position.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Point is a 2D coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// FilteredPoint is the stabilized gaze position produced by the filter each
// frame. Valid is false after a tracker dropout; Fixated is never true when
// Valid is false.
type FilteredPoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Fixated bool    `json:"fixated"`
	Valid   bool    `json:"valid"`
}

// Point returns the filtered position.
func (f FilteredPoint) Point() Point {
	return Point{X: f.X, Y: f.Y}
}
