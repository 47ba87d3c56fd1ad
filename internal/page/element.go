package page

import (
	"math"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// ElementKind classifies interactive DOM elements.
type ElementKind string

const (
	KindLink      ElementKind = "link"
	KindButton    ElementKind = "button"
	KindTextField ElementKind = "text_field"
	KindSelect    ElementKind = "select"
	KindVideo     ElementKind = "video"
	KindGeneric   ElementKind = "generic"
)

// IsTextEntry reports whether the element accepts typed text.
func (k ElementKind) IsTextEntry() bool {
	return k == KindTextField
}

// Rect is an axis-aligned rectangle in page pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the rectangle center.
func (r Rect) Center() gaze.Point {
	return gaze.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p gaze.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Distance returns the distance from p to the closest point of r, zero when
// p is inside.
func (r Rect) Distance(p gaze.Point) float64 {
	dx := math.Max(math.Max(r.X-p.X, 0), p.X-(r.X+r.Width))
	dy := math.Max(math.Max(r.Y-p.Y, 0), p.Y-(r.Y+r.Height))
	return math.Hypot(dx, dy)
}

// MinSide returns the smaller of width and height.
func (r Rect) MinSide() float64 {
	return math.Min(r.Width, r.Height)
}

// Element is an interactive DOM element as reported by the page layer.
type Element struct {
	ID      string      `json:"id"`
	Kind    ElementKind `json:"kind"`
	Bounds  Rect        `json:"bounds"`
	Label   string      `json:"label,omitempty"`
	Href    string      `json:"href,omitempty"`
	Options []string    `json:"options,omitempty"`
}
