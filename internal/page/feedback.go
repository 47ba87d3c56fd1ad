package page

import "github.com/GriffinCanCode/gazeweb/internal/gaze"

// FeedbackKind names an advisory rendering request.
type FeedbackKind string

const (
	FeedbackDwellProgress FeedbackKind = "dwell_progress"
	FeedbackShowMagnifier FeedbackKind = "show_magnifier"
	FeedbackHideMagnifier FeedbackKind = "hide_magnifier"
	FeedbackShowMenu      FeedbackKind = "show_menu"
	FeedbackHideMenu      FeedbackKind = "hide_menu"
	FeedbackShowKeyboard  FeedbackKind = "show_keyboard"
	FeedbackHideKeyboard  FeedbackKind = "hide_keyboard"
)

// MenuEntry is one selectable item of an on-screen menu.
type MenuEntry struct {
	Label     string     `json:"label"`
	Center    gaze.Point `json:"center"`
	Radius    float64    `json:"radius"`
	ElementID string     `json:"element_id,omitempty"`
}

// Feedback asks the GUI layer to draw something. Rendering is optional and
// never awaited.
type Feedback struct {
	Kind     FeedbackKind `json:"kind"`
	Pipeline string       `json:"pipeline,omitempty"`
	Point    gaze.Point   `json:"point"`
	Progress float64      `json:"progress,omitempty"`
	Factor   float64      `json:"factor,omitempty"`
	Origin   gaze.Point   `json:"origin"`
	Entries  []MenuEntry  `json:"entries,omitempty"`
	Text     string       `json:"text,omitempty"`
}

// FeedbackSink receives feedback requests.
type FeedbackSink interface {
	Show(fb Feedback)
}

// NopFeedback discards every request.
type NopFeedback struct{}

// Show implements FeedbackSink.
func (NopFeedback) Show(Feedback) {}
