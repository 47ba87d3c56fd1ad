package action

import (
	"fmt"
	"math"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Magnifier maps between page coordinates and the magnified view drawn over
// the viewport. The page region starting at Origin is scaled by Factor and
// drawn with its top-left corner at Screen.
type Magnifier struct {
	Origin gaze.Point
	Screen gaze.Point
	Factor float64
}

// NewMagnifier centers a magnified view of factor on center. The source
// region is clamped to stay inside the viewport.
func NewMagnifier(viewport page.Rect, center gaze.Point, factor float64) (Magnifier, error) {
	if factor < 1 {
		return Magnifier{}, fmt.Errorf("zoom factor must be >= 1, got %v", factor)
	}
	w := viewport.Width / factor
	h := viewport.Height / factor
	origin := gaze.Point{
		X: clamp(center.X-w/2, viewport.X, viewport.X+viewport.Width-w),
		Y: clamp(center.Y-h/2, viewport.Y, viewport.Y+viewport.Height-h),
	}
	return Magnifier{
		Origin: origin,
		Screen: gaze.Point{X: viewport.X, Y: viewport.Y},
		Factor: factor,
	}, nil
}

// ToZoomed maps a page point to where it is drawn in the magnified view.
func (m Magnifier) ToZoomed(p gaze.Point) gaze.Point {
	return m.Screen.Add(p.Sub(m.Origin).Scale(m.Factor))
}

// ToPage maps a point of the magnified view back to the page.
func (m Magnifier) ToPage(z gaze.Point) gaze.Point {
	return m.Origin.Add(z.Sub(m.Screen).Scale(1 / m.Factor))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// MagnificationCoordinate opens the magnifier around the corrected gaze.
type MagnificationCoordinate struct {
	env    Env
	factor float64
}

// NewMagnificationCoordinate creates the magnifier opening action.
func NewMagnificationCoordinate(env Env, factor float64) *MagnificationCoordinate {
	return &MagnificationCoordinate{env: env, factor: factor}
}

func (a *MagnificationCoordinate) Name() string { return "magnification_coordinate" }

func (a *MagnificationCoordinate) Update(in Input) (State, error) {
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	center := a.env.correct(in.Gaze.Point())
	m, err := NewMagnifier(a.env.viewport(), center, a.factor)
	if err != nil {
		return Failed, err
	}

	actiondata.Set(in.Data, actiondata.CorrectedCoordinate, center)
	actiondata.Set(in.Data, actiondata.MagnifierOrigin, m.Origin)
	actiondata.Set(in.Data, actiondata.MagnifierScreen, m.Screen)
	actiondata.Set(in.Data, actiondata.ZoomFactor, m.Factor)
	actiondata.Set(in.Data, actiondata.MagnifierActive, true)
	a.env.feedback().Show(page.Feedback{
		Kind:   page.FeedbackShowMagnifier,
		Point:  center,
		Origin: m.Origin,
		Factor: m.Factor,
	})
	return Finished, nil
}

// Rollback closes the magnifier if it is still open.
func (a *MagnificationCoordinate) Rollback(data *actiondata.Map) {
	if active, _ := actiondata.Lookup(data, actiondata.MagnifierActive); active {
		actiondata.Set(data, actiondata.MagnifierActive, false)
		a.env.feedback().Show(page.Feedback{Kind: page.FeedbackHideMagnifier})
	}
}

// ZoomCoordinate maps the fixated point in the magnified view back to page
// coordinates and closes the magnifier.
type ZoomCoordinate struct {
	env Env
}

// NewZoomCoordinate creates the inverse mapping action.
func NewZoomCoordinate(env Env) *ZoomCoordinate {
	return &ZoomCoordinate{env: env}
}

func (a *ZoomCoordinate) Name() string { return "zoom_coordinate" }

func (a *ZoomCoordinate) Update(in Input) (State, error) {
	if !in.Gaze.Valid {
		return Failed, filter.ErrTrackerDropout
	}
	m, err := magnifierFrom(in.Data)
	if err != nil {
		return Failed, err
	}
	zoomed := a.env.correct(in.Gaze.Point())
	actiondata.Set(in.Data, actiondata.ZoomedCoordinate, zoomed)
	actiondata.Set(in.Data, actiondata.PageCoordinate, m.ToPage(zoomed))
	actiondata.Set(in.Data, actiondata.MagnifierActive, false)
	a.env.feedback().Show(page.Feedback{Kind: page.FeedbackHideMagnifier})
	return Finished, nil
}

func magnifierFrom(data *actiondata.Map) (Magnifier, error) {
	origin, err := actiondata.Get(data, actiondata.MagnifierOrigin)
	if err != nil {
		return Magnifier{}, err
	}
	factor, err := actiondata.Get(data, actiondata.ZoomFactor)
	if err != nil {
		return Magnifier{}, err
	}
	screen, _ := actiondata.Lookup(data, actiondata.MagnifierScreen)
	return Magnifier{Origin: origin, Screen: screen, Factor: factor}, nil
}
