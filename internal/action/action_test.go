package action

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/page/pagetest"
)

const tick = 100 * time.Millisecond

var viewport = page.Rect{Width: 1000, Height: 800}

func testEnv(rec *pagetest.Recorder, elements ...page.Element) Env {
	return Env{
		Sink:     rec,
		Feedback: rec,
		Page:     &pagetest.Elements{Items: elements},
		Viewport: func() page.Rect { return viewport },
	}
}

func input(p gaze.FilteredPoint, data *actiondata.Map) Input {
	return Input{DT: tick, Gaze: p, Previous: p, Data: data}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "not_started", NotStarted.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, Finished.Done())
	assert.False(t, Active.Done())
}

func TestDelay(t *testing.T) {
	t.Run("counts fixated time", func(t *testing.T) {
		rec := &pagetest.Recorder{}
		d := NewDelay(testEnv(rec), 300*time.Millisecond, true)
		data := actiondata.New()

		st, err := d.Update(input(pagetest.Moving(10, 10), data))
		require.NoError(t, err)
		assert.Equal(t, Active, st, "waits for fixation to begin")

		for i := 0; i < 2; i++ {
			st, err = d.Update(input(pagetest.Fixated(10, 10), data))
			require.NoError(t, err)
			assert.Equal(t, Active, st)
		}
		st, err = d.Update(input(pagetest.Fixated(10, 10), data))
		require.NoError(t, err)
		assert.Equal(t, Finished, st)
		assert.Equal(t, 400*time.Millisecond, d.Elapsed(), "waiting for the fixation consumed time too")

		progress := rec.FeedbackOf(page.FeedbackDwellProgress)
		require.Len(t, progress, 3)
		assert.InDelta(t, 1.0, progress[2].Progress, 1e-9)
	})

	t.Run("fails when fixation is lost", func(t *testing.T) {
		d := NewDelay(Env{}, time.Second, true)
		data := actiondata.New()

		_, err := d.Update(input(pagetest.Fixated(10, 10), data))
		require.NoError(t, err)
		st, err := d.Update(input(pagetest.Moving(50, 10), data))
		assert.Equal(t, Failed, st)
		assert.ErrorIs(t, err, ErrFixationLost)
	})

	t.Run("fails on dropout", func(t *testing.T) {
		d := NewDelay(Env{}, time.Second, true)
		st, err := d.Update(input(gaze.FilteredPoint{}, actiondata.New()))
		assert.Equal(t, Failed, st)
		assert.ErrorIs(t, err, filter.ErrTrackerDropout)
	})

	t.Run("restarts on loss until the timeout", func(t *testing.T) {
		d := NewDelay(Env{}, 200*time.Millisecond, true, RestartOnLoss(500*time.Millisecond))
		data := actiondata.New()

		st, err := d.Update(input(pagetest.Fixated(10, 10), data))
		require.NoError(t, err)
		assert.Equal(t, Active, st)
		st, err = d.Update(input(pagetest.Moving(300, 10), data))
		require.NoError(t, err)
		assert.Equal(t, Active, st, "saccade restarts the dwell")
		st, _ = d.Update(input(pagetest.Fixated(300, 10), data))
		assert.Equal(t, Active, st)
		st, _ = d.Update(input(pagetest.Fixated(300, 10), data))
		assert.Equal(t, Finished, st)

		late := NewDelay(Env{}, time.Second, true, RestartOnLoss(300*time.Millisecond))
		for i := 0; i < 2; i++ {
			st, err = late.Update(input(pagetest.Moving(0, 0), data))
			require.NoError(t, err)
		}
		st, err = late.Update(input(pagetest.Moving(0, 0), data))
		assert.Equal(t, Failed, st)
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("zero duration finishes without consuming time", func(t *testing.T) {
		d := NewDelay(Env{}, 0, true)
		st, err := d.Update(input(pagetest.Moving(0, 0), actiondata.New()))
		require.NoError(t, err)
		assert.Equal(t, Finished, st)
		assert.Zero(t, Elapsed(d))
	})

	t.Run("without fixation counts any time", func(t *testing.T) {
		d := NewDelay(Env{}, 200*time.Millisecond, false)
		data := actiondata.New()
		st, _ := d.Update(input(pagetest.Moving(0, 0), data))
		assert.Equal(t, Active, st)
		st, _ = d.Update(input(pagetest.Moving(90, 0), data))
		assert.Equal(t, Finished, st)
	})
}

func TestFutureCoordinate(t *testing.T) {
	c, err := drift.New(1)
	require.NoError(t, err)
	data := actiondata.New()
	data2 := actiondata.New()
	actiondata.Set(data2, actiondata.CalibrationTarget, gaze.Point{X: 105, Y: 95})
	st, err := NewDriftCorrection(c).Update(input(pagetest.Fixated(100, 100), data2))
	require.NoError(t, err)
	require.Equal(t, Finished, st)

	a := NewFutureCoordinate(Env{Drift: c}, 100*time.Millisecond)
	st, err = a.Update(Input{
		DT:       50 * time.Millisecond,
		Gaze:     pagetest.Moving(110, 100),
		Previous: pagetest.Moving(100, 100),
		Data:     data,
	})
	require.NoError(t, err)
	assert.Equal(t, Finished, st)

	raw, err := actiondata.Get(data, actiondata.RawCoordinate)
	require.NoError(t, err)
	assert.Equal(t, gaze.Point{X: 110, Y: 100}, raw)

	corrected, err := actiondata.Get(data, actiondata.CorrectedCoordinate)
	require.NoError(t, err)
	assert.Equal(t, gaze.Point{X: 115, Y: 95}, corrected)

	predicted, err := actiondata.Get(data, actiondata.PredictedCoordinate)
	require.NoError(t, err)
	assert.InDelta(t, 135, predicted.X, 1e-6)
	assert.InDelta(t, 95, predicted.Y, 1e-6)
}

func TestFutureCoordinateWithoutHistory(t *testing.T) {
	data := actiondata.New()
	in := input(pagetest.Fixated(10, 20), data)
	in.Previous = gaze.FilteredPoint{}

	_, err := NewFutureCoordinate(Env{}, time.Second).Update(in)
	require.NoError(t, err)
	predicted, _ := actiondata.Lookup(data, actiondata.PredictedCoordinate)
	assert.Equal(t, gaze.Point{X: 10, Y: 20}, predicted)
}

func TestDriftCorrection(t *testing.T) {
	c, err := drift.New(0.5)
	require.NoError(t, err)
	a := NewDriftCorrection(c)

	_, err = a.Update(input(pagetest.Fixated(100, 100), actiondata.New()))
	assert.ErrorIs(t, err, actiondata.ErrStaleData, "needs a calibration target")

	data := actiondata.New()
	actiondata.Set(data, actiondata.CalibrationTarget, gaze.Point{X: 110, Y: 90})
	st, err := a.Update(input(pagetest.Fixated(100, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	assert.Equal(t, drift.State{OffsetX: 5, OffsetY: -5, Samples: 1}, c.Snapshot())
}

func TestDriftCorrectionRejectsReentrantUpdate(t *testing.T) {
	c, err := drift.New(0.5)
	require.NoError(t, err)
	data := actiondata.New()
	actiondata.Set(data, actiondata.CalibrationTarget, gaze.Point{X: 110, Y: 90})

	var st State
	require.NoError(t, c.Exclusive(func() {
		st, err = NewDriftCorrection(c).Update(input(pagetest.Fixated(100, 100), data))
	}))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, drift.ErrReentrantUpdate)
	assert.Zero(t, c.Snapshot().Samples)
}

func TestDynamicDriftCorrection(t *testing.T) {
	c, err := drift.New(0.5)
	require.NoError(t, err)
	data := actiondata.New()
	actiondata.Set(data, actiondata.CalibrationTarget, gaze.Point{X: 100, Y: 100})

	a := NewDynamicDriftCorrection(c, 300*time.Millisecond)
	for i := 0; i < 2; i++ {
		st, err := a.Update(input(pagetest.Fixated(96, 100), data))
		require.NoError(t, err)
		assert.Equal(t, Active, st)
	}
	st, err := a.Update(input(pagetest.Fixated(96, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	assert.Equal(t, 3, c.Snapshot().Samples)
	assert.InDelta(t, 3.5, c.Snapshot().OffsetX, 1e-9)

	lost := NewDynamicDriftCorrection(c, time.Second)
	st, err = lost.Update(input(pagetest.Moving(96, 100), data))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrFixationLost)
}

func TestMagnifierRoundTrip(t *testing.T) {
	m, err := NewMagnifier(viewport, gaze.Point{X: 500, Y: 400}, 2)
	require.NoError(t, err)
	assert.Equal(t, gaze.Point{X: 250, Y: 200}, m.Origin)

	for _, p := range []gaze.Point{{X: 300, Y: 250}, {X: 251.3, Y: 599.9}, {X: 740, Y: 201}} {
		z := m.ToZoomed(p)
		back := m.ToPage(z)
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
	assert.Equal(t, gaze.Point{X: 100, Y: 100}, m.ToZoomed(gaze.Point{X: 300, Y: 250}))

	_, err = NewMagnifier(viewport, gaze.Point{}, 0.5)
	assert.Error(t, err)
}

func TestMagnifierClampsToViewport(t *testing.T) {
	m, err := NewMagnifier(viewport, gaze.Point{X: 10, Y: 790}, 4)
	require.NoError(t, err)
	assert.Equal(t, gaze.Point{X: 0, Y: 600}, m.Origin)
}

func TestMagnificationAndZoom(t *testing.T) {
	rec := &pagetest.Recorder{}
	env := testEnv(rec)
	data := actiondata.New()

	mag := NewMagnificationCoordinate(env, 2)
	st, err := mag.Update(input(pagetest.Fixated(500, 400), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	active, _ := actiondata.Lookup(data, actiondata.MagnifierActive)
	assert.True(t, active)
	require.Len(t, rec.FeedbackOf(page.FeedbackShowMagnifier), 1)

	st, err = NewZoomCoordinate(env).Update(input(pagetest.Fixated(100, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)

	p, err := actiondata.Get(data, actiondata.PageCoordinate)
	require.NoError(t, err)
	assert.InDelta(t, 300, p.X, 1e-9)
	assert.InDelta(t, 250, p.Y, 1e-9)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMagnifier), 1)

	// The magnifier is already closed, rollback has nothing to undo.
	mag.Rollback(data)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMagnifier), 1)
}

func TestMagnificationRollback(t *testing.T) {
	rec := &pagetest.Recorder{}
	data := actiondata.New()
	mag := NewMagnificationCoordinate(testEnv(rec), 3)
	_, err := mag.Update(input(pagetest.Fixated(500, 400), data))
	require.NoError(t, err)

	mag.Rollback(data)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMagnifier), 1)
	active, _ := actiondata.Lookup(data, actiondata.MagnifierActive)
	assert.False(t, active)
}

func TestZoomWithoutMagnifier(t *testing.T) {
	st, err := NewZoomCoordinate(Env{}).Update(input(pagetest.Fixated(1, 1), actiondata.New()))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, actiondata.ErrStaleData)
}

func TestCaptureCoordinate(t *testing.T) {
	data := actiondata.New()
	actiondata.Set(data, actiondata.SelectionStart, gaze.Point{X: 100, Y: 100})

	a := NewCaptureCoordinate(Env{}, actiondata.SelectionEnd,
		AwayFrom(actiondata.SelectionStart, 20), CaptureTimeout(time.Second))
	assert.Equal(t, "capture_SelectionEnd", a.Name())

	st, err := a.Update(input(pagetest.Fixated(105, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Active, st, "too close to the start")

	st, err = a.Update(input(pagetest.Moving(200, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Active, st, "not fixated")

	st, err = a.Update(input(pagetest.Fixated(200, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	end, _ := actiondata.Lookup(data, actiondata.SelectionEnd)
	assert.Equal(t, gaze.Point{X: 200, Y: 100}, end)
}

func TestCaptureCoordinateImmediateConsumesNoTime(t *testing.T) {
	a := NewCaptureCoordinate(Env{}, actiondata.SelectionStart)
	st, err := a.Update(input(pagetest.Fixated(1, 2), actiondata.New()))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	assert.Zero(t, a.Elapsed())
}

func TestCaptureCoordinateTimeout(t *testing.T) {
	a := NewCaptureCoordinate(Env{}, actiondata.SelectionStart, CaptureTimeout(200*time.Millisecond))
	data := actiondata.New()
	st, _ := a.Update(input(pagetest.Moving(0, 0), data))
	assert.Equal(t, Active, st)
	st, err := a.Update(input(pagetest.Moving(0, 0), data))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAwaitText(t *testing.T) {
	rec := &pagetest.Recorder{}
	a := NewAwaitText(testEnv(rec), time.Second)
	data := actiondata.New()

	st, err := a.Update(input(pagetest.Moving(0, 0), data))
	require.NoError(t, err)
	assert.Equal(t, Active, st)
	require.Len(t, rec.FeedbackOf(page.FeedbackShowKeyboard), 1)

	in := input(pagetest.Moving(0, 0), data)
	in.Typed = &Typed{Text: "hello", Submit: true}
	st, err = a.Update(in)
	require.NoError(t, err)
	assert.Equal(t, Finished, st)

	text, _ := actiondata.Lookup(data, actiondata.Text)
	submit, _ := actiondata.Lookup(data, actiondata.Submit)
	assert.Equal(t, "hello", text)
	assert.True(t, submit)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideKeyboard), 1)

	a.Rollback(data)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideKeyboard), 1, "already hidden")
}

func TestAwaitTextTimeoutAndRollback(t *testing.T) {
	rec := &pagetest.Recorder{}
	data := actiondata.New()

	a := NewAwaitText(testEnv(rec), 2*tick)
	_, _ = a.Update(input(pagetest.Moving(0, 0), data))
	st, err := a.Update(input(pagetest.Moving(0, 0), data))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrTimeout)

	b := NewAwaitText(testEnv(rec), 0)
	_, _ = b.Update(input(pagetest.Moving(0, 0), data))
	b.Rollback(data)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideKeyboard), 2)
}

func TestPivotMenuSingleCandidate(t *testing.T) {
	rec := &pagetest.Recorder{}
	link := page.Element{ID: "l1", Kind: page.KindLink, Href: "https://example.org/a",
		Bounds: page.Rect{X: 90, Y: 90, Width: 40, Height: 20}}
	a := NewPivotMenu(testEnv(rec, link), DefaultMenuConfig())
	data := actiondata.New()

	st, err := a.Update(input(pagetest.Fixated(100, 100), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)
	assert.Zero(t, a.Elapsed())
	assert.Empty(t, rec.FeedbackOf(page.FeedbackShowMenu))

	id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
	url, _ := actiondata.Lookup(data, actiondata.TargetURL)
	target, _ := actiondata.Lookup(data, actiondata.TargetCoordinate)
	assert.Equal(t, "l1", id)
	assert.Equal(t, "https://example.org/a", url)
	assert.Equal(t, gaze.Point{X: 110, Y: 100}, target)
}

func TestPivotMenuNoCandidate(t *testing.T) {
	a := NewPivotMenu(testEnv(&pagetest.Recorder{}), DefaultMenuConfig())
	st, err := a.Update(input(pagetest.Fixated(100, 100), actiondata.New()))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func ambiguous() []page.Element {
	return []page.Element{
		{ID: "a", Kind: page.KindButton, Label: "A", Bounds: page.Rect{X: 180, Y: 190, Width: 15, Height: 15}},
		{ID: "b", Kind: page.KindButton, Label: "B", Bounds: page.Rect{X: 205, Y: 190, Width: 15, Height: 15}},
	}
}

func TestPivotMenuSelection(t *testing.T) {
	rec := &pagetest.Recorder{}
	cfg := DefaultMenuConfig()
	a := NewPivotMenu(testEnv(rec, ambiguous()...), cfg)
	data := actiondata.New()

	st, err := a.Update(input(pagetest.Fixated(200, 200), data))
	require.NoError(t, err)
	assert.Equal(t, Active, st)
	shown := rec.FeedbackOf(page.FeedbackShowMenu)
	require.Len(t, shown, 1)
	require.Len(t, shown[0].Entries, 2)
	assert.Equal(t, "A", shown[0].Entries[0].Label)
	assert.InDelta(t, 60, shown[0].Entries[0].Center.Y, 1e-9)
	assert.InDelta(t, 340, shown[0].Entries[1].Center.Y, 1e-9)

	// Resting at the center selects nothing.
	st, err = a.Update(input(pagetest.Fixated(200, 200), data))
	require.NoError(t, err)
	assert.Equal(t, Active, st)

	// Six 100ms frames on the lower entry reach the 600ms dwell.
	for i := 0; i < 5; i++ {
		st, err = a.Update(input(pagetest.Fixated(200, 335), data))
		require.NoError(t, err)
		require.Equal(t, Active, st)
	}
	st, err = a.Update(input(pagetest.Fixated(200, 335), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)

	id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
	idx, _ := actiondata.Lookup(data, actiondata.ChosenIndex)
	assert.Equal(t, "b", id)
	assert.Equal(t, 1, idx)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMenu), 1)
}

func TestPivotMenuTimeout(t *testing.T) {
	rec := &pagetest.Recorder{}
	cfg := DefaultMenuConfig()
	cfg.Timeout = 3 * time.Second
	a := NewPivotMenu(testEnv(rec, ambiguous()...), cfg)
	data := actiondata.New()

	st, err := a.Update(input(pagetest.Fixated(200, 200), data))
	require.NoError(t, err)
	require.Equal(t, Active, st)

	var frames int
	for st == Active {
		st, err = a.Update(input(pagetest.Moving(600, 600), data))
		frames++
		require.Less(t, frames, 100)
	}
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, ErrAmbiguousTarget)
	assert.Equal(t, 30, frames)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMenu), 1)

	a.Rollback(data)
	assert.Len(t, rec.FeedbackOf(page.FeedbackHideMenu), 1)
}

func TestHintLayout(t *testing.T) {
	rec := &pagetest.Recorder{}
	cfg := DefaultMenuConfig()
	a := NewHint(testEnv(rec, ambiguous()...), cfg)
	assert.Equal(t, "hint", a.Name())

	st, err := a.Update(input(pagetest.Fixated(200, 200), actiondata.New()))
	require.NoError(t, err)
	assert.Equal(t, Active, st)

	entries := rec.FeedbackOf(page.FeedbackShowMenu)[0].Entries
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].Center.X, entries[1].Center.X)
	assert.InDelta(t, 2*cfg.EntryRadius, entries[1].Center.Y-entries[0].Center.Y, 1e-9)
	assert.InDelta(t, 200, (entries[0].Center.Y+entries[1].Center.Y)/2, 1e-9)
}

func TestSelectFieldOptions(t *testing.T) {
	rec := &pagetest.Recorder{}
	sel := page.Element{ID: "s", Kind: page.KindSelect, Label: "Size",
		Bounds: page.Rect{X: 100, Y: 100, Width: 200, Height: 30}, Options: []string{"S", "M", "L"}}
	a := NewSelectFieldOptions(testEnv(rec, sel), DefaultMenuConfig())
	data := actiondata.New()

	_, err := a.Update(input(pagetest.Fixated(0, 0), data))
	assert.ErrorIs(t, err, actiondata.ErrStaleData)

	a = NewSelectFieldOptions(testEnv(rec, sel), DefaultMenuConfig())
	actiondata.Set(data, actiondata.TargetElementID, "s")
	st, err := a.Update(input(pagetest.Fixated(0, 0), data))
	require.NoError(t, err)
	require.Equal(t, Active, st)

	for st == Active {
		st, err = a.Update(input(pagetest.Fixated(155, 295), data))
		require.NoError(t, err)
	}
	assert.Equal(t, Finished, st)
	opt, _ := actiondata.Lookup(data, actiondata.SelectedOption)
	assert.Equal(t, 1, opt)
}

func TestJSDialog(t *testing.T) {
	tests := []struct {
		name       string
		kind       page.DialogKind
		at         gaze.Point
		wantAccept bool
		entries    int
	}{
		{name: "alert accepts", kind: page.DialogAlert, at: gaze.Point{X: 500, Y: 400}, wantAccept: true, entries: 1},
		{name: "confirm ok", kind: page.DialogConfirm, at: gaze.Point{X: 445, Y: 400}, wantAccept: true, entries: 2},
		{name: "confirm cancel", kind: page.DialogConfirm, at: gaze.Point{X: 555, Y: 400}, wantAccept: false, entries: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &pagetest.Recorder{}
			data := actiondata.New()
			actiondata.Set(data, actiondata.DialogKind, string(tt.kind))

			a := NewJSDialog(testEnv(rec), DefaultMenuConfig())
			st, err := a.Update(input(pagetest.Moving(0, 0), data))
			require.NoError(t, err)
			require.Len(t, rec.FeedbackOf(page.FeedbackShowMenu)[0].Entries, tt.entries)

			for st == Active {
				st, err = a.Update(input(pagetest.Fixated(tt.at.X, tt.at.Y), data))
				require.NoError(t, err)
			}
			accept, err := actiondata.Get(data, actiondata.DialogAccept)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccept, accept)
		})
	}
}

func TestTerminalEmitsExactlyOnce(t *testing.T) {
	rec := &pagetest.Recorder{}
	data := actiondata.New()
	actiondata.Set(data, actiondata.PredictedCoordinate, gaze.Point{X: 3, Y: 4})

	a := NewLeftMouseButtonClick(rec, actiondata.PredictedCoordinate)
	st, err := a.Update(input(pagetest.Fixated(0, 0), data))
	require.NoError(t, err)
	assert.Equal(t, Finished, st)

	st, err = a.Update(input(pagetest.Fixated(0, 0), data))
	assert.Equal(t, Failed, st)
	assert.Error(t, err)

	clicks := rec.CommandsOf(page.CommandClick)
	require.Len(t, clicks, 1)
	assert.Equal(t, gaze.Point{X: 3, Y: 4}, clicks[0].Point)
}

func TestTerminalStaleInput(t *testing.T) {
	rec := &pagetest.Recorder{}
	st, err := NewLeftMouseButtonClick(rec, actiondata.PageCoordinate).Update(input(pagetest.Fixated(0, 0), actiondata.New()))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, actiondata.ErrStaleData)
	assert.Empty(t, rec.Commands())
}

func TestTerminalSinkError(t *testing.T) {
	boom := errors.New("socket closed")
	rec := &pagetest.Recorder{Err: boom}
	st, err := NewKeyboard(rec, "Escape").Update(input(pagetest.Fixated(0, 0), actiondata.New()))
	assert.Equal(t, Failed, st)
	assert.ErrorIs(t, err, boom)
}

func TestTerminalCommands(t *testing.T) {
	data := actiondata.New()
	actiondata.Set(data, actiondata.Text, "hi")
	actiondata.Set(data, actiondata.Submit, true)
	actiondata.Set(data, actiondata.TargetElementID, "f")
	actiondata.Set(data, actiondata.SelectionStart, gaze.Point{X: 1, Y: 1})
	actiondata.Set(data, actiondata.SelectionEnd, gaze.Point{X: 9, Y: 1})
	actiondata.Set(data, actiondata.SelectedOption, 2)
	actiondata.Set(data, actiondata.TargetURL, "https://example.org")
	actiondata.Set(data, actiondata.DialogAccept, false)
	actiondata.Set(data, actiondata.KeyName, "Enter")

	tests := []struct {
		build func(page.Sink) *Terminal
		want  page.Command
	}{
		{
			build: NewTextInput,
			want:  page.Command{Type: page.CommandTypeText, Text: "hi", Submit: true, ElementID: "f"},
		},
		{
			build: NewTextSelection,
			want:  page.Command{Type: page.CommandSelectText, Point: gaze.Point{X: 1, Y: 1}, End: gaze.Point{X: 9, Y: 1}},
		},
		{
			build: NewSelectField,
			want:  page.Command{Type: page.CommandSelectOption, ElementID: "f", Option: 2},
		},
		{
			build: NewLinkNavigation,
			want:  page.Command{Type: page.CommandNavigate, URL: "https://example.org", ElementID: "f"},
		},
		{
			build: NewReplyJSDialog,
			want:  page.Command{Type: page.CommandReplyDialog, Accept: false, Text: "hi", ElementID: "f"},
		},
		{
			build: func(s page.Sink) *Terminal { return NewKeyboard(s, "") },
			want:  page.Command{Type: page.CommandKey, Key: "Enter"},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.want.Type), func(t *testing.T) {
			rec := &pagetest.Recorder{}
			st, err := tt.build(rec).Update(input(pagetest.Fixated(0, 0), data))
			require.NoError(t, err)
			assert.Equal(t, Finished, st)
			assert.Equal(t, []page.Command{tt.want}, rec.Commands())
		})
	}
}

func TestMouseWheelScrolling(t *testing.T) {
	cfg := ScrollConfig{Band: 0.1, Step: 120}
	vp := func() page.Rect { return viewport }

	tests := []struct {
		name    string
		at      gaze.Point
		want    float64
		wantErr error
	}{
		{name: "top band", at: gaze.Point{X: 500, Y: 20}, want: -120},
		{name: "bottom band", at: gaze.Point{X: 500, Y: 780}, want: 120},
		{name: "middle", at: gaze.Point{X: 500, Y: 400}, wantErr: ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &pagetest.Recorder{}
			data := actiondata.New()
			actiondata.Set(data, actiondata.PredictedCoordinate, tt.at)

			st, err := NewMouseWheelScrolling(rec, vp, cfg).Update(input(pagetest.Fixated(0, 0), data))
			if tt.wantErr != nil {
				assert.Equal(t, Failed, st)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, rec.Commands())
				return
			}
			require.NoError(t, err)
			scrolls := rec.CommandsOf(page.CommandScroll)
			require.Len(t, scrolls, 1)
			assert.Equal(t, tt.want, scrolls[0].DeltaY)
		})
	}
}

func TestMouseWheelScrollingExplicitDelta(t *testing.T) {
	rec := &pagetest.Recorder{}
	data := actiondata.New()
	actiondata.Set(data, actiondata.PredictedCoordinate, gaze.Point{X: 500, Y: 400})
	actiondata.Set(data, actiondata.ScrollDelta, -300.0)

	_, err := NewMouseWheelScrolling(rec, nil, ScrollConfig{}).Update(input(pagetest.Fixated(0, 0), data))
	require.NoError(t, err)
	assert.Equal(t, -300.0, rec.Commands()[0].DeltaY)
}
