package filter

import "github.com/GriffinCanCode/gazeweb/internal/gaze"

// outlierGate rejects isolated samples that jump far away from the current
// gaze position. A run of confirm samples that agree with each other at the
// new location is treated as a saccade and accepted, restarting the window.
type outlierGate struct {
	distance float64
	confirm  int

	ref     gaze.Point
	hasRef  bool
	pending gaze.Point
	run     int
}

func newOutlierGate(distance float64, confirm int) outlierGate {
	if confirm < 1 {
		confirm = 1
	}
	return outlierGate{distance: distance, confirm: confirm}
}

// admit reports whether p enters the window and whether the window must be
// restarted before it does.
func (g *outlierGate) admit(p gaze.Point) (accept, restart bool) {
	if g.distance <= 0 || !g.hasRef {
		g.ref, g.hasRef, g.run = p, true, 0
		return true, false
	}

	if p.Distance(g.ref) <= g.distance {
		g.ref, g.run = p, 0
		return true, false
	}

	if g.run > 0 && p.Distance(g.pending) <= g.distance {
		g.run++
	} else {
		g.run = 1
	}
	g.pending = p

	if g.run >= g.confirm {
		g.ref, g.run = p, 0
		return true, true
	}
	return false, false
}

func (g *outlierGate) reset() {
	g.hasRef = false
	g.run = 0
}
