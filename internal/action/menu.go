package action

import (
	"math"
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// MenuConfig sizes an on-screen menu and its selection dwell.
type MenuConfig struct {
	// Radius of the element query around the gaze when disambiguating.
	Radius float64
	// MenuRadius is the distance of radial entries from the gaze point.
	MenuRadius float64
	// EntryRadius is the hit radius of one entry.
	EntryRadius float64
	// Dwell is how long a fixation must rest on an entry to select it.
	Dwell time.Duration
	// Timeout fails the menu when nothing was selected.
	Timeout time.Duration
}

// DefaultMenuConfig returns the menu settings used when none are configured.
func DefaultMenuConfig() MenuConfig {
	return MenuConfig{
		Radius:      40,
		MenuRadius:  140,
		EntryRadius: 55,
		Dwell:       600 * time.Millisecond,
		Timeout:     3 * time.Second,
	}
}

// chooser runs a shown menu until an entry is selected by fixation or the
// timeout passes.
type chooser struct {
	clock
	env      Env
	cfg      MenuConfig
	entries  []page.MenuEntry
	timeout  error
	shown    bool
	focus    int
	focusFor time.Duration
}

func newChooser(env Env, cfg MenuConfig, timeout error) chooser {
	return chooser{env: env, cfg: cfg, timeout: timeout, focus: -1}
}

func (c *chooser) show(entries []page.MenuEntry, text string) {
	c.entries = entries
	c.shown = true
	c.env.feedback().Show(page.Feedback{Kind: page.FeedbackShowMenu, Entries: entries, Text: text})
}

func (c *chooser) hide() {
	if c.shown {
		c.shown = false
		c.env.feedback().Show(page.Feedback{Kind: page.FeedbackHideMenu})
	}
}

// step advances the menu by one frame and returns the chosen entry index
// once the state is Finished.
func (c *chooser) step(in Input) (int, State, error) {
	if !in.Gaze.Valid {
		return -1, Failed, filter.ErrTrackerDropout
	}

	hit := -1
	if in.Gaze.Fixated {
		p := c.env.correct(in.Gaze.Point())
		for i, e := range c.entries {
			if p.Distance(e.Center) <= e.Radius {
				hit = i
				break
			}
		}
	}
	if hit != c.focus {
		c.focus = hit
		c.focusFor = 0
	}
	if hit >= 0 {
		c.focusFor += in.DT
		if c.focusFor >= c.cfg.Dwell {
			c.hide()
			return hit, Finished, nil
		}
	}

	if c.tick(in.DT) >= c.cfg.Timeout {
		c.hide()
		return -1, Failed, c.timeout
	}
	return -1, Active, nil
}

// radial places n entries evenly on a circle, the first one on top.
func radial(c gaze.Point, n int, cfg MenuConfig) []page.MenuEntry {
	entries := make([]page.MenuEntry, n)
	for i := range entries {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		entries[i].Center.X = c.X + cfg.MenuRadius*math.Cos(angle)
		entries[i].Center.Y = c.Y + cfg.MenuRadius*math.Sin(angle)
		entries[i].Radius = cfg.EntryRadius
	}
	return entries
}

// column stacks n entries vertically starting at the given point, each entry
// 2*EntryRadius tall.
func column(left, top float64, n int, cfg MenuConfig) []page.MenuEntry {
	entries := make([]page.MenuEntry, n)
	for i := range entries {
		entries[i].Center.X = left + cfg.EntryRadius
		entries[i].Center.Y = top + cfg.EntryRadius*float64(2*i+1)
		entries[i].Radius = cfg.EntryRadius
	}
	return entries
}
