package action

import (
	"time"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// AwaitText shows the on-screen keyboard and waits for the keyboard
// collaborator to submit text. The text and submit flag are written to the
// data map.
type AwaitText struct {
	clock
	env     Env
	timeout time.Duration
	shown   bool
}

// NewAwaitText creates the text wait. A zero timeout waits forever.
func NewAwaitText(env Env, timeout time.Duration) *AwaitText {
	return &AwaitText{env: env, timeout: timeout}
}

func (a *AwaitText) Name() string { return "await_text" }

func (a *AwaitText) Update(in Input) (State, error) {
	if !a.shown {
		a.shown = true
		prefill, _ := actiondata.Lookup(in.Data, actiondata.Text)
		a.env.feedback().Show(page.Feedback{Kind: page.FeedbackShowKeyboard, Text: prefill})
	}
	if in.Typed != nil {
		actiondata.Set(in.Data, actiondata.Text, in.Typed.Text)
		actiondata.Set(in.Data, actiondata.Submit, in.Typed.Submit)
		a.hide()
		return Finished, nil
	}
	if elapsed := a.tick(in.DT); a.timeout > 0 && elapsed >= a.timeout {
		a.hide()
		return Failed, ErrTimeout
	}
	return Active, nil
}

// Rollback hides the keyboard if it is still shown.
func (a *AwaitText) Rollback(*actiondata.Map) { a.hide() }

func (a *AwaitText) hide() {
	if a.shown {
		a.shown = false
		a.env.feedback().Show(page.Feedback{Kind: page.FeedbackHideKeyboard})
	}
}
