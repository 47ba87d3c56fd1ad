package action

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

var errAlreadyEmitted = errors.New("command already emitted")

// Terminal reads its inputs from the data map, emits exactly one page
// command and finishes.
type Terminal struct {
	name    string
	sink    page.Sink
	build   func(data *actiondata.Map) (page.Command, error)
	emitted bool
}

func newTerminal(name string, sink page.Sink, build func(*actiondata.Map) (page.Command, error)) *Terminal {
	return &Terminal{name: name, sink: sink, build: build}
}

func (a *Terminal) Name() string { return a.name }

func (a *Terminal) Update(in Input) (State, error) {
	if a.emitted {
		return Failed, errAlreadyEmitted
	}
	cmd, err := a.build(in.Data)
	if err != nil {
		return Failed, err
	}
	if a.sink == nil {
		return Failed, fmt.Errorf("%s: no page sink", a.name)
	}
	a.emitted = true
	if err := a.sink.Emit(cmd); err != nil {
		return Failed, fmt.Errorf("emit %s: %w", cmd.Type, err)
	}
	return Finished, nil
}

// NewLeftMouseButtonClick clicks the point stored under from.
func NewLeftMouseButtonClick(sink page.Sink, from actiondata.Key[gaze.Point]) *Terminal {
	return newTerminal("left_mouse_button_click", sink, func(data *actiondata.Map) (page.Command, error) {
		p, err := actiondata.Get(data, from)
		if err != nil {
			return page.Command{}, err
		}
		id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
		return page.Command{Type: page.CommandClick, Point: p, ElementID: id}, nil
	})
}

// NewKeyboard presses key, or the key stored under KeyName when key is empty.
func NewKeyboard(sink page.Sink, key string) *Terminal {
	return newTerminal("keyboard", sink, func(data *actiondata.Map) (page.Command, error) {
		k := key
		if k == "" {
			var err error
			if k, err = actiondata.Get(data, actiondata.KeyName); err != nil {
				return page.Command{}, err
			}
		}
		return page.Command{Type: page.CommandKey, Key: k}, nil
	})
}

// NewTextInput types the text stored under Text into the target field.
func NewTextInput(sink page.Sink) *Terminal {
	return newTerminal("text_input", sink, func(data *actiondata.Map) (page.Command, error) {
		text, err := actiondata.Get(data, actiondata.Text)
		if err != nil {
			return page.Command{}, err
		}
		submit, _ := actiondata.Lookup(data, actiondata.Submit)
		id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
		return page.Command{Type: page.CommandTypeText, Text: text, Submit: submit, ElementID: id}, nil
	})
}

// NewTextSelection selects the text between the captured start and end.
func NewTextSelection(sink page.Sink) *Terminal {
	return newTerminal("text_selection", sink, func(data *actiondata.Map) (page.Command, error) {
		start, err := actiondata.Get(data, actiondata.SelectionStart)
		if err != nil {
			return page.Command{}, err
		}
		end, err := actiondata.Get(data, actiondata.SelectionEnd)
		if err != nil {
			return page.Command{}, err
		}
		return page.Command{Type: page.CommandSelectText, Point: start, End: end}, nil
	})
}

// NewSelectField picks the chosen option of the target select element.
func NewSelectField(sink page.Sink) *Terminal {
	return newTerminal("select_field", sink, func(data *actiondata.Map) (page.Command, error) {
		id, err := actiondata.Get(data, actiondata.TargetElementID)
		if err != nil {
			return page.Command{}, err
		}
		opt, err := actiondata.Get(data, actiondata.SelectedOption)
		if err != nil {
			return page.Command{}, err
		}
		return page.Command{Type: page.CommandSelectOption, ElementID: id, Option: opt}, nil
	})
}

// ScrollConfig sizes the scroll zones.
type ScrollConfig struct {
	// Band is the height of the top and bottom scroll zones as a fraction of
	// the viewport.
	Band float64
	// Step is the scroll distance per activation in px.
	Step float64
}

// NewMouseWheelScrolling scrolls by ScrollDelta when set, otherwise by one
// step up or down depending on which edge band the predicted gaze is in.
func NewMouseWheelScrolling(sink page.Sink, viewport func() page.Rect, cfg ScrollConfig) *Terminal {
	return newTerminal("mouse_wheel_scrolling", sink, func(data *actiondata.Map) (page.Command, error) {
		p, err := actiondata.Get(data, actiondata.PredictedCoordinate)
		if err != nil {
			return page.Command{}, err
		}
		if delta, ok := actiondata.Lookup(data, actiondata.ScrollDelta); ok {
			return page.Command{Type: page.CommandScroll, Point: p, DeltaY: delta}, nil
		}
		if viewport == nil {
			return page.Command{}, ErrNoTarget
		}
		delta := ScrollDirection(viewport(), p, cfg.Band) * cfg.Step
		if delta == 0 {
			return page.Command{}, fmt.Errorf("gaze outside scroll zones: %w", ErrNoTarget)
		}
		return page.Command{Type: page.CommandScroll, Point: p, DeltaY: delta}, nil
	})
}

// ScrollDirection returns -1 when p is in the top band of the viewport, 1 in
// the bottom band and 0 elsewhere.
func ScrollDirection(vp page.Rect, p gaze.Point, band float64) float64 {
	if vp.Height <= 0 || band <= 0 {
		return 0
	}
	edge := vp.Height * band
	switch {
	case p.Y < vp.Y+edge:
		return -1
	case p.Y > vp.Y+vp.Height-edge:
		return 1
	default:
		return 0
	}
}

// NewLinkNavigation navigates to the target URL.
func NewLinkNavigation(sink page.Sink) *Terminal {
	return newTerminal("link_navigation", sink, func(data *actiondata.Map) (page.Command, error) {
		url, err := actiondata.Get(data, actiondata.TargetURL)
		if err != nil {
			return page.Command{}, err
		}
		id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
		return page.Command{Type: page.CommandNavigate, URL: url, ElementID: id}, nil
	})
}

// NewReplyJSDialog answers the pending dialog.
func NewReplyJSDialog(sink page.Sink) *Terminal {
	return newTerminal("reply_js_dialog", sink, func(data *actiondata.Map) (page.Command, error) {
		accept, err := actiondata.Get(data, actiondata.DialogAccept)
		if err != nil {
			return page.Command{}, err
		}
		text, _ := actiondata.Lookup(data, actiondata.Text)
		id, _ := actiondata.Lookup(data, actiondata.TargetElementID)
		return page.Command{Type: page.CommandReplyDialog, Accept: accept, Text: text, ElementID: id}, nil
	})
}
