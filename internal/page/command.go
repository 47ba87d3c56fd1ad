package page

import (
	"fmt"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// CommandType names a page interaction.
type CommandType string

const (
	CommandClick        CommandType = "click"
	CommandTypeText     CommandType = "type_text"
	CommandKey          CommandType = "key"
	CommandScroll       CommandType = "scroll"
	CommandSelectOption CommandType = "select_option"
	CommandSelectText   CommandType = "select_text"
	CommandNavigate     CommandType = "navigate"
	CommandReplyDialog  CommandType = "reply_dialog"
)

// Command is a discrete, fire-once interaction sent to the page layer.
type Command struct {
	Type      CommandType `json:"type"`
	Point     gaze.Point  `json:"point"`
	End       gaze.Point  `json:"end"`
	ElementID string      `json:"element_id,omitempty"`
	Text      string      `json:"text,omitempty"`
	Key       string      `json:"key,omitempty"`
	DeltaX    float64     `json:"delta_x,omitempty"`
	DeltaY    float64     `json:"delta_y,omitempty"`
	Option    int         `json:"option,omitempty"`
	Accept    bool        `json:"accept,omitempty"`
	URL       string      `json:"url,omitempty"`
	Submit    bool        `json:"submit,omitempty"`
}

// String formats the command for logs.
func (c Command) String() string {
	switch c.Type {
	case CommandClick:
		return fmt.Sprintf("click(%.0f,%.0f)", c.Point.X, c.Point.Y)
	case CommandTypeText:
		return fmt.Sprintf("type_text(%d chars)", len(c.Text))
	case CommandKey:
		return fmt.Sprintf("key(%s)", c.Key)
	case CommandScroll:
		return fmt.Sprintf("scroll(%.0f,%.0f)", c.DeltaX, c.DeltaY)
	case CommandSelectOption:
		return fmt.Sprintf("select_option(%s,%d)", c.ElementID, c.Option)
	case CommandSelectText:
		return fmt.Sprintf("select_text(%.0f,%.0f->%.0f,%.0f)", c.Point.X, c.Point.Y, c.End.X, c.End.Y)
	case CommandNavigate:
		return fmt.Sprintf("navigate(%s)", c.URL)
	case CommandReplyDialog:
		return fmt.Sprintf("reply_dialog(accept=%t)", c.Accept)
	default:
		return string(c.Type)
	}
}

// Sink receives page commands. Implementations must not block the frame
// thread.
type Sink interface {
	Emit(cmd Command) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Command) error

// Emit implements Sink.
func (f SinkFunc) Emit(cmd Command) error { return f(cmd) }
