package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// Message types.
const (
	TypeSample    = "sample"
	TypeSamples   = "samples"
	TypePageState = "page_state"
	TypeText      = "text"
	TypePing      = "ping"

	TypeCommand  = "command"
	TypeFeedback = "feedback"
	TypePong     = "pong"
	TypeError    = "error"
)

var errMissingPayload = errors.New("missing payload")

// Inbound is a message from the page client or tracker.
type Inbound struct {
	Type    string        `json:"type"`
	Sample  *gaze.Sample  `json:"sample,omitempty"`
	Samples []gaze.Sample `json:"samples,omitempty"`
	Page    *page.State   `json:"page,omitempty"`
	Text    string        `json:"text,omitempty"`
	Submit  bool          `json:"submit,omitempty"`
}

// Outbound is a message to the page client.
type Outbound struct {
	Type      string         `json:"type"`
	Command   *page.Command  `json:"command,omitempty"`
	Feedback  *page.Feedback `json:"feedback,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Decode parses and validates an inbound message.
func Decode(data []byte) (Inbound, error) {
	var msg Inbound
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return Inbound{}, fmt.Errorf("decode message: %w", err)
	}
	switch msg.Type {
	case TypeSample:
		if msg.Sample == nil {
			return msg, fmt.Errorf("%s: %w", msg.Type, errMissingPayload)
		}
	case TypePageState:
		if msg.Page == nil {
			return msg, fmt.Errorf("%s: %w", msg.Type, errMissingPayload)
		}
	case TypeSamples, TypeText, TypePing:
	default:
		return msg, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return msg, nil
}

// Encode serializes an outbound message, stamping it with the current time.
func Encode(msg Outbound) ([]byte, error) {
	msg.Timestamp = time.Now().UnixMilli()
	return sonic.Marshal(msg)
}
