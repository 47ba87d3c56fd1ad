package coordinator

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// ErrDetached is returned to a terminal action when no page client is
// attached to receive its command.
var ErrDetached = errors.New("no page client attached")

// output routes commands and feedback to the currently attached client.
type output struct {
	mu       sync.RWMutex
	gen      uint64
	sink     page.Sink
	feedback page.FeedbackSink
}

// Attach routes page commands and feedback of this tab to the given sinks,
// replacing any earlier client. The returned function detaches them again
// unless another client attached in between.
func (c *Coordinator) Attach(sink page.Sink, feedback page.FeedbackSink) (detach func()) {
	c.out.mu.Lock()
	c.out.gen++
	gen := c.out.gen
	c.out.sink, c.out.feedback = sink, feedback
	c.out.mu.Unlock()

	c.log.Info("page client attached")
	return func() {
		c.out.mu.Lock()
		defer c.out.mu.Unlock()
		if c.out.gen != gen {
			return
		}
		c.out.sink, c.out.feedback = nil, nil
		c.log.Info("page client detached")
	}
}

// commandSink is the page.Sink handed to pipelines.
type commandSink struct{ c *Coordinator }

func (s commandSink) Emit(cmd page.Command) error {
	s.c.out.mu.RLock()
	sink := s.c.out.sink
	s.c.out.mu.RUnlock()

	if sink == nil {
		s.c.metrics.RecordCommandDropped("detached")
		return ErrDetached
	}
	if err := sink.Emit(cmd); err != nil {
		s.c.metrics.RecordCommandDropped("send")
		return err
	}
	s.c.metrics.RecordCommand(string(cmd.Type))
	s.c.log.Debug("command emitted", zap.Stringer("command", cmd))
	return nil
}

// feedbackSink is the page.FeedbackSink handed to pipelines. Feedback
// without a client is discarded.
type feedbackSink struct{ c *Coordinator }

func (s feedbackSink) Show(fb page.Feedback) {
	s.c.out.mu.RLock()
	next := s.c.out.feedback
	s.c.out.mu.RUnlock()

	if next != nil {
		next.Show(fb)
	}
}
