package coordinator

import (
	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
)

// PipelineStatus describes one running pipeline.
type PipelineStatus struct {
	ID        string        `json:"id"`
	Kind      pipeline.Kind `json:"kind"`
	Slot      pipeline.Slot `json:"slot"`
	Action    string        `json:"action,omitempty"`
	ElapsedMs int64         `json:"elapsed_ms"`
}

// QueueStatus mirrors the sample queue counters.
type QueueStatus struct {
	Pending   int    `json:"pending"`
	Enqueued  uint64 `json:"enqueued"`
	Dropped   uint64 `json:"dropped"`
	Discarded uint64 `json:"discarded"`
}

// Status is published by the frame thread after every frame and may be read
// from any goroutine.
type Status struct {
	ID        string             `json:"id"`
	Frames    uint64             `json:"frames"`
	Gaze      gaze.FilteredPoint `json:"gaze"`
	Dropout   bool               `json:"dropout"`
	Drift     drift.State        `json:"drift"`
	URL       string             `json:"url,omitempty"`
	Revision  uint64             `json:"revision"`
	Pipelines []PipelineStatus   `json:"pipelines"`
	Queue     QueueStatus        `json:"queue"`
	Closed    bool               `json:"closed"`
}

// Status returns the state published after the last frame.
func (c *Coordinator) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	s := c.status
	s.Pipelines = append([]PipelineStatus(nil), c.status.Pipelines...)
	return s
}

func (c *Coordinator) publish(cur gaze.FilteredPoint) {
	s := Status{
		ID:        c.id,
		Frames:    c.frames,
		Gaze:      cur,
		Dropout:   c.dropout,
		Drift:     c.drift.Snapshot(),
		Closed:    c.finished,
		Pipelines: make([]PipelineStatus, 0, len(c.slots)),
		Queue: QueueStatus{
			Pending:   c.samples.Len(),
			Enqueued:  c.queued.Enqueued,
			Dropped:   c.queued.Dropped,
			Discarded: c.queued.Discarded,
		},
	}
	if c.snapshot != nil {
		st := c.snapshot.State()
		s.URL, s.Revision = st.URL, st.Revision
	}
	for _, slot := range slotOrder {
		p, ok := c.slots[slot]
		if !ok {
			continue
		}
		ps := PipelineStatus{ID: p.ID(), Kind: p.Kind(), Slot: slot, ElapsedMs: p.Elapsed().Milliseconds()}
		if a := p.Current(); a != nil {
			ps.Action = a.Name()
		}
		s.Pipelines = append(s.Pipelines, ps)
	}

	c.statusMu.Lock()
	c.status = s
	c.statusMu.Unlock()
}
