package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/actiondata"
	"github.com/GriffinCanCode/gazeweb/internal/drift"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/gaze"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/page"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
	"github.com/GriffinCanCode/gazeweb/internal/shared/id"
	"github.com/GriffinCanCode/gazeweb/internal/trigger"
)

var (
	// ErrUnknownSlot is returned when a manual start names a slot that does
	// not exist.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrCancelled is the abort reason of a pipeline cancelled through the
	// tab API.
	ErrCancelled = errors.New("cancelled")
)

// slotOrder is the order pipelines are advanced and aborted in.
var slotOrder = []pipeline.Slot{
	pipeline.SlotCalibration,
	pipeline.SlotDialog,
	pipeline.SlotField,
	pipeline.SlotMedia,
	pipeline.SlotGaze,
}

// Slots returns the interaction slots in advance order.
func Slots() []pipeline.Slot {
	return append([]pipeline.Slot(nil), slotOrder...)
}

// DefaultSlot returns the slot a kind runs in when started without one.
func DefaultSlot(kind pipeline.Kind) pipeline.Slot {
	switch kind {
	case pipeline.KindTextInput, pipeline.KindSelectField:
		return pipeline.SlotField
	case pipeline.KindJSDialog:
		return pipeline.SlotDialog
	case pipeline.KindVideoExit:
		return pipeline.SlotMedia
	case pipeline.KindDriftCorrection, pipeline.KindDynamicDriftCorrection:
		return pipeline.SlotCalibration
	default:
		return pipeline.SlotGaze
	}
}

func knownSlot(slot pipeline.Slot) bool {
	for _, s := range slotOrder {
		if s == slot {
			return true
		}
	}
	return false
}

// Options carries the collaborators of a Coordinator. Zero values get
// defaults built from the Settings.
type Options struct {
	Logger   *zap.Logger
	Metrics  *monitoring.Metrics
	Registry *pipeline.Registry
	Triggers []trigger.Trigger
	// NewID generates pipeline ids.
	NewID func() string
}

// Coordinator runs the gaze interaction of one tab.
type Coordinator struct {
	id       string
	settings Settings
	log      *zap.Logger
	metrics  *monitoring.Metrics
	registry *pipeline.Registry
	triggers []trigger.Trigger
	newID    func() string

	samples *gaze.SampleQueue
	box     mailbox
	out     output

	// Frame thread state.
	filter   filter.Filter
	drift    *drift.Correction
	snapshot *page.Snapshot
	slots    map[pipeline.Slot]*pipeline.Pipeline
	ended    []trigger.Ended
	prev     gaze.FilteredPoint
	dropout  bool
	frames   uint64
	queued   gaze.QueueStats
	finished bool

	statusMu sync.RWMutex
	status   Status
}

// New creates the coordinator of tab tabID.
func New(tabID string, settings Settings, opts Options) (*Coordinator, error) {
	f, err := filter.New(settings.Filter)
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", err)
	}
	d, err := drift.New(settings.DriftAlpha)
	if err != nil {
		return nil, fmt.Errorf("create drift correction: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = pipeline.NewRegistry(settings.Pipeline)
	}
	triggers := opts.Triggers
	if triggers == nil {
		triggers = trigger.Defaults(settings.Fixation)
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return id.NewPipelineID().String() }
	}

	c := &Coordinator{
		id:       tabID,
		settings: settings,
		log:      log.With(zap.String("tab_id", tabID)),
		metrics:  opts.Metrics,
		registry: registry,
		triggers: triggers,
		newID:    newID,
		samples:  gaze.NewSampleQueue(settings.QueueSize),
		filter:   f,
		drift:    d,
		slots:    make(map[pipeline.Slot]*pipeline.Pipeline),
	}
	c.publish(f.Current())
	return c, nil
}

// ID returns the tab id.
func (c *Coordinator) ID() string { return c.id }

// Registry returns the pipeline registry of the tab.
func (c *Coordinator) Registry() *pipeline.Registry { return c.registry }

// Enqueue buffers a tracker sample for the next frame. It reports false once
// the coordinator is closed.
func (c *Coordinator) Enqueue(s gaze.Sample) bool {
	if c.box.isClosed() {
		return false
	}
	c.samples.Enqueue(s)
	return true
}

// UpdatePage delivers a page state. Only the latest state delivered before a
// frame is seen by that frame.
func (c *Coordinator) UpdatePage(s page.State) error {
	if !c.box.setPage(s) {
		return pipeline.ErrClosed
	}
	return nil
}

// SubmitText delivers keyboard input to a pipeline waiting for text.
func (c *Coordinator) SubmitText(text string, submit bool) error {
	if !c.box.setTyped(action.Typed{Text: text, Submit: submit}) {
		return pipeline.ErrClosed
	}
	return nil
}

// Start requests a pipeline of kind in slot on the next frame. An empty slot
// selects DefaultSlot(kind).
func (c *Coordinator) Start(kind pipeline.Kind, slot pipeline.Slot) error {
	if !c.registry.Has(kind) {
		return fmt.Errorf("%w: %q", pipeline.ErrUnknownKind, kind)
	}
	if slot == "" {
		slot = DefaultSlot(kind)
	}
	if !knownSlot(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return c.post(func() {
		c.start(pipeline.Spec{Kind: kind, Slot: slot}, "manual")
	})
}

// Abort cancels the pipeline running in slot on the next frame.
func (c *Coordinator) Abort(slot pipeline.Slot) error {
	if !knownSlot(slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return c.post(func() { c.abort(slot, ErrCancelled) })
}

// Recalibrate discards the learned drift offset.
func (c *Coordinator) Recalibrate() error {
	return c.post(func() {
		if err := c.drift.Reset(); err != nil {
			c.log.Warn("drift reset rejected", zap.Error(err))
			c.metrics.RecordDriftUpdate("rejected")
			return
		}
		c.log.Info("drift correction reset")
		c.metrics.RecordDriftUpdate("reset")
	})
}

// RequestDrift starts a drift correction against a target the user is
// looking at. A dynamic correction keeps refining the offset while the
// fixation holds.
func (c *Coordinator) RequestDrift(target gaze.Point, dynamic bool) error {
	kind := pipeline.KindDriftCorrection
	if dynamic {
		kind = pipeline.KindDynamicDriftCorrection
	}
	return c.post(func() {
		c.start(pipeline.Spec{
			Kind: kind,
			Slot: pipeline.SlotCalibration,
			Seed: func(m *actiondata.Map) {
				actiondata.Set(m, actiondata.CalibrationTarget, target)
			},
		}, "manual")
	})
}

// Close stops accepting input. Running pipelines are aborted with
// pipeline.ErrClosed by the frame thread on its next frame.
func (c *Coordinator) Close() {
	c.box.close()
}

func (c *Coordinator) post(fn func()) error {
	if !c.box.post(fn) {
		return pipeline.ErrClosed
	}
	return nil
}

// Run drives frames every interval until ctx is done or the coordinator is
// closed. Frame time is measured, and capped at Settings.MaxFrameDT.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.Info("frame loop started", zap.Duration("interval", interval))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			c.Close()
			c.finish()
			c.log.Info("frame loop stopped", zap.Uint64("frames", c.frames))
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := c.Frame(dt); err != nil {
				if errors.Is(err, pipeline.ErrClosed) {
					c.log.Info("frame loop stopped", zap.Uint64("frames", c.frames))
					return nil
				}
				return err
			}
		}
	}
}

// Frame advances the tab by dt. It must only be called from the frame
// thread. After Close it aborts what is still running and returns
// pipeline.ErrClosed.
func (c *Coordinator) Frame(dt time.Duration) error {
	if c.finished {
		return pipeline.ErrClosed
	}
	began := time.Now()

	in, closed := c.box.take()
	if closed {
		c.finish()
		return pipeline.ErrClosed
	}
	if limit := c.settings.MaxFrameDT; limit > 0 && dt > limit {
		dt = limit
	}

	if in.page != nil {
		c.snapshot = page.NewSnapshot(*in.page)
	}

	samples := c.samples.Drain()
	for _, s := range samples {
		c.filter.Push(s)
	}
	cur := c.filter.Advance(dt)
	c.trackQueue()
	c.trackDropout()

	for _, fn := range in.controls {
		fn()
	}

	c.evaluate(cur)

	frame := pipeline.Frame{DT: dt, Gaze: cur, Previous: c.prev, Typed: in.typed}
	for _, slot := range slotOrder {
		p, ok := c.slots[slot]
		if !ok {
			continue
		}
		if p.Advance(frame) != pipeline.Running {
			c.retire(slot, p)
		}
	}

	c.prev = cur
	c.frames++
	c.publish(cur)
	c.metrics.RecordFrame(time.Since(began), len(samples))
	return nil
}

type decided struct {
	source trigger.Trigger
	trigger.Decision
}

func (c *Coordinator) evaluate(cur gaze.FilteredPoint) {
	st := c.pageState()
	st.Viewport = c.viewport()
	obs := trigger.Observation{
		Page:     st,
		Gaze:     cur,
		Point:    c.drift.Apply(cur.Point()),
		Elements: pageIndex{c},
		Modal:    c.modal(),
		Ended:    c.ended,
	}
	c.ended = nil

	var decisions []decided
	for _, t := range c.triggers {
		if d := t.Evaluate(obs); !d.IsZero() {
			decisions = append(decisions, decided{source: t, Decision: d})
		}
	}

	for _, d := range decisions {
		if d.Abort == nil {
			continue
		}
		if slot := d.source.Slot(); slot != "" {
			c.abort(slot, d.Abort)
		} else {
			c.abortAll(d.Abort)
		}
	}

	// A modal pipeline started this frame holds back gaze-slot pointing
	// starts from the same frame, whatever the trigger order.
	modal := c.modal()
	for _, d := range decisions {
		if d.Start != nil && c.registry.Modal(d.Start.Kind) {
			modal = true
		}
	}
	for _, d := range decisions {
		if d.Start == nil {
			continue
		}
		if modal && c.pointing(*d.Start) {
			c.log.Debug("pointing start held back by modal pipeline",
				zap.String("kind", string(d.Start.Kind)),
				zap.String("trigger", d.source.Name()))
			continue
		}
		c.start(*d.Start, d.source.Name())
	}
}

// pointing reports whether spec starts a non-modal pipeline in the gaze slot.
func (c *Coordinator) pointing(spec pipeline.Spec) bool {
	slot := spec.Slot
	if slot == "" {
		slot = DefaultSlot(spec.Kind)
	}
	return slot == pipeline.SlotGaze && !c.registry.Modal(spec.Kind)
}

func (c *Coordinator) start(spec pipeline.Spec, origin string) {
	if spec.Slot == "" {
		spec.Slot = DefaultSlot(spec.Kind)
	}
	c.abort(spec.Slot, pipeline.ErrSuperseded)

	pid := c.newID()
	p, err := c.registry.Build(pid, spec, c.env())
	if err != nil {
		c.log.Warn("pipeline not started",
			zap.String("kind", string(spec.Kind)),
			zap.String("slot", string(spec.Slot)),
			zap.Error(err))
		return
	}

	c.slots[spec.Slot] = p
	c.metrics.RecordPipelineStarted(string(spec.Kind), string(spec.Slot))
	c.log.Debug("pipeline started",
		zap.String("pipeline_id", pid),
		zap.String("kind", string(spec.Kind)),
		zap.String("slot", string(spec.Slot)),
		zap.String("trigger", origin))

	if p.Done() {
		c.retire(spec.Slot, p)
	}
}

func (c *Coordinator) abort(slot pipeline.Slot, reason error) {
	p, ok := c.slots[slot]
	if !ok {
		return
	}
	p.Abort(reason)
	c.retire(slot, p)
}

func (c *Coordinator) abortAll(reason error) {
	for _, slot := range slotOrder {
		c.abort(slot, reason)
	}
}

func (c *Coordinator) retire(slot pipeline.Slot, p *pipeline.Pipeline) {
	delete(c.slots, slot)
	o := p.Outcome()
	c.ended = append(c.ended, trigger.Ended{Slot: slot, Outcome: o})

	result := outcomeLabel(o)
	c.metrics.RecordPipelineEnded(string(o.Kind), result, o.Elapsed)
	if o.Kind == pipeline.KindDriftCorrection || o.Kind == pipeline.KindDynamicDriftCorrection {
		c.metrics.RecordDriftUpdate(driftResult(o))
	}

	fields := []zap.Field{
		zap.String("pipeline_id", o.ID),
		zap.String("kind", string(o.Kind)),
		zap.String("slot", string(slot)),
		zap.String("outcome", result),
		zap.Duration("elapsed", o.Elapsed),
	}
	switch result {
	case "succeeded":
		c.log.Info("pipeline ended", fields...)
	case "failed":
		c.log.Warn("pipeline ended", append(fields, zap.String("action", o.Action), zap.Error(o.Err))...)
	default:
		c.log.Info("pipeline ended", append(fields, zap.Error(o.Err))...)
	}
}

// finish aborts everything still running with pipeline.ErrClosed.
func (c *Coordinator) finish() {
	if c.finished {
		return
	}
	c.abortAll(pipeline.ErrClosed)
	c.finished = true
	c.publish(c.prev)
}

func (c *Coordinator) modal() bool {
	for _, p := range c.slots {
		if c.registry.Modal(p.Kind()) {
			return true
		}
	}
	return false
}

func (c *Coordinator) trackQueue() {
	stats := c.samples.Stats()
	c.metrics.RecordSamplesDropped("overflow", int(stats.Dropped-c.queued.Dropped))
	c.metrics.RecordSamplesDropped("out_of_order", int(stats.Discarded-c.queued.Discarded))
	c.queued = stats
}

func (c *Coordinator) trackDropout() {
	lost := c.filter.Err() != nil
	switch {
	case lost && !c.dropout:
		c.log.Warn("tracker dropout", zap.Duration("timeout", c.settings.Filter.DropoutTimeout))
		c.metrics.IncTrackerDropouts()
	case !lost && c.dropout:
		c.log.Info("tracker recovered")
	}
	c.dropout = lost
}

func (c *Coordinator) env() action.Env {
	return action.Env{
		Sink:     commandSink{c},
		Feedback: feedbackSink{c},
		Page:     pageIndex{c},
		Drift:    c.drift,
		Viewport: c.viewport,
	}
}

func (c *Coordinator) pageState() page.State {
	if c.snapshot == nil {
		return page.State{}
	}
	return c.snapshot.State()
}

func (c *Coordinator) viewport() page.Rect {
	if vp := c.pageState().Viewport; vp.Width > 0 && vp.Height > 0 {
		return vp
	}
	return c.settings.Viewport
}

// pageIndex hit-tests the latest snapshot. Frame thread only.
type pageIndex struct{ c *Coordinator }

func (x pageIndex) ElementsAt(p gaze.Point, radius float64) []page.Element {
	if x.c.snapshot == nil {
		return nil
	}
	return x.c.snapshot.ElementsAt(p, radius)
}

func (x pageIndex) Element(id string) (page.Element, bool) {
	if x.c.snapshot == nil {
		return page.Element{}, false
	}
	return x.c.snapshot.Element(id)
}

func outcomeLabel(o pipeline.Outcome) string {
	switch {
	case o.State == pipeline.Succeeded:
		return "succeeded"
	case o.Failed:
		return "failed"
	default:
		return "aborted"
	}
}

func driftResult(o pipeline.Outcome) string {
	switch {
	case o.State == pipeline.Succeeded:
		return "applied"
	case errors.Is(o.Err, drift.ErrReentrantUpdate):
		return "rejected"
	default:
		return "failed"
	}
}
