package gaze

import (
	"sort"
	"sync"
)

// DefaultQueueCapacity bounds the samples buffered between two frames.
const DefaultQueueCapacity = 512

// QueueStats reports what happened to enqueued samples.
type QueueStats struct {
	Enqueued  uint64
	Dropped   uint64 // evicted because the queue was full
	Discarded uint64 // out-of-order or duplicate timestamps
}

// SampleQueue is a bounded single-consumer queue. Producers call Enqueue
// from any goroutine; the frame thread calls Drain once per frame.
type SampleQueue struct {
	mu       sync.Mutex
	buf      []Sample
	capacity int
	lastTS   int64
	started  bool
	stats    QueueStats
}

// NewSampleQueue creates a queue holding at most capacity samples.
func NewSampleQueue(capacity int) *SampleQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &SampleQueue{
		buf:      make([]Sample, 0, capacity),
		capacity: capacity,
	}
}

// Enqueue appends a sample. When the queue is full the oldest sample is
// evicted: a fresh gaze position is worth more than a stale one.
func (q *SampleQueue) Enqueue(s Sample) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.buf) == q.capacity {
		copy(q.buf, q.buf[1:])
		q.buf = q.buf[:len(q.buf)-1]
		q.stats.Dropped++
	}
	q.buf = append(q.buf, s)
	q.stats.Enqueued++
}

// Drain returns the buffered samples in timestamp order. Samples whose
// timestamp is not strictly newer than every previously drained sample are
// discarded.
func (q *SampleQueue) Drain() []Sample {
	q.mu.Lock()
	pending := q.buf
	q.buf = make([]Sample, 0, q.capacity)
	q.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].TimestampMs < pending[j].TimestampMs
	})

	out := pending[:0]
	var discarded uint64
	for _, s := range pending {
		if q.started && s.TimestampMs <= q.lastTS {
			discarded++
			continue
		}
		q.started = true
		q.lastTS = s.TimestampMs
		out = append(out, s)
	}

	if discarded > 0 {
		q.mu.Lock()
		q.stats.Discarded += discarded
		q.mu.Unlock()
	}
	return out
}

// Len returns the number of buffered samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Stats returns a copy of the queue counters.
func (q *SampleQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}
