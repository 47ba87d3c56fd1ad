package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("write breaker is open")
	ErrTooManyRequests = errors.New("write breaker is half-open")
)

// State is the breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker. Zero fields take the defaults below.
type Settings struct {
	// Failures consecutive failed writes open the breaker (default 3).
	Failures uint32
	// Cooldown is how long an open breaker drops writes before testing the
	// connection again (default 2s).
	Cooldown time.Duration
	// Trials writes are let through while half-open; as many successes in a
	// row close the breaker (default 1).
	Trials uint32
	// WriteTimeout is added to the admission time to form the deadline handed
	// to each write (default 5s).
	WriteTimeout time.Duration
	// OnStateChange is called on every transition, with the breaker locked.
	OnStateChange func(from, to State)
	// OnReject is called for every write dropped without running, with the
	// kind of message it carried.
	OnReject func(kind string, err error)
	// Now replaces time.Now, for tests.
	Now func() time.Time
}

// Counts covers the writes let through since the last state change.
type Counts struct {
	Writes               uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker guards the writes of one WebSocket connection. Once writes keep
// failing on their deadline it drops messages without touching the socket,
// so a stalled client stops costing a full write timeout per message.
type Breaker struct {
	settings Settings

	mu       sync.Mutex
	state    State
	counts   Counts
	openedAt time.Time
	dropped  map[string]uint64
}

// New creates a closed breaker.
func New(settings Settings) *Breaker {
	if settings.Failures == 0 {
		settings.Failures = 3
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 2 * time.Second
	}
	if settings.Trials == 0 {
		settings.Trials = 1
	}
	if settings.WriteTimeout <= 0 {
		settings.WriteTimeout = 5 * time.Second
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Breaker{settings: settings, dropped: make(map[string]uint64)}
}

// State returns the current state, moving an open breaker whose cooldown
// elapsed to half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refresh(b.settings.Now())
}

func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Dropped returns how many messages of kind were rejected so far.
func (b *Breaker) Dropped(kind string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped[kind]
}

// Execute runs write with its deadline if the breaker admits it. A rejected
// message returns ErrCircuitOpen or ErrTooManyRequests without running
// write, and is reported to OnReject under kind.
func (b *Breaker) Execute(kind string, write func(deadline time.Time) error) error {
	admitted, err := b.admit()
	if err != nil {
		b.reject(kind, err)
		return err
	}
	err = write(admitted.Add(b.settings.WriteTimeout))
	b.record(err == nil)
	return err
}

// Rejected reports whether err came from the breaker rather than the write.
func Rejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}

func (b *Breaker) admit() (time.Time, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.settings.Now()
	switch b.refresh(now) {
	case StateOpen:
		return now, ErrCircuitOpen
	case StateHalfOpen:
		if b.counts.Writes >= b.settings.Trials {
			return now, ErrTooManyRequests
		}
	}
	b.counts.Writes++
	return now, nil
}

func (b *Breaker) reject(kind string, err error) {
	b.mu.Lock()
	b.dropped[kind]++
	b.mu.Unlock()

	if b.settings.OnReject != nil {
		b.settings.OnReject(kind, err)
	}
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.settings.Now()
	if ok {
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.Trials {
			b.transition(StateClosed, now)
		}
		return
	}

	b.counts.ConsecutiveFailures++
	b.counts.ConsecutiveSuccesses = 0
	switch b.state {
	case StateHalfOpen:
		b.transition(StateOpen, now)
	case StateClosed:
		if b.counts.ConsecutiveFailures >= b.settings.Failures {
			b.transition(StateOpen, now)
		}
	}
}

func (b *Breaker) refresh(now time.Time) State {
	if b.state == StateOpen && !now.Before(b.openedAt.Add(b.settings.Cooldown)) {
		b.transition(StateHalfOpen, now)
	}
	return b.state
}

func (b *Breaker) transition(to State, now time.Time) {
	from := b.state
	b.state = to
	b.counts = Counts{}
	if to == StateOpen {
		b.openedAt = now
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}
