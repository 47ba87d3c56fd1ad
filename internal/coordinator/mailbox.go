package coordinator

import (
	"sync"

	"github.com/GriffinCanCode/gazeweb/internal/action"
	"github.com/GriffinCanCode/gazeweb/internal/page"
)

// mailbox is the only state shared between producers and the frame thread.
type mailbox struct {
	mu       sync.Mutex
	page     *page.State
	typed    *action.Typed
	controls []func()
	closed   bool
}

// delivery is what the frame thread takes from the mailbox in one frame.
type delivery struct {
	page     *page.State
	typed    *action.Typed
	controls []func()
}

func (m *mailbox) setPage(s page.State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.page = &s
	return true
}

func (m *mailbox) setTyped(t action.Typed) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.typed = &t
	return true
}

func (m *mailbox) post(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.controls = append(m.controls, fn)
	return true
}

func (m *mailbox) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

// take empties the mailbox.
func (m *mailbox) take() (delivery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := delivery{page: m.page, typed: m.typed, controls: m.controls}
	m.page, m.typed, m.controls = nil, nil, nil
	return d, m.closed
}
