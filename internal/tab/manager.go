// Package tab manages the open browser tabs. Each tab owns a coordinator
// whose frame loop runs on its own goroutine from Open until Close.
package tab

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/gazeweb/internal/coordinator"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/gazeweb/internal/shared/id"
)

// Tab is an open tab and its running coordinator.
type Tab struct {
	ID        string
	CreatedAt time.Time

	coord  *coordinator.Coordinator
	cancel context.CancelFunc
	done   chan struct{}
}

// Coordinator returns the tab's gaze coordinator.
func (t *Tab) Coordinator() *coordinator.Coordinator { return t.coord }

// Done is closed when the tab's frame loop has stopped.
func (t *Tab) Done() <-chan struct{} { return t.done }

// Info is the API view of a tab.
type Info struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Focused   bool               `json:"focused"`
	Status    coordinator.Status `json:"status"`
}

// Stats summarizes the manager.
type Stats struct {
	TotalTabs        int     `json:"total_tabs"`
	RunningPipelines int     `json:"running_pipelines"`
	FocusedTab       *string `json:"focused_tab,omitempty"`
}

// Options carries the collaborators handed to every tab.
type Options struct {
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
	// Interval is the frame period of every tab.
	Interval time.Duration
}

// Manager orchestrates tab lifecycle
type Manager struct {
	tabs      sync.Map
	focusedID *string
	mu        sync.RWMutex

	ctx      context.Context
	settings coordinator.Settings
	interval time.Duration
	log      *zap.Logger
	metrics  *monitoring.Metrics
	wg       sync.WaitGroup
}

// NewManager creates a manager. Frame loops stop when ctx is done.
func NewManager(ctx context.Context, settings coordinator.Settings, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = coordinator.DefaultFrameInterval
	}
	return &Manager{
		ctx:      ctx,
		settings: settings,
		interval: interval,
		log:      log,
		metrics:  opts.Metrics,
	}
}

// Open creates a tab, starts its frame loop and focuses it.
func (m *Manager) Open() (*Tab, error) {
	tabID := id.NewTabID().String()
	coord, err := coordinator.New(tabID, m.settings, coordinator.Options{
		Logger:  m.log.Named("coordinator"),
		Metrics: m.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	t := &Tab{
		ID:        tabID,
		CreatedAt: time.Now(),
		coord:     coord,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	m.tabs.Store(tabID, t)
	m.setFocused(tabID)
	m.metrics.IncTabsTotal()
	m.metrics.SetTabsActive(m.Len())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(t.done)
		if err := coord.Run(ctx, m.interval); err != nil && !errors.Is(err, context.Canceled) {
			m.log.Error("frame loop failed", zap.String("tab_id", tabID), zap.Error(err))
		}
	}()

	m.log.Info("tab opened", zap.String("tab_id", tabID))
	return t, nil
}

// Get retrieves a tab by ID
func (m *Manager) Get(id string) (*Tab, bool) {
	val, ok := m.tabs.Load(id)
	if !ok {
		return nil, false
	}
	return val.(*Tab), true
}

// List returns all tabs in creation order.
func (m *Manager) List() []*Tab {
	var tabs []*Tab
	m.tabs.Range(func(_, value interface{}) bool {
		tabs = append(tabs, value.(*Tab))
		return true
	})
	sort.Slice(tabs, func(i, j int) bool { return tabs[i].ID < tabs[j].ID })
	return tabs
}

// Len returns the number of open tabs.
func (m *Manager) Len() int {
	n := 0
	m.tabs.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// Focus makes a tab the target of the shared tracker stream.
func (m *Manager) Focus(id string) bool {
	if _, ok := m.Get(id); !ok {
		return false
	}
	m.setFocused(id)
	return true
}

// Focused returns the focused tab.
func (m *Manager) Focused() (*Tab, bool) {
	m.mu.RLock()
	focused := m.focusedID
	m.mu.RUnlock()
	if focused == nil {
		return nil, false
	}
	return m.Get(*focused)
}

// Info returns the API view of a tab.
func (m *Manager) Info(t *Tab) Info {
	m.mu.RLock()
	focused := m.focusedID != nil && *m.focusedID == t.ID
	m.mu.RUnlock()
	return Info{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		Focused:   focused,
		Status:    t.coord.Status(),
	}
}

// Close stops a tab's frame loop, aborting its running pipelines, and waits
// for the loop to exit.
func (m *Manager) Close(id string) bool {
	val, ok := m.tabs.LoadAndDelete(id)
	if !ok {
		return false
	}
	t := val.(*Tab)

	t.coord.Close()
	<-t.done
	t.cancel()
	m.metrics.SetTabsActive(m.Len())
	m.log.Info("tab closed", zap.String("tab_id", id))

	// Update focus
	m.mu.Lock()
	if m.focusedID != nil && *m.focusedID == id {
		m.focusedID = nil
		// Auto-focus another tab
		if remaining := m.List(); len(remaining) > 0 {
			next := remaining[len(remaining)-1].ID
			m.focusedID = &next
		}
	}
	m.mu.Unlock()

	return true
}

// Shutdown closes every tab.
func (m *Manager) Shutdown() {
	for _, t := range m.List() {
		m.Close(t.ID)
	}
	m.wg.Wait()
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	var total, running int
	m.tabs.Range(func(_, value interface{}) bool {
		t := value.(*Tab)
		total++
		running += len(t.coord.Status().Pipelines)
		return true
	})

	m.mu.RLock()
	focused := m.focusedID
	m.mu.RUnlock()

	var focusedTab *string
	if focused != nil {
		if t, ok := m.Get(*focused); ok {
			focusedTab = &t.ID
		}
	}

	return Stats{
		TotalTabs:        total,
		RunningPipelines: running,
		FocusedTab:       focusedTab,
	}
}

func (m *Manager) setFocused(id string) {
	m.mu.Lock()
	m.focusedID = &id
	m.mu.Unlock()
}
