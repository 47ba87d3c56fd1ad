package tab

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/gazeweb/internal/coordinator"
	"github.com/GriffinCanCode/gazeweb/internal/filter"
	"github.com/GriffinCanCode/gazeweb/internal/infrastructure/config"
	"github.com/GriffinCanCode/gazeweb/internal/pipeline"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(context.Background(), coordinator.DefaultSettings(), Options{
		Logger:   zaptest.NewLogger(t),
		Interval: time.Millisecond,
	})
	t.Cleanup(m.Shutdown)
	return m
}

func TestOpenGetList(t *testing.T) {
	m := newManager(t)

	first, err := m.Open()
	require.NoError(t, err)
	second, err := m.Open()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.ID, "tab_"))
	got, ok := m.Get(first.ID)
	require.True(t, ok)
	assert.Same(t, first, got)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "listed in creation order")
	assert.Equal(t, second.ID, list[1].ID)
	assert.Equal(t, 2, m.Len())

	_, ok = m.Get("tab_missing")
	assert.False(t, ok)
}

func TestFocus(t *testing.T) {
	m := newManager(t)

	first, _ := m.Open()
	second, _ := m.Open()

	focused, ok := m.Focused()
	require.True(t, ok)
	assert.Equal(t, second.ID, focused.ID, "opening focuses the new tab")

	assert.True(t, m.Focus(first.ID))
	focused, _ = m.Focused()
	assert.Equal(t, first.ID, focused.ID)
	assert.True(t, m.Info(first).Focused)
	assert.False(t, m.Info(second).Focused)

	assert.False(t, m.Focus("tab_missing"))
}

func TestCloseStopsFrameLoopAndRefocuses(t *testing.T) {
	m := newManager(t)

	first, _ := m.Open()
	second, _ := m.Open()

	require.NoError(t, second.Coordinator().Start(pipeline.KindVideoExit, ""))
	require.Eventually(t, func() bool {
		return second.Coordinator().Status().Frames > 0
	}, time.Second, time.Millisecond)

	assert.True(t, m.Close(second.ID))
	select {
	case <-second.Done():
	default:
		t.Fatal("frame loop still running after Close")
	}
	assert.True(t, second.Coordinator().Status().Closed)

	focused, ok := m.Focused()
	require.True(t, ok)
	assert.Equal(t, first.ID, focused.ID)

	assert.False(t, m.Close(second.ID), "closing twice")
	assert.Equal(t, 1, m.Len())
}

func TestStats(t *testing.T) {
	m := newManager(t)

	stats := m.Stats()
	assert.Zero(t, stats.TotalTabs)
	assert.Nil(t, stats.FocusedTab)

	tab, _ := m.Open()
	stats = m.Stats()
	assert.Equal(t, 1, stats.TotalTabs)
	require.NotNil(t, stats.FocusedTab)
	assert.Equal(t, tab.ID, *stats.FocusedTab)
}

func TestShutdownClosesEveryTab(t *testing.T) {
	m := NewManager(context.Background(), coordinator.DefaultSettings(), Options{Interval: time.Millisecond})
	a, _ := m.Open()
	b, _ := m.Open()

	m.Shutdown()

	assert.Zero(t, m.Len())
	for _, tab := range []*Tab{a, b} {
		select {
		case <-tab.Done():
		default:
			t.Fatalf("tab %s still running", tab.ID)
		}
	}
}

func TestParentContextStopsFrameLoops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(ctx, coordinator.DefaultSettings(), Options{Interval: time.Millisecond})
	tab, err := m.Open()
	require.NoError(t, err)

	cancel()
	select {
	case <-tab.Done():
	case <-time.After(time.Second):
		t.Fatal("frame loop ignored context cancellation")
	}
	assert.True(t, tab.Coordinator().Status().Closed)
	m.Shutdown()
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Dwell.Click = 1200 * time.Millisecond
	cfg.Filter.Kind = "simple"

	s := SettingsFromConfig(cfg)

	assert.Equal(t, filter.KindSimple, s.Filter.Kind)
	assert.Equal(t, 10, s.Filter.WindowSize)
	assert.Equal(t, 500*time.Millisecond, s.Filter.DropoutTimeout)
	assert.Equal(t, 1200*time.Millisecond, s.Pipeline.Dwell.Click)
	assert.Equal(t, 2.5, s.Pipeline.ZoomFactor)
	assert.Equal(t, 40.0, s.Fixation.PivotRadius)
	assert.Equal(t, 24.0, s.Fixation.MinTargetSize)
	assert.Equal(t, 0.3, s.DriftAlpha)
	assert.Equal(t, 1280.0, s.Viewport.Width)
	assert.Equal(t, 64*time.Millisecond, s.MaxFrameDT)

	_, err := coordinator.New("tab_cfg", s, coordinator.Options{})
	assert.NoError(t, err)
}
