package actiondata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

func TestSetGet(t *testing.T) {
	m := New()

	Set(m, RawCoordinate, gaze.Point{X: 10, Y: 20})
	Set(m, ZoomFactor, 2.5)
	Set(m, Text, "hello")
	Set(m, DialogAccept, true)
	Set(m, SelectedOption, 3)

	p, err := Get(m, RawCoordinate)
	require.NoError(t, err)
	assert.Equal(t, gaze.Point{X: 10, Y: 20}, p)

	f, err := Get(m, ZoomFactor)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	s, err := Get(m, Text)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	b, err := Get(m, DialogAccept)
	require.NoError(t, err)
	assert.True(t, b)

	i, err := Get(m, SelectedOption)
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	assert.Equal(t, 5, m.Len())
	assert.Equal(t, []string{"DialogAccept", "RawCoordinate", "SelectedOption", "Text", "ZoomFactor"}, m.Names())
}

func TestGetUnwrittenKeyIsStale(t *testing.T) {
	m := New()

	_, err := Get(m, PredictedCoordinate)
	assert.ErrorIs(t, err, ErrStaleData)
	assert.Contains(t, err.Error(), "PredictedCoordinate")

	_, ok := Lookup(m, PredictedCoordinate)
	assert.False(t, ok)
	assert.False(t, Has(m, PredictedCoordinate))
}

func TestOverwriteAndDelete(t *testing.T) {
	m := New()

	Set(m, MagnifierActive, true)
	Set(m, MagnifierActive, false)
	v, err := Get(m, MagnifierActive)
	require.NoError(t, err)
	assert.False(t, v)

	Delete(m, MagnifierActive)
	assert.False(t, Has(m, MagnifierActive))
}

func TestSnapshotFormatsValues(t *testing.T) {
	m := New()
	Set(m, PageCoordinate, gaze.Point{X: 1.5, Y: 2})
	Set(m, KeyName, "Escape")

	snap := m.Snapshot()
	assert.Equal(t, "(1.5,2.0)", snap["PageCoordinate"])
	assert.Equal(t, "Escape", snap["KeyName"])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "coordinate", KindCoordinate.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
