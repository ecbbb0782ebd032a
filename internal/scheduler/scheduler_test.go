package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYesterdayWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 30, 0, time.UTC)
	window := yesterdayWindow(now)

	want := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, window.From)
	assert.Equal(t, want, window.To)

	// The whole previous day is inside the window, nothing else.
	assert.True(t, window.Contains(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.Contains(time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC)))
	assert.False(t, window.Contains(now))
}

func TestYesterdayWindowCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	window := yesterdayWindow(now)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), window.From)
}
