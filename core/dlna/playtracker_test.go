package dlna

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayTrackerWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := newPlayTracker(time.Second)
	tracker.now = func() time.Time { return now }

	assert.True(t, tracker.ShouldRecord("tok"), "first sight records")

	now = now.Add(400 * time.Millisecond)
	assert.False(t, tracker.ShouldRecord("tok"), "repeat inside window is suppressed")

	now = now.Add(300 * time.Millisecond)
	assert.False(t, tracker.ShouldRecord("tok"), "still inside window of first attempt")

	now = now.Add(2 * time.Second)
	assert.True(t, tracker.ShouldRecord("tok"), "past the window records again")
}

func TestPlayTrackerTokensAreIndependent(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := newPlayTracker(time.Second)
	tracker.now = func() time.Time { return now }

	assert.True(t, tracker.ShouldRecord("a"))
	assert.True(t, tracker.ShouldRecord("b"))
	assert.False(t, tracker.ShouldRecord("a"))
	assert.False(t, tracker.ShouldRecord("b"))
}

func TestPlayTrackerSweep(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tracker := newPlayTracker(time.Second)
	tracker.now = func() time.Time { return now }

	tracker.ShouldRecord("old")
	now = now.Add(5 * time.Minute)
	tracker.ShouldRecord("fresh")

	removed := tracker.sweep(time.Minute)
	assert.Equal(t, 1, removed)

	// The fresh token is still tracked, so a repeat is suppressed; the old
	// token starts over.
	assert.False(t, tracker.ShouldRecord("fresh"))
	assert.True(t, tracker.ShouldRecord("old"))
}
