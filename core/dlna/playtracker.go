package dlna

import (
	"sync"
	"time"
)

// playTracker de-duplicates play recording per leaf playback token. Some
// clients issue bursts of reads for one token; only the first read inside
// the window records a play. Tokens are single-use nonces, so entries go
// cold after the initial burst and the sweep reclaims them.
type playTracker struct {
	window time.Duration
	now    func() time.Time
	seen   sync.Map // token -> time.Time of last attempt
}

func newPlayTracker(window time.Duration) *playTracker {
	return &playTracker{window: window, now: time.Now}
}

// ShouldRecord reports whether a play should be recorded for token, and
// marks the attempt. First sight of a token always records; repeats inside
// the window do not; a repeat past the window records again.
func (t *playTracker) ShouldRecord(token string) bool {
	now := t.now()
	prev, loaded := t.seen.LoadOrStore(token, now)
	if !loaded {
		return true
	}
	if now.Sub(prev.(time.Time)) < t.window {
		return false
	}
	t.seen.Store(token, now)
	return true
}

// sweep removes entries older than maxAge and returns how many it dropped.
func (t *playTracker) sweep(maxAge time.Duration) int {
	now := t.now()
	removed := 0
	t.seen.Range(func(key, value interface{}) bool {
		if now.Sub(value.(time.Time)) > maxAge {
			t.seen.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
