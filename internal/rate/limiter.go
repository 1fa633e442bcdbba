// Package rate caps how often a single admin can drive the parse endpoints,
// which fan out to channel pages, S3, OCR and the language model.
package rate

import (
	"sync"
	"time"
)

// WindowLimiter counts calls per key inside a fixed window.
type WindowLimiter struct {
	mu         sync.Mutex
	limit      int
	window     time.Duration
	buckets    map[string]*bucket
	lastSweep  time.Time
	sweepEvery time.Duration
}

type bucket struct {
	start time.Time
	count int
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		limit:      limit,
		window:     window,
		buckets:    make(map[string]*bucket),
		lastSweep:  time.Now(),
		sweepEvery: window,
	}
}

// Allow records one call for key and reports whether it fits the window.
func (l *WindowLimiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.start) >= l.window {
		l.buckets[key] = &bucket{start: now, count: 1}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}

// sweep drops buckets whose window has passed, at most once per window.
func (l *WindowLimiter) sweep(now time.Time) {
	if l.window <= 0 || l.sweepEvery <= 0 {
		return
	}
	if now.Sub(l.lastSweep) < l.sweepEvery {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.start) >= l.window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
