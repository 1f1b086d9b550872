// Package ratelimiter implements a per-identity token bucket limiter with
// idle-entry expiration.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
	timer      *time.Timer
}

// Limiter manages one token bucket per identity (client IP here).
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	capacity float64
	idleTTL  time.Duration
}

func New(rate, capacity float64, idleTTL time.Duration) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		idleTTL:  idleTTL,
	}
}

// Allow reports whether identity may proceed, consuming one token if so.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[identity]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRefill: time.Now()}
		l.buckets[identity] = b
	}
	l.resetExpiry(identity, b)

	now := time.Now()
	b.tokens = min(l.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*l.rate)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// resetExpiry arms the idle cleanup timer; caller holds l.mu.
func (l *Limiter) resetExpiry(identity string, b *bucket) {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(l.idleTTL, func() {
		l.mu.Lock()
		delete(l.buckets, identity)
		l.mu.Unlock()
	})
}
