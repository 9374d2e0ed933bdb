// Package ratelimit implements C2: an outbound session limiter with pacing
// jitter, and an inbound per-client sliding-window limiter, grounded on the
// teacher's internal/scraper/workers/limiter.go RateLimiter/DomainLimiter.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// OutboundLimiter paces a scrape session's own outbound fetches: a hard cap
// on requests per session plus randomized inter-request delay.
type OutboundLimiter struct {
	mu           sync.Mutex
	maxRequests  int
	delayMin     time.Duration
	delayMax     time.Duration
	requestCount int
	lastRequest  time.Time
}

const (
	defaultMaxRequestsPerSession = 50
	defaultDelayMin              = 2 * time.Second
	defaultDelayMax              = 5 * time.Second
)

// NewOutboundLimiter builds an outbound limiter with the spec's defaults.
func NewOutboundLimiter() *OutboundLimiter {
	return &OutboundLimiter{
		maxRequests: defaultMaxRequestsPerSession,
		delayMin:    defaultDelayMin,
		delayMax:    defaultDelayMax,
	}
}

// CanRequest is a non-blocking check of whether the session budget remains.
func (l *OutboundLimiter) CanRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requestCount < l.maxRequests
}

// WaitAndIncrement suspends the caller until pacing is satisfied (minimum
// spacing plus jitter since the last outbound request), then increments the
// session counter. It is a cancellation suspension point: ctx.Done() aborts
// the wait early.
func (l *OutboundLimiter) WaitAndIncrement(ctx context.Context) {
	l.mu.Lock()
	elapsed := time.Since(l.lastRequest)
	jitter := l.delayMin + time.Duration(rand.Int63n(int64(l.delayMax-l.delayMin+1)))
	wait := jitter - elapsed
	l.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}

	l.mu.Lock()
	l.requestCount++
	l.lastRequest = time.Now()
	l.mu.Unlock()
}

// Reset zeroes the session counter; an explicit operation, never automatic.
func (l *OutboundLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requestCount = 0
}

// RequestsRemaining returns max(0, MAX - requestCount).
func (l *OutboundLimiter) RequestsRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	remaining := l.maxRequests - l.requestCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
