package core

// limiter.go caps how many analyze requests run at once.
//
// The limiter uses a semaphore channel. When all slots are occupied, new
// requests wait up to maxWait before failing with ErrTooManyRequests.
// WaitForDrain lets shutdown block until in-flight requests finish.

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultMaxConcurrentAnalyses is the default limit for parallel analyze calls.
const DefaultMaxConcurrentAnalyses = 8

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 10 * time.Second

// AnalyzeLimiter controls concurrent analyze processing.
type AnalyzeLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration
	active    atomic.Int64
}

// NewAnalyzeLimiter creates a limiter that allows at most maxConcurrent
// simultaneous analyze calls. Requests that cannot acquire a slot within
// maxWait receive ErrTooManyRequests.
func NewAnalyzeLimiter(maxConcurrent int, maxWait time.Duration) *AnalyzeLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentAnalyses
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &AnalyzeLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. Returns nil on success, ErrTooManyRequests if
// the wait times out, or the context error if ctx ends first.
// The caller MUST call Release() when done (use defer).
func (l *AnalyzeLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManyRequests
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire attempts to acquire a slot without blocking.
func (l *AnalyzeLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *AnalyzeLimiter) Release() {
	l.active.Add(-1)
	<-l.semaphore
}

// ActiveCount returns the number of in-flight analyze calls.
func (l *AnalyzeLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// Available returns the number of free slots.
func (l *AnalyzeLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active calls complete or ctx is cancelled.
func (l *AnalyzeLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LimiterStatus is a snapshot of the limiter's state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *AnalyzeLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.semaphore),
	}
}
