// pkg/engine/scheduler.go
package engine

import (
	"context"
	"sync"
	"time"
)

// WallClock reports monotonic milliseconds since it was created.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a clock starting at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns the elapsed milliseconds.
func (c *WallClock) Now() float64 {
	return float64(time.Since(c.start).Nanoseconds()) / 1e6
}

// ManualScheduler queues callbacks until Pump is called. It stands in for a
// host animation-frame queue: callbacks scheduled while pumping run on the
// next Pump.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn for the next Pump.
func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Pump runs the callbacks queued before the call and returns how many ran.
func (s *ManualScheduler) Pump() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// TickerScheduler pumps a ManualScheduler from a time.Ticker, for front ends
// without their own frame callback.
type TickerScheduler struct {
	*ManualScheduler
	interval time.Duration
}

// NewTickerScheduler creates a scheduler pumping every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{
		ManualScheduler: NewManualScheduler(),
		interval:        interval,
	}
}

// Run pumps until ctx is cancelled. onTick, if set, runs before each pump.
func (s *TickerScheduler) Run(ctx context.Context, onTick func()) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if onTick != nil {
				onTick()
			}
			s.Pump()
		}
	}
}
