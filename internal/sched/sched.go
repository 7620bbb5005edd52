// Package sched owns the console's timers: fixed-interval refresh polling
// and debounced change propagation. Every task is cancellable and must be
// stopped when the owning screen tears down.
package sched

import (
	"context"
	"sync"
	"time"
)

// Poller invokes a refresh function at a fixed interval until stopped.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartPoller begins polling immediately on the interval. The refresh
// function receives a context that is cancelled when the poller stops.
func StartPoller(ctx context.Context, interval time.Duration, refresh func(context.Context)) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh(ctx)
			}
		}
	}()

	return p
}

// Stop cancels the poller and waits for the poll goroutine to exit. Safe to
// call more than once.
func (p *Poller) Stop() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
}

// Debouncer collapses a burst of triggers into a single callback invocation
// after a quiet period.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, replacing any pending
// invocation from an earlier trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
