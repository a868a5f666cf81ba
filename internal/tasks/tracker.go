// Package tasks supervises background work that must outlive the
// request/response cycle but still finish before process teardown.
package tasks

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Tracker runs functions on background goroutines and lets the process wait
// for all of them during shutdown. Work is never fire-and-forget: every
// spawned task is joined before Wait returns.
type Tracker struct {
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewTracker creates a Tracker that logs task failures to logger.
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Go runs fn on a new goroutine with ctx detached from cancellation. The
// caller is typically an HTTP handler whose context dies as soon as its
// response is written, which is exactly when background work starts; context
// values survive the detach. Panics are recovered and logged; returned
// errors are logged. Neither propagates anywhere else; a background task has
// no caller left to report to.
func (t *Tracker) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error("background task panicked",
					"task", name, "panic", r, "stack", string(debug.Stack()))
			}
		}()

		if err := fn(context.WithoutCancel(ctx)); err != nil {
			t.logger.Error("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until all tracked tasks have settled or the timeout elapses.
// Returns false on timeout.
func (t *Tracker) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
