package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// Result is the outcome of a single quota check. It is computed fresh on
// every call and never persisted.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // whole seconds until the window resets; set when denied
	KVError    bool
}

// Limiter enforces fixed-window quotas. The window resets the counter to
// zero at fixed intervals rather than sliding continuously.
type Limiter struct {
	store      Store
	window     time.Duration
	defaultCap int
	overrides  map[string]int
	logger     *slog.Logger

	// now is swapped out in tests to simulate window expiry.
	now func() time.Time
}

// New creates a Limiter. overrides maps command names to capacities that
// differ from defaultCap; commands with a heavy backend get a smaller
// capacity, trivially cheap ones a larger one.
func New(store Store, window time.Duration, defaultCap int, overrides map[string]int, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:      store,
		window:     window,
		defaultCap: defaultCap,
		overrides:  overrides,
		logger:     logger,
		now:        time.Now,
	}
}

// Capacity returns the configured capacity for a command.
func (l *Limiter) Capacity(command string) int {
	if cap, ok := l.overrides[command]; ok {
		return cap
	}
	return l.defaultCap
}

// Check consumes one unit of quota for (userID, command). The read-modify-
// write is not atomic: two concurrent requests from the same user can both
// pass before either write lands, so the effective cap can be exceeded by a
// small margin. That is accepted.
//
// Any store failure makes the limiter fail open: the request is allowed with
// full remaining quota and KVError is set so callers can log store
// unavailability without surfacing it to the end user.
func (l *Limiter) Check(ctx context.Context, userID, command string) Result {
	capacity := l.Capacity(command)
	now := l.now()
	key := Key(userID, command)

	rec, err := l.store.Get(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit store read failed, failing open", "key", key, "error", err)
		return Result{Allowed: true, Remaining: capacity, ResetAt: now.Add(l.window), KVError: true}
	}

	// Fresh window when there is no record or the current one has elapsed.
	if rec == nil || !now.Before(rec.WindowStart.Add(l.window)) {
		rec = &Record{Count: 0, WindowStart: now}
	}
	rec.Count++

	resetAt := rec.WindowStart.Add(l.window)

	// The updated record is written back unconditionally, even on denial,
	// so repeated over-limit calls keep counting against the same window.
	if err := l.store.Put(ctx, key, *rec); err != nil {
		l.logger.Warn("rate limit store write failed, failing open", "key", key, "error", err)
		return Result{Allowed: true, Remaining: capacity, ResetAt: resetAt, KVError: true}
	}

	if rec.Count > capacity {
		retryAfter := int(math.Ceil(resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt, RetryAfter: retryAfter}
	}

	return Result{Allowed: true, Remaining: capacity - rec.Count, ResetAt: resetAt}
}
