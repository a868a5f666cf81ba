// Package ratelimit implements a fixed-window per-user, per-command quota
// counter backed by an external key-value store.
package ratelimit

import (
	"context"
	"time"
)

// Record is the persisted counter state for one (user, command) pair.
type Record struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Store persists rate-limit records. Implementations do not need to expire
// records; eviction is left to the store's own policy.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, rec Record) error
}

// Key builds the store key for a (user, command) pair.
func Key(userID, command string) string {
	return "ratelimit:" + userID + ":" + command
}
