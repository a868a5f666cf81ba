// Package outcome records per-command success/failure telemetry off the
// response path.
package outcome

import (
	"context"
	"log/slog"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/tasks"
)

// Outcome is a fire-and-forget fact about one command invocation.
type Outcome struct {
	Command string
	UserID  string
	GuildID string // empty for direct messages
	Success bool
}

// Recorder accepts outcome facts. Implementations must never block or fail
// the response that has already been sent.
type Recorder interface {
	Record(ctx context.Context, o Outcome)
}

// Writer is the persistence hook the recorder forwards to. Satisfied by
// db.Store.
type Writer interface {
	InsertOutcome(ctx context.Context, command, userID, guildID string, success bool) error
}

// StoreRecorder persists outcomes through a Writer on the background task
// tracker, so recording runs after the response is out the door. Write
// failures are logged and swallowed.
type StoreRecorder struct {
	writer  Writer
	tracker *tasks.Tracker
	logger  *slog.Logger
}

// NewStoreRecorder creates a StoreRecorder.
func NewStoreRecorder(writer Writer, tracker *tasks.Tracker, logger *slog.Logger) *StoreRecorder {
	return &StoreRecorder{writer: writer, tracker: tracker, logger: logger}
}

// Record schedules the outcome write. It never returns an error and never
// touches the already-delivered response.
func (r *StoreRecorder) Record(ctx context.Context, o Outcome) {
	r.tracker.Go(ctx, "outcome:"+o.Command, func(ctx context.Context) error {
		if err := r.writer.InsertOutcome(ctx, o.Command, o.UserID, o.GuildID, o.Success); err != nil {
			r.logger.Warn("recording outcome failed",
				"command", o.Command, "user_id", o.UserID, "error", err)
		}
		return nil
	})
}
