package outcome

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/tasks"
)

// captureWriter records inserts and can be scripted to fail.
type capturedInsert struct {
	command, userID, guildID string
	success                  bool
}

type captureWriter struct {
	mu      sync.Mutex
	inserts []capturedInsert
	ctxErr  error
	err     error
}

func (w *captureWriter) InsertOutcome(ctx context.Context, command, userID, guildID string, success bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctxErr = ctx.Err()
	w.inserts = append(w.inserts, capturedInsert{command, userID, guildID, success})
	return w.err
}

func (w *captureWriter) all() []capturedInsert {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]capturedInsert(nil), w.inserts...)
}

type RecorderSuite struct {
	suite.Suite
	writer   *captureWriter
	tracker  *tasks.Tracker
	recorder *StoreRecorder
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.writer = &captureWriter{}
	s.tracker = tasks.NewTracker(logger)
	s.recorder = NewStoreRecorder(s.writer, s.tracker, logger)
}

func (s *RecorderSuite) TestRecordWritesThroughTracker() {
	s.recorder.Record(context.Background(), Outcome{
		Command: "dye", UserID: "u1", GuildID: "g1", Success: true,
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	inserts := s.writer.all()
	require.Len(s.T(), inserts, 1)
	require.Equal(s.T(), capturedInsert{"dye", "u1", "g1", true}, inserts[0])
}

func (s *RecorderSuite) TestWriteFailureIsSwallowed() {
	s.writer.err = errors.New("disk full")

	// Must not panic and must not surface anywhere.
	s.recorder.Record(context.Background(), Outcome{Command: "match", UserID: "u1"})
	require.True(s.T(), s.tracker.Wait(time.Second))
	require.Len(s.T(), s.writer.all(), 1)
}

func (s *RecorderSuite) TestRecordSurvivesCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The request context is gone by the time the write runs; the insert
	// must still see a live context.
	s.recorder.Record(ctx, Outcome{Command: "dye", UserID: "u1", Success: true})
	require.True(s.T(), s.tracker.Wait(time.Second))
	require.Len(s.T(), s.writer.all(), 1)
	require.NoError(s.T(), s.writer.ctxErr)
}

func (s *RecorderSuite) TestDirectMessageOutcomeHasNoGuild() {
	s.recorder.Record(context.Background(), Outcome{Command: "help", UserID: "u2", Success: false})
	require.True(s.T(), s.tracker.Wait(time.Second))

	inserts := s.writer.all()
	require.Len(s.T(), inserts, 1)
	require.Empty(s.T(), inserts[0].guildID)
	require.False(s.T(), inserts[0].success)
}
