package followup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/tasks"
)

// recordingSession captures interaction response edits.
type recordingSession struct {
	mu      sync.Mutex
	edits   []*discordgo.WebhookEdit
	editErr error
}

func (m *recordingSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, edit)
	return &discordgo.Message{}, m.editErr
}

func (m *recordingSession) FollowupMessageCreate(*discordgo.Interaction, bool, *discordgo.WebhookParams, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (m *recordingSession) ChannelMessageSendComplex(string, *discordgo.MessageSend, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (m *recordingSession) ApplicationCommandCreate(string, string, *discordgo.ApplicationCommand, ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	return nil, nil
}

func (m *recordingSession) ApplicationCommands(string, string, ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return nil, nil
}

func (m *recordingSession) ApplicationCommandDelete(string, string, string, ...discordgo.RequestOption) error {
	return nil
}

func (m *recordingSession) allEdits() []*discordgo.WebhookEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*discordgo.WebhookEdit(nil), m.edits...)
}

type CoordinatorSuite struct {
	suite.Suite
	session *recordingSession
	tracker *tasks.Tracker
	coord   *Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.session = &recordingSession{}
	s.tracker = tasks.NewTracker(logger)
	s.coord = NewCoordinator(s.session, s.tracker, logger)
}

func (s *CoordinatorSuite) interaction() *discordgo.Interaction {
	return &discordgo.Interaction{ID: "i1", Token: "tok"}
}

func (s *CoordinatorSuite) TestDeferReturnsPlaceholder() {
	resp := s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return &Completion{Content: "done"}, nil
	})
	require.Equal(s.T(), discordgo.InteractionResponseDeferredChannelMessageWithSource, resp.Type)
	require.Zero(s.T(), resp.Data.Flags)
	require.True(s.T(), s.tracker.Wait(time.Second))
}

func (s *CoordinatorSuite) TestDeferEphemeralFlag() {
	resp := s.coord.Defer(context.Background(), s.interaction(), true, func(context.Context) (*Completion, error) {
		return &Completion{Content: "done"}, nil
	})
	require.Equal(s.T(), discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	require.True(s.T(), s.tracker.Wait(time.Second))
}

func (s *CoordinatorSuite) TestSuccessCompletesExactlyOnce() {
	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return &Completion{Content: "all done"}, nil
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Equal(s.T(), "all done", *edits[0].Content)
	require.Nil(s.T(), edits[0].Embeds)
}

func (s *CoordinatorSuite) TestCompletionSurvivesCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	s.coord.Defer(ctx, s.interaction(), false, func(ctx context.Context) (*Completion, error) {
		<-started
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &Completion{Content: "all done"}, nil
	})

	// The HTTP layer cancels the request context as soon as the deferred
	// acknowledgment goes out; the scheduled work must not inherit that.
	cancel()
	close(started)
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Equal(s.T(), "all done", *edits[0].Content)
}

func (s *CoordinatorSuite) TestWorkErrorCompletesWithFailureMessage() {
	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return nil, errors.New("backend down")
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Contains(s.T(), *edits[0].Content, "Something went wrong")
}

func (s *CoordinatorSuite) TestWorkPanicCompletesWithFailureMessage() {
	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		panic("worker exploded")
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Contains(s.T(), *edits[0].Content, "Something went wrong")
}

func (s *CoordinatorSuite) TestNilCompletionIsAFault() {
	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return nil, nil
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Contains(s.T(), *edits[0].Content, "Something went wrong")
}

func (s *CoordinatorSuite) TestFailureMessageFollowsLocale() {
	i := s.interaction()
	i.Locale = discordgo.German

	s.coord.Defer(context.Background(), i, false, func(context.Context) (*Completion, error) {
		return nil, errors.New("backend down")
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.Contains(s.T(), *edits[0].Content, "schiefgelaufen")
}

func (s *CoordinatorSuite) TestExpiredTokenEditFailureIsSwallowed() {
	s.session.editErr = errors.New("Unknown Webhook")

	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return &Completion{Content: "too late"}, nil
	})
	// The task still settles; the failed edit is terminal and not retried.
	require.True(s.T(), s.tracker.Wait(time.Second))
	require.Len(s.T(), s.session.allEdits(), 1)
}

func (s *CoordinatorSuite) TestEmbedsAndFilesForwarded() {
	embed := &discordgo.MessageEmbed{Title: "Snow White"}
	s.coord.Defer(context.Background(), s.interaction(), false, func(context.Context) (*Completion, error) {
		return &Completion{
			Content: "swatch",
			Embeds:  []*discordgo.MessageEmbed{embed},
		}, nil
	})
	require.True(s.T(), s.tracker.Wait(time.Second))

	edits := s.session.allEdits()
	require.Len(s.T(), edits, 1)
	require.NotNil(s.T(), edits[0].Embeds)
	require.Equal(s.T(), "Snow White", (*edits[0].Embeds)[0].Title)
}
