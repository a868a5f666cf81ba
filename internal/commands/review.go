package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// reviewQueueSize caps how many submissions one queue reply lists.
const reviewQueueSize = 10

// ReviewStore is the persistence slice the review command needs.
type ReviewStore interface {
	SearchSubmissions(ctx context.Context, status db.SubmissionStatus, prefix string, limit int) ([]*db.Submission, error)
	GetSubmission(ctx context.Context, id int64) (*db.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status db.SubmissionStatus) error
	ListSubmissionsByUser(ctx context.Context, userID string) ([]*db.Submission, error)
}

// Review is the moderation command: browse the queue, decide submissions,
// look up a user's history. Discord's permission gate keeps it to
// moderators; the worker trusts that gate.
type Review struct {
	store ReviewStore
}

// NewReview creates the review command handler.
func NewReview(store ReviewStore) *Review {
	return &Review{store: store}
}

func (c *Review) Name() string { return "review" }

func (c *Review) Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	sub, opts := commandOptions(i)

	switch sub {
	case "queue":
		return c.queue(ctx, opts)
	case "decide":
		return c.decide(ctx, opts)
	case "lookup":
		return c.lookup(ctx, opts)
	default:
		return discord.Ephemeral("This command isn't available yet."), nil
	}
}

func (c *Review) queue(ctx context.Context, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.InteractionResponse, error) {
	status := db.SubmissionStatus(stringOption(opts, "status"))
	if status == "" {
		status = db.SubmissionPending
	}
	prefix := stringOption(opts, "submission")

	subs, err := c.store.SearchSubmissions(ctx, status, prefix, reviewQueueSize)
	if err != nil {
		return nil, fmt.Errorf("searching submissions: %w", err)
	}
	if len(subs) == 0 {
		return discord.Ephemeral(fmt.Sprintf("No %s submissions.", status)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Submissions (%s):\n", status)
	for _, s := range subs {
		fmt.Fprintf(&b, "- #%d **%s** by %s (%s)\n", s.ID, s.Name, s.UserName, s.CreatedAt.Format("2006-01-02"))
	}
	return discord.Ephemeral(b.String()), nil
}

func (c *Review) decide(ctx context.Context, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.InteractionResponse, error) {
	id := intOption(opts, "submission_id")
	decision := db.SubmissionStatus(stringOption(opts, "decision"))

	if decision != db.SubmissionApproved && decision != db.SubmissionDenied {
		return discord.Ephemeral("Decision must be approve or deny."), nil
	}

	sub, err := c.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting submission %d: %w", id, err)
	}
	if sub == nil {
		return discord.Ephemeral(fmt.Sprintf("No submission #%d.", id)), nil
	}

	if err := c.store.UpdateSubmissionStatus(ctx, id, decision); err != nil {
		return nil, fmt.Errorf("updating submission %d: %w", id, err)
	}

	return discord.Ephemeral(fmt.Sprintf("Submission #%d **%s** is now %s.", id, sub.Name, decision)), nil
}

func (c *Review) lookup(ctx context.Context, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.InteractionResponse, error) {
	// The autocomplete choice carries the user ID as its value; free-typed
	// input may be a username and simply won't match anything.
	userID := stringOption(opts, "user")

	subs, err := c.store.ListSubmissionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing submissions for %q: %w", userID, err)
	}
	if len(subs) == 0 {
		return discord.Ephemeral("No submissions from that user."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Submissions from %s:\n", subs[0].UserName)
	for _, s := range subs {
		fmt.Fprintf(&b, "- #%d **%s**: %s (%s)\n", s.ID, s.Name, s.Status, s.CreatedAt.Format("2006-01-02"))
	}
	return discord.Ephemeral(b.String()), nil
}
