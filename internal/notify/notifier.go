// Package notify turns internal submission-review notifications into
// messages on the configured Discord channels, with an optional Slack
// mirror for the moderation team.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	goslack "github.com/slack-go/slack"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// NoticeTypeSubmissionReviewed is the only notification type this worker
// accepts on the internal webhook.
const NoticeTypeSubmissionReviewed = "submission.reviewed"

// ErrUnknownNoticeType is returned for notification types outside the known
// set; the webhook maps it to a client error.
var ErrUnknownNoticeType = errors.New("unknown notification type")

// ErrInvalidNotice flags a recognized notice whose payload cannot be routed,
// such as a missing submission or one still pending review. Also a client
// error at the webhook.
var ErrInvalidNotice = errors.New("invalid notice")

// Notice is the internal webhook payload.
type Notice struct {
	Type       string         `json:"type"`
	Submission *db.Submission `json:"submission"`
}

// SlackPoster is the slice of the Slack client used for mirroring.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...goslack.MsgOption) (string, string, error)
}

// Notifier routes review notices to the approved or denied submissions
// channel depending on the record's status.
type Notifier struct {
	session           discord.Session
	slack             SlackPoster // nil when no mirror is configured
	slackChannelID    string
	approvedChannelID string
	deniedChannelID   string
	logger            *slog.Logger
}

// NewNotifier creates a Notifier. slack may be nil to disable mirroring.
func NewNotifier(session discord.Session, slack SlackPoster, slackChannelID, approvedChannelID, deniedChannelID string, logger *slog.Logger) *Notifier {
	return &Notifier{
		session:           session,
		slack:             slack,
		slackChannelID:    slackChannelID,
		approvedChannelID: approvedChannelID,
		deniedChannelID:   deniedChannelID,
		logger:            logger,
	}
}

// Handle processes one notice: validates the type, picks the destination
// channel by submission status, and sends the announcement. The Slack
// mirror is best-effort and never fails the notice.
func (n *Notifier) Handle(ctx context.Context, notice *Notice) error {
	if notice.Type != NoticeTypeSubmissionReviewed {
		return fmt.Errorf("%w: %q", ErrUnknownNoticeType, notice.Type)
	}
	if notice.Submission == nil {
		return fmt.Errorf("%w: no submission", ErrInvalidNotice)
	}
	sub := notice.Submission

	var channelID, verdict string
	switch sub.Status {
	case db.SubmissionApproved:
		channelID = n.approvedChannelID
		verdict = "approved"
	case db.SubmissionDenied:
		channelID = n.deniedChannelID
		verdict = "denied"
	default:
		return fmt.Errorf("%w: submission %d has non-final status %q", ErrInvalidNotice, sub.ID, sub.Status)
	}
	if channelID == "" {
		return fmt.Errorf("no channel configured for %s submissions", verdict)
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       fmt.Sprintf("Preset %s: %s", verdict, sub.Name),
			Description: sub.Body,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Submitted by %s", sub.UserName)},
		}},
	}
	if _, err := n.session.ChannelMessageSendComplex(channelID, msg); err != nil {
		return fmt.Errorf("announcing submission %d: %w", sub.ID, err)
	}

	n.mirror(ctx, sub, verdict)
	return nil
}

func (n *Notifier) mirror(ctx context.Context, sub *db.Submission, verdict string) {
	if n.slack == nil || n.slackChannelID == "" {
		return
	}

	text := fmt.Sprintf("Preset %s: *%s* by %s", verdict, sub.Name, sub.UserName)
	if _, _, err := n.slack.PostMessageContext(ctx, n.slackChannelID, goslack.MsgOptionText(text, false)); err != nil {
		n.logger.Warn("slack mirror failed", "submission_id", sub.ID, "error", err)
	}
}
