// Package followup bridges Discord's synchronous response budget with work
// that takes longer: it hands back a deferred acknowledgment immediately and
// later replaces the placeholder through the interaction's completion token.
package followup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/tasks"
)

// Completion is the final content that replaces a deferred placeholder.
type Completion struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
	Files   []*discordgo.File
}

// WorkFunc produces the completion for a deferred interaction.
type WorkFunc func(ctx context.Context) (*Completion, error)

// Coordinator schedules deferred work and guarantees exactly one completion
// call per deferred interaction: a success payload if the work finishes, a
// generic failure message if it errors or panics. Never zero, never two.
type Coordinator struct {
	session discord.Session
	tracker *tasks.Tracker
	logger  *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(session discord.Session, tracker *tasks.Tracker, logger *slog.Logger) *Coordinator {
	return &Coordinator{session: session, tracker: tracker, logger: logger}
}

// Defer returns the deferred acknowledgment to send synchronously and
// schedules work to run after the response. The interaction's completion
// token is only valid for a bounded period after the acknowledgment; if the
// work outlives it the completion call fails, which is logged and not
// retried.
func (c *Coordinator) Defer(ctx context.Context, i *discordgo.Interaction, ephemeral bool, work WorkFunc) *discordgo.InteractionResponse {
	locale := i.Locale

	c.tracker.Go(ctx, "followup:"+i.ID, func(ctx context.Context) error {
		completion, err := runGuarded(ctx, work)
		if err != nil {
			c.logger.Error("deferred work failed", "interaction_id", i.ID, "error", err)
			completion = &Completion{Content: failureMessage(locale)}
		}

		edit := &discordgo.WebhookEdit{Content: &completion.Content}
		if len(completion.Embeds) > 0 {
			edit.Embeds = &completion.Embeds
		}
		if len(completion.Files) > 0 {
			edit.Files = completion.Files
		}

		if _, err := c.session.InteractionResponseEdit(i, edit); err != nil {
			// Likely an expired completion token; the placeholder stays
			// unresolved. Accepted terminal failure, not retried.
			c.logger.Error("completion call failed", "interaction_id", i.ID, "error", err)
		}
		return nil
	})

	return discord.Deferred(ephemeral)
}

// runGuarded invokes work, converting panics into errors so the background
// task always settles with exactly one outcome.
func runGuarded(ctx context.Context, work WorkFunc) (completion *Completion, err error) {
	defer func() {
		if r := recover(); r != nil {
			completion = nil
			err = fmt.Errorf("panic in deferred work: %v", r)
		}
	}()

	completion, err = work(ctx)
	if err == nil && completion == nil {
		err = fmt.Errorf("deferred work returned no completion")
	}
	return completion, err
}

// failureMessage returns the generic failure text in the invoker's locale.
// Unknown locales fall back to English.
func failureMessage(locale discordgo.Locale) string {
	switch locale {
	case discordgo.German:
		return "Beim Abschließen deiner Anfrage ist etwas schiefgelaufen. Bitte versuche es erneut."
	case discordgo.French:
		return "Une erreur est survenue lors du traitement de votre demande. Veuillez réessayer."
	case discordgo.Japanese:
		return "リクエストの処理中に問題が発生しました。もう一度お試しください。"
	default:
		return "Something went wrong while finishing your request. Please try again."
	}
}
