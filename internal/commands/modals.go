package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/dispatch"
)

// Modal custom-ID prefixes. These must stay prefix-disjoint: the dispatcher
// matches them in order and relies on no ID matching two routes.
const (
	presetModalPrefix = "preset-submit:"
	reportModalPrefix = "dye-report:"
)

// Preset opens the preset submission modal.
type Preset struct{}

// NewPreset creates the preset command handler.
func NewPreset() *Preset { return &Preset{} }

func (c *Preset) Name() string { return "preset" }

func (c *Preset) Handle(_ context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	return discord.Modal(
		presetModalPrefix+discord.InvokerID(i),
		"Submit a dye preset",
		[]discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  "name",
					Label:     "Preset name",
					Style:     discordgo.TextInputShort,
					Required:  true,
					MaxLength: 60,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "body",
					Label:       "Dyes and slots",
					Style:       discordgo.TextInputParagraph,
					Required:    true,
					MaxLength:   1000,
					Placeholder: "Head: Snow White\nBody: Wine Red\n...",
				},
			}},
		},
	), nil
}

// Report opens the catalog-correction modal.
type Report struct{}

// NewReport creates the report command handler.
func NewReport() *Report { return &Report{} }

func (c *Report) Name() string { return "report" }

func (c *Report) Handle(_ context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	return discord.Modal(
		reportModalPrefix+discord.InvokerID(i),
		"Report a dye entry",
		[]discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  "item",
					Label:     "Dye name",
					Style:     discordgo.TextInputShort,
					Required:  true,
					MaxLength: 60,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  "details",
					Label:     "What's wrong?",
					Style:     discordgo.TextInputParagraph,
					Required:  true,
					MaxLength: 500,
				},
			}},
		},
	), nil
}

// SubmissionCreator is the persistence slice the preset modal needs.
type SubmissionCreator interface {
	CreateSubmission(ctx context.Context, sub *db.Submission) (int64, error)
	UpsertUser(ctx context.Context, userID, username string) error
}

// ModalRoutes returns the form-submit routing table.
func ModalRoutes(store SubmissionCreator, logger *slog.Logger) []dispatch.ModalRoute {
	return []dispatch.ModalRoute{
		{
			Match: func(id string) bool { return strings.HasPrefix(id, presetModalPrefix) },
			Handle: func(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
				return handlePresetSubmit(ctx, store, i)
			},
		},
		{
			Match: func(id string) bool { return strings.HasPrefix(id, reportModalPrefix) },
			Handle: func(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
				data := i.ModalSubmitData()
				logger.Info("dye report received",
					"user_id", discord.InvokerID(i),
					"item", modalValue(data, "item"),
					"details", modalValue(data, "details"))
				return discord.Ephemeral("Thanks, the report has been passed on."), nil
			},
		},
	}
}

func handlePresetSubmit(ctx context.Context, store SubmissionCreator, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	data := i.ModalSubmitData()
	userID := discord.InvokerID(i)

	name := strings.TrimSpace(modalValue(data, "name"))
	body := strings.TrimSpace(modalValue(data, "body"))
	if name == "" || body == "" {
		return discord.Ephemeral("Both a name and the dye list are required."), nil
	}

	if err := store.UpsertUser(ctx, userID, discord.InvokerName(i)); err != nil {
		return nil, fmt.Errorf("recording user: %w", err)
	}

	id, err := store.CreateSubmission(ctx, &db.Submission{
		UserID:   userID,
		UserName: discord.InvokerName(i),
		Name:     name,
		Body:     body,
		Status:   db.SubmissionPending,
	})
	if err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	return discord.Ephemeral(fmt.Sprintf(
		"Submitted **%s** (#%d) for review. You'll hear back once a moderator takes a look.", name, id)), nil
}
