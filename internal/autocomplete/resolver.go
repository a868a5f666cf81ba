// Package autocomplete resolves partial-input suggestions for in-progress
// command arguments. Autocomplete has no error-reporting channel back to the
// user, so resolution never fails: any collaborator error degrades to an
// empty choice list.
package autocomplete

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// Collaborator search interfaces, one per feature area. Each is a narrow
// slice of a larger store so features can evolve independently.

// DyeSearcher finds selectable dye items by name prefix.
type DyeSearcher interface {
	SearchDyes(ctx context.Context, prefix string, limit int) ([]*db.DyeItem, error)
}

// CollectionSearcher finds a user's collections by name prefix.
type CollectionSearcher interface {
	SearchCollections(ctx context.Context, userID, prefix string, limit int) ([]*db.Collection, error)
}

// SubmissionSearcher finds submissions in a given moderation status.
type SubmissionSearcher interface {
	SearchSubmissions(ctx context.Context, status db.SubmissionStatus, prefix string, limit int) ([]*db.Submission, error)
}

// UserSearcher finds known users by username prefix, for moderation flows.
type UserSearcher interface {
	SearchUsers(ctx context.Context, prefix string, limit int) ([]*db.KnownUser, error)
}

// Resolver dispatches a focused option to the owning feature's search.
type Resolver struct {
	dyes        DyeSearcher
	collections CollectionSearcher
	submissions SubmissionSearcher
	users       UserSearcher
	logger      *slog.Logger
}

// NewResolver creates a Resolver over the given collaborators.
func NewResolver(dyes DyeSearcher, collections CollectionSearcher, submissions SubmissionSearcher, users UserSearcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		dyes:        dyes,
		collections: collections,
		submissions: submissions,
		users:       users,
		logger:      logger,
	}
}

// focused describes the option the user is typing into.
type focused struct {
	command    string
	subcommand string
	option     string
	query      string
	// siblings holds the other options at the focused option's level, for
	// searches scoped by a sibling value (e.g. submission status).
	siblings []*discordgo.ApplicationCommandInteractionDataOption
}

// Resolve returns the autocomplete choices for an interaction. It never
// returns nil and never errors.
func (r *Resolver) Resolve(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.ApplicationCommandData()

	f := findFocused(data)
	if f == nil {
		return discord.Choices(nil)
	}

	choices, err := r.search(ctx, i, f)
	if err != nil {
		r.logger.Warn("autocomplete search failed",
			"command", f.command, "subcommand", f.subcommand, "option", f.option, "error", err)
		choices = nil
	}
	return discord.Choices(choices)
}

// findFocused locates the single focused option: top-level options first,
// then one level of sub-command nesting. Option names are not unique across
// nesting levels, so the subcommand name travels with the result.
func findFocused(data discordgo.ApplicationCommandInteractionData) *focused {
	for _, opt := range data.Options {
		if opt.Focused {
			return &focused{
				command:  data.Name,
				option:   opt.Name,
				query:    fmt.Sprintf("%v", opt.Value),
				siblings: data.Options,
			}
		}
	}
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
			continue
		}
		for _, nested := range opt.Options {
			if nested.Focused {
				return &focused{
					command:    data.Name,
					subcommand: opt.Name,
					option:     nested.Name,
					query:      fmt.Sprintf("%v", nested.Value),
					siblings:   opt.Options,
				}
			}
		}
	}
	return nil
}

func (r *Resolver) search(ctx context.Context, i *discordgo.Interaction, f *focused) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	limit := discord.MaxAutocompleteChoices

	switch {
	case f.command == "dye" && f.option == "item":
		items, err := r.dyes.SearchDyes(ctx, f.query, limit)
		if err != nil {
			return nil, err
		}
		return dyeChoices(items), nil

	case f.command == "collection" && f.option == "name":
		cols, err := r.collections.SearchCollections(ctx, discord.InvokerID(i), f.query, limit)
		if err != nil {
			return nil, err
		}
		return collectionChoices(cols), nil

	case f.command == "review" && f.subcommand == "queue" && f.option == "submission":
		status := db.SubmissionPending
		if v := siblingString(f.siblings, "status"); v != "" {
			status = db.SubmissionStatus(v)
		}
		subs, err := r.submissions.SearchSubmissions(ctx, status, f.query, limit)
		if err != nil {
			return nil, err
		}
		return submissionChoices(subs), nil

	case f.command == "review" && f.subcommand == "lookup" && f.option == "user":
		users, err := r.users.SearchUsers(ctx, f.query, limit)
		if err != nil {
			return nil, err
		}
		return userChoices(users), nil
	}

	return nil, nil
}

// siblingString returns the string value of a non-focused sibling option.
func siblingString(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range opts {
		if opt.Name == name && !opt.Focused {
			if s, ok := opt.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

func dyeChoices(items []*db.DyeItem) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(items))
	for _, item := range items {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  item.Name,
			Value: item.Name,
		})
	}
	return choices
}

func collectionChoices(cols []*db.Collection) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(cols))
	for _, c := range cols {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Name,
			Value: c.Name,
		})
	}
	return choices
}

func submissionChoices(subs []*db.Submission) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(subs))
	for _, sub := range subs {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("#%d %s", sub.ID, sub.Name),
			Value: sub.Name,
		})
	}
	return choices
}

func userChoices(users []*db.KnownUser) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(users))
	for _, u := range users {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  u.Username,
			Value: u.UserID,
		})
	}
	return choices
}
