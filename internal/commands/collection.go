package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// maxCollectionNameLen bounds user-supplied collection names.
const maxCollectionNameLen = 60

// CollectionStore is the persistence slice the collection command needs.
type CollectionStore interface {
	CreateCollection(ctx context.Context, userID, name string) (int64, error)
	DeleteCollection(ctx context.Context, userID, name string) (bool, error)
	ListCollections(ctx context.Context, userID string) ([]*db.Collection, error)
	UpsertUser(ctx context.Context, userID, username string) error
}

// Collection manages a user's named dye collections.
type Collection struct {
	store CollectionStore
}

// NewCollection creates the collection command handler.
func NewCollection(store CollectionStore) *Collection {
	return &Collection{store: store}
}

func (c *Collection) Name() string { return "collection" }

func (c *Collection) Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	sub, opts := commandOptions(i)
	userID := discord.InvokerID(i)

	// Collections are the main place usernames enter the worker's view,
	// so keep the moderation lookup table fresh here.
	if err := c.store.UpsertUser(ctx, userID, discord.InvokerName(i)); err != nil {
		return nil, fmt.Errorf("recording user: %w", err)
	}

	switch sub {
	case "add":
		return c.add(ctx, userID, stringOption(opts, "name"))
	case "list":
		return c.list(ctx, userID, 0)
	case "remove":
		return c.remove(ctx, userID, stringOption(opts, "name"))
	default:
		return discord.Ephemeral("This command isn't available yet."), nil
	}
}

func (c *Collection) add(ctx context.Context, userID, name string) (*discordgo.InteractionResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCollectionNameLen {
		return discord.Ephemeral("Collection names must be 1-60 characters."), nil
	}

	if _, err := c.store.CreateCollection(ctx, userID, name); err != nil {
		// Unique(user, name) violation lands here too; a duplicate name is
		// a user mistake, not a fault.
		if strings.Contains(err.Error(), "UNIQUE") {
			return discord.Ephemeral(fmt.Sprintf("You already have a collection called **%s**.", name)), nil
		}
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return discord.Ephemeral(fmt.Sprintf("Created collection **%s**.", name)), nil
}

func (c *Collection) remove(ctx context.Context, userID, name string) (*discordgo.InteractionResponse, error) {
	name = strings.TrimSpace(name)
	deleted, err := c.store.DeleteCollection(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("deleting collection: %w", err)
	}
	if !deleted {
		return discord.Ephemeral(fmt.Sprintf("You don't have a collection called **%s**.", name)), nil
	}
	return discord.Ephemeral(fmt.Sprintf("Deleted collection **%s**.", name)), nil
}

func (c *Collection) list(ctx context.Context, userID string, offset int) (*discordgo.InteractionResponse, error) {
	cols, err := c.store.ListCollections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	content, components := collectionPage(userID, cols, offset)
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	}, nil
}
