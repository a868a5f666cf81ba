package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// collectionPageSize is how many collections one page shows.
const collectionPageSize = 10

// pagerPrefix tags the pager's button custom IDs.
const pagerPrefix = "collection-page:"

// collectionPage renders one page of a user's collections plus the pager
// buttons. The custom IDs carry the owner and offset so the button handler
// is stateless.
func collectionPage(userID string, cols []*db.Collection, offset int) (string, []discordgo.MessageComponent) {
	if len(cols) == 0 {
		return "You have no collections yet. Create one with `/collection add`.", nil
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(cols) {
		offset = (len(cols) - 1) / collectionPageSize * collectionPageSize
	}
	end := offset + collectionPageSize
	if end > len(cols) {
		end = len(cols)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your collections (%d-%d of %d):\n", offset+1, end, len(cols))
	for _, col := range cols[offset:end] {
		fmt.Fprintf(&b, "- **%s**\n", col.Name)
	}

	if len(cols) <= collectionPageSize {
		return b.String(), nil
	}

	row := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Previous",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("%s%s:%d", pagerPrefix, userID, offset-collectionPageSize),
				Disabled: offset == 0,
			},
			discordgo.Button{
				Label:    "Next",
				Style:    discordgo.SecondaryButton,
				CustomID: fmt.Sprintf("%s%s:%d", pagerPrefix, userID, offset+collectionPageSize),
				Disabled: end >= len(cols),
			},
		},
	}
	return b.String(), []discordgo.MessageComponent{row}
}

// CollectionLister is the persistence slice the pager needs.
type CollectionLister interface {
	ListCollections(ctx context.Context, userID string) ([]*db.Collection, error)
}

// CollectionPager handles the pager buttons on collection lists. It is the
// single clickable-component collaborator the dispatcher knows about.
type CollectionPager struct {
	store CollectionLister
}

// NewCollectionPager creates the pager component handler.
func NewCollectionPager(store CollectionLister) *CollectionPager {
	return &CollectionPager{store: store}
}

func (p *CollectionPager) Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	customID := i.MessageComponentData().CustomID

	rest, ok := strings.CutPrefix(customID, pagerPrefix)
	if !ok {
		return discord.Ephemeral("This control isn't supported yet."), nil
	}
	ownerID, offsetStr, ok := strings.Cut(rest, ":")
	if !ok {
		return discord.Ephemeral("This control isn't supported yet."), nil
	}

	// Pager state is per-owner; other users clicking the buttons see their
	// click rejected rather than the owner's page flipping.
	if discord.InvokerID(i) != ownerID {
		return discord.Ephemeral("Only the list owner can page through it."), nil
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		offset = 0
	}

	cols, err := p.store.ListCollections(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	content, components := collectionPage(ownerID, cols, offset)
	return discord.UpdateMessage(content, components), nil
}
