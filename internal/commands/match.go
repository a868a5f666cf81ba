package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/followup"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/palette"
)

// matchCount is how many nearest dyes to suggest.
const matchCount = 5

// Matcher finds the dyes closest to a color. Implemented by palette.Service.
type Matcher interface {
	Nearest(ctx context.Context, hex string, n int) ([]palette.Match, error)
}

// Match suggests the catalog dyes nearest a target color. The full-catalog
// scan is the heaviest backend call the worker makes, which is why this
// command carries a reduced rate-limit capacity.
type Match struct {
	matcher   Matcher
	deferrals *followup.Coordinator
}

// NewMatch creates the match command handler.
func NewMatch(matcher Matcher, deferrals *followup.Coordinator) *Match {
	return &Match{matcher: matcher, deferrals: deferrals}
}

func (c *Match) Name() string { return "match" }

func (c *Match) Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	_, opts := commandOptions(i)
	hex := strings.TrimSpace(stringOption(opts, "color"))

	if _, err := palette.ParseHex(hex); err != nil {
		return discord.Ephemeral("That doesn't look like a hex color. Try something like `#7f3faa`."), nil
	}

	return c.deferrals.Defer(ctx, i, false, func(ctx context.Context) (*followup.Completion, error) {
		matches, err := c.matcher.Nearest(ctx, hex, matchCount)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", hex, err)
		}
		if len(matches) == 0 {
			return &followup.Completion{Content: "The dye catalog is empty."}, nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Closest dyes to `%s`:\n", hex)
		for rank, m := range matches {
			fmt.Fprintf(&b, "%d. **%s**: %s (%s)\n", rank+1, m.Item.Name, m.Item.Hex, m.Item.Category)
		}
		return &followup.Completion{Content: b.String()}, nil
	}), nil
}
