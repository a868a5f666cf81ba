package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

// Info shows a short blurb about the bot. No backend cost, so it sits on
// the rate-limit exemption list.
type Info struct {
	version string
}

// NewInfo creates the info command handler.
func NewInfo(version string) *Info {
	return &Info{version: version}
}

func (c *Info) Name() string { return "info" }

func (c *Info) Handle(_ context.Context, _ *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	return discord.EphemeralEmbed(&discordgo.MessageEmbed{
		Title:       "XIV Dye Tools",
		Description: "Dye lookup, color matching, and preset sharing for glamour enthusiasts.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Version", Value: c.version, Inline: true},
			{Name: "Commands", Value: "`/dye` `/match` `/collection` `/preset` `/report`", Inline: true},
		},
	}), nil
}

// Help lists the available commands. Also quota-exempt.
type Help struct{}

// NewHelp creates the help command handler.
func NewHelp() *Help { return &Help{} }

func (c *Help) Name() string { return "help" }

func (c *Help) Handle(_ context.Context, _ *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	return discord.Ephemeral(
		"**/dye** `item` - show a dye's color and swatch\n" +
			"**/match** `color` - find the dyes closest to a hex color\n" +
			"**/collection** `add|list|remove` - manage your dye collections\n" +
			"**/preset** - submit a preset for the community gallery\n" +
			"**/report** - report a wrong or outdated dye entry\n" +
			"**/review** - moderation tools (requires Manage Messages)"), nil
}
