package commands

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/followup"
)

// Renderer produces swatch images. Implemented by palette.Service.
type Renderer interface {
	Swatch(hex string) ([]byte, error)
}

// DyeGetter is the catalog slice the dye command needs.
type DyeGetter interface {
	GetDyeByName(ctx context.Context, name string) (*db.DyeItem, error)
}

// Dye shows a dye's color and details with a rendered swatch. Rendering can
// outlast the response budget, so the reply is deferred.
type Dye struct {
	catalog   DyeGetter
	renderer  Renderer
	deferrals *followup.Coordinator
}

// NewDye creates the dye command handler.
func NewDye(catalog DyeGetter, renderer Renderer, deferrals *followup.Coordinator) *Dye {
	return &Dye{catalog: catalog, renderer: renderer, deferrals: deferrals}
}

func (c *Dye) Name() string { return "dye" }

func (c *Dye) Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	_, opts := commandOptions(i)
	name := strings.TrimSpace(stringOption(opts, "item"))
	if name == "" {
		return discord.Ephemeral("Tell me which dye you're after."), nil
	}

	return c.deferrals.Defer(ctx, i, false, func(ctx context.Context) (*followup.Completion, error) {
		item, err := c.catalog.GetDyeByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("looking up dye %q: %w", name, err)
		}
		if item == nil {
			return &followup.Completion{
				Content: fmt.Sprintf("No dye called **%s** in the catalog.", name),
			}, nil
		}

		img, err := c.renderer.Swatch(item.Hex)
		if err != nil {
			return nil, fmt.Errorf("rendering swatch for %q: %w", item.Name, err)
		}

		return &followup.Completion{
			Content: fmt.Sprintf("**%s**: %s (%s)", item.Name, item.Hex, item.Category),
			Files: []*discordgo.File{{
				Name:        "swatch.png",
				ContentType: "image/png",
				Reader:      bytes.NewReader(img),
			}},
		}, nil
	}), nil
}
