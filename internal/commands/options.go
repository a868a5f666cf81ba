// Package commands holds the feature handlers invoked by the dispatcher,
// plus the button and modal collaborators they hand out.
package commands

import (
	"github.com/bwmarrin/discordgo"
)

// commandOptions flattens one level of sub-command nesting: it returns the
// sub-command name (empty when the command has none) and the leaf options
// keyed by name.
func commandOptions(i *discordgo.Interaction) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	data := i.ApplicationCommandData()

	opts := data.Options
	sub := ""
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		sub = opts[0].Name
		opts = opts[0].Options
	}

	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		byName[o.Name] = o
	}
	return sub, byName
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok {
		return ""
	}
	if s, ok := o.Value.(string); ok {
		return s
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	o, ok := opts[name]
	if !ok {
		return 0
	}
	if f, ok := o.Value.(float64); ok {
		return int64(f)
	}
	return 0
}

// modalValue extracts a text input value from a modal submission by custom ID.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if !ok {
				continue
			}
			if input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}
