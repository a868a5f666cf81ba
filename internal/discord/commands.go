package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Commands returns the slash command definitions for the worker.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "dye",
			Description: "Show a dye's color and details",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "item",
					Description:  "Dye name",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "match",
			Description: "Find the dyes closest to a color",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "color",
					Description: "Hex color, e.g. #7f3faa",
					Required:    true,
				},
			},
		},
		{
			Name:        "collection",
			Description: "Manage your dye collections",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Create a new collection",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Collection name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your collections",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Delete one of your collections",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "name",
							Description:  "Collection name",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
			},
		},
		{
			Name:        "preset",
			Description: "Submit a dye preset for the community gallery",
		},
		{
			Name:        "report",
			Description: "Report a wrong or outdated dye entry",
		},
		{
			Name:        "review",
			Description: "Moderation tools for preset submissions",
			DefaultMemberPermissions: func() *int64 {
				p := int64(discordgo.PermissionManageMessages)
				return &p
			}(),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "queue",
					Description: "Browse submissions by status",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "status",
							Description: "Submission status",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "pending", Value: "pending"},
								{Name: "approved", Value: "approved"},
								{Name: "denied", Value: "denied"},
							},
						},
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "submission",
							Description:  "Submission name",
							Required:     false,
							Autocomplete: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "decide",
					Description: "Approve or deny a submission",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "submission_id",
							Description: "ID of the submission",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "decision",
							Description: "Decision",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "approve", Value: "approved"},
								{Name: "deny", Value: "denied"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lookup",
					Description: "Look up a user's submission history",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "user",
							Description:  "Username",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
			},
		},
		{
			Name:        "info",
			Description: "About this bot",
		},
		{
			Name:        "help",
			Description: "How to use the dye tools",
		},
	}
}
