package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/config"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
)

func newCommandsRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register the slash commands with Discord",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			session, err := discord.NewSession(cfg.DiscordToken)
			if err != nil {
				return err
			}

			for _, c := range discord.Commands() {
				created, err := session.ApplicationCommandCreate(cfg.DiscordAppID, "", c)
				if err != nil {
					return fmt.Errorf("registering command %q: %w", c.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", created.Name, created.ID)
			}
			return nil
		},
	}
}

func newCommandsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Remove all registered slash commands from Discord",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			session, err := discord.NewSession(cfg.DiscordToken)
			if err != nil {
				return err
			}

			cmds, err := session.ApplicationCommands(cfg.DiscordAppID, "")
			if err != nil {
				return fmt.Errorf("listing commands: %w", err)
			}
			for _, c := range cmds {
				if err := session.ApplicationCommandDelete(cfg.DiscordAppID, "", c.ID); err != nil {
					return fmt.Errorf("deleting command %q: %w", c.Name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%s)\n", c.Name, c.ID)
			}
			return nil
		},
	}
}
