package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/config"
)

// Package-level variables to allow overriding in tests.
var (
	osUserHomeDir = os.UserHomeDir
	osMkdirAll    = os.MkdirAll
	osWriteFile   = os.WriteFile
	osStat        = os.Stat
)

func newOnboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Write a starter config file to ~/.xivdyetools/config.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := osUserHomeDir()
			if err != nil {
				return fmt.Errorf("getting home directory: %w", err)
			}
			workerDir := filepath.Join(home, ".xivdyetools")
			configPath := filepath.Join(workerDir, "config.json")

			if _, err := osStat(configPath); err == nil {
				return fmt.Errorf("config already exists at %s", configPath)
			}

			if err := osMkdirAll(workerDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", workerDir, err)
			}
			if err := osWriteFile(configPath, []byte(config.ExampleConfig), 0o600); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; fill in your Discord credentials and run `dyeworker serve`\n", configPath)
			return nil
		},
	}
}
