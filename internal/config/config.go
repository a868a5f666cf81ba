package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// Config holds all application configuration loaded from config.json.
type Config struct {
	DiscordPublicKey   string
	DiscordAppID       string
	DiscordToken       string
	WebhookSecret      string
	ListenAddr         string
	RedisAddr          string
	DBPath             string
	LogLevel           string
	LogFormat          string
	RateLimitWindow    time.Duration
	RateLimitDefault   int
	RateLimitOverrides map[string]int
	ApprovedChannelID  string
	DeniedChannelID    string
	SlackToken         string
	SlackChannelID     string
	OutcomeRetention   time.Duration
	WorkerDir          string
}

// jsonConfig is an intermediate struct for JSON unmarshalling.
// Pointer types for numerics distinguish "missing" (nil) from "zero".
type jsonConfig struct {
	DiscordPublicKey    string         `json:"discord_public_key"`
	DiscordAppID        string         `json:"discord_app_id"`
	DiscordToken        string         `json:"discord_token"`
	WebhookSecret       string         `json:"webhook_secret"`
	ListenAddr          string         `json:"listen_addr"`
	RedisAddr           string         `json:"redis_addr"`
	DBPath              string         `json:"db_path"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	RateLimitWindowSec  *int           `json:"rate_limit_window_sec"`
	RateLimitDefault    *int           `json:"rate_limit_default"`
	RateLimitOverrides  map[string]int `json:"rate_limit_overrides"`
	ApprovedChannelID   string         `json:"approved_channel_id"`
	DeniedChannelID     string         `json:"denied_channel_id"`
	SlackToken          string         `json:"slack_token"`
	SlackChannelID      string         `json:"slack_channel_id"`
	OutcomeRetentionDay *int           `json:"outcome_retention_days"`
}

// userHomeDir is a package-level variable to allow overriding in tests.
var userHomeDir = os.UserHomeDir

// readFile is a package-level variable to allow overriding in tests.
var readFile = os.ReadFile

// Load reads configuration from ~/.xivdyetools/config.json and returns a Config.
// The file is HuJSON, so comments and trailing commas are allowed.
func Load() (*Config, error) {
	home, err := userHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	workerDir := filepath.Join(home, ".xivdyetools")
	configPath := filepath.Join(workerDir, "config.json")

	data, err := readFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data, workerDir)
}

// Parse builds a Config from raw HuJSON bytes, applying defaults and
// validating required fields.
func Parse(data []byte, workerDir string) (*Config, error) {
	standardJSON, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(standardJSON, &jc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		DiscordPublicKey:   jc.DiscordPublicKey,
		DiscordAppID:       jc.DiscordAppID,
		DiscordToken:       jc.DiscordToken,
		WebhookSecret:      jc.WebhookSecret,
		ListenAddr:         stringDefault(jc.ListenAddr, ":8787"),
		RedisAddr:          stringDefault(jc.RedisAddr, "localhost:6379"),
		DBPath:             stringDefault(jc.DBPath, filepath.Join(workerDir, "dyetools.db")),
		LogLevel:           stringDefault(jc.LogLevel, "info"),
		LogFormat:          stringDefault(jc.LogFormat, "text"),
		RateLimitWindow:    time.Duration(intPtrDefault(jc.RateLimitWindowSec, 60)) * time.Second,
		RateLimitDefault:   intPtrDefault(jc.RateLimitDefault, 20),
		RateLimitOverrides: overridesDefault(jc.RateLimitOverrides),
		ApprovedChannelID:  jc.ApprovedChannelID,
		DeniedChannelID:    jc.DeniedChannelID,
		SlackToken:         jc.SlackToken,
		SlackChannelID:     jc.SlackChannelID,
		OutcomeRetention:   time.Duration(intPtrDefault(jc.OutcomeRetentionDay, 90)) * 24 * time.Hour,
		WorkerDir:          workerDir,
	}

	var missing []string
	if cfg.DiscordPublicKey == "" {
		missing = append(missing, "discord_public_key")
	}
	if cfg.DiscordAppID == "" {
		missing = append(missing, "discord_app_id")
	}
	if cfg.DiscordToken == "" {
		missing = append(missing, "discord_token")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required config fields: %v", missing)
	}

	return cfg, nil
}

func stringDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def
}

func intPtrDefault(val *int, def int) int {
	if val != nil {
		return *val
	}
	return def
}

// overridesDefault supplies the stock per-command capacities when the config
// has none. The match command's catalog scan is the heaviest call the worker
// makes, so it gets a tighter budget out of the box.
func overridesDefault(overrides map[string]int) map[string]int {
	if overrides != nil {
		return overrides
	}
	return map[string]int{"match": 5}
}
