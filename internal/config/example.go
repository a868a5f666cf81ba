package config

// ExampleConfig is written by `dyeworker onboard` as a starting point.
const ExampleConfig = `{
  // Discord application credentials (Developer Portal -> General Information).
  "discord_public_key": "",
  "discord_app_id": "",
  "discord_token": "",

  // Shared secret for the internal submission-notification webhook.
  "webhook_secret": "",

  // HTTP listen address for the interactions endpoint.
  "listen_addr": ":8787",

  // Redis backing the per-user rate-limit counters.
  "redis_addr": "localhost:6379",

  // Per-command rate limit overrides (requests per window).
  "rate_limit_overrides": {
    "match": 5,
    "info": 60,
  },

  // Channels that receive preset submission notifications.
  "approved_channel_id": "",
  "denied_channel_id": "",

  // Optional Slack mirror for submission notifications.
  "slack_token": "",
  "slack_channel_id": "",
}
`
