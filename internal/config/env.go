package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// FromEnv builds a config from environment variables only, for the function
// entry points where no config file is deployed. A .env file in the working
// directory is loaded first when present; existing variables win.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	setString(&cfg.Slack.SigningSecret, "SLACK_SIGNING_SECRET")
	setString(&cfg.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.Slack.AppToken, "SLACK_APP_TOKEN")
	setString(&cfg.Translate.ProjectID, "GOOGLE_PROJECT_ID")
	setString(&cfg.Translate.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&cfg.Translate.Provider, "TRANSLATE_PROVIDER")
	setString(&cfg.Translate.APIBase, "TRANSLATE_API_BASE")
	setString(&cfg.Translate.APIKey, "TRANSLATE_API_KEY")
	setString(&cfg.General.Mode, "RUNTIME_MODE")
	setString(&cfg.General.LogLevel, "LOG_LEVEL")
	setString(&cfg.General.LogFormat, "LOG_FORMAT")
	setString(&cfg.Languages.File, "LANGUAGE_FILE")

	if err := setInt(&cfg.Server.Port, "PORT"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Slack.ThreadFetchLimit, "THREAD_FETCH_LIMIT"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Slack.RateLimitPerMinute, "SLACK_RATE_LIMIT_PER_MINUTE"); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	// Function entry points always serve HTTP, whatever RUNTIME_MODE says.
	if cfg.Slack.SigningSecret == "" {
		return nil, fmt.Errorf("config validation: SLACK_SIGNING_SECRET is required")
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", key, v)
	}
	*dst = n
	return nil
}
