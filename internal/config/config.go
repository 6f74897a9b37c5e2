package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Config is the root configuration for the emoji translator.
type Config struct {
	General   GeneralConfig   `json:"general"`
	Slack     SlackConfig     `json:"slack"`
	Server    ServerConfig    `json:"server"`
	Translate TranslateConfig `json:"translate"`
	Languages LanguagesConfig `json:"languages"`
	Metrics   MetricsConfig   `json:"metrics"`
}

const (
	ModeServer = "server" // Events API over HTTP
	ModeSocket = "socket" // Socket Mode websocket
)

type GeneralConfig struct {
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`         // "text" | "json"
	LogFile   string `json:"logFile,omitempty"` // optional log file path
	Mode      string `json:"mode"`
	Workers   int    `json:"workers"`
	QueueSize int    `json:"queueSize"`
}

type SlackConfig struct {
	SigningSecret    string `json:"signingSecret"`
	BotToken         string `json:"botToken"`
	AppToken         string `json:"appToken,omitempty"` // required for Socket Mode
	EventsPath       string `json:"eventsPath"`
	ThreadFetchLimit int    `json:"threadFetchLimit"`
	// RateLimitPerMinute caps conversations.replies calls; posts are held to
	// one per second per channel. 0 disables client-side limiting.
	RateLimitPerMinute int `json:"rateLimitPerMinute"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TranslateConfig struct {
	Provider        string `json:"provider"` // "google" | "libretranslate"
	ProjectID       string `json:"projectId,omitempty"`
	CredentialsFile string `json:"credentialsFile,omitempty"`
	APIBase         string `json:"apiBase,omitempty"`
	APIKey          string `json:"apiKey,omitempty"`
	TimeoutSeconds  int    `json:"timeoutSeconds"`
}

// LanguagesConfig extends or replaces entries of the built-in emoji table.
type LanguagesConfig struct {
	File      string            `json:"file,omitempty"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
}

// DefaultConfigDir returns the default config directory (~/.emojitranslator).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".emojitranslator"
	}
	return filepath.Join(home, ".emojitranslator")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)
	cfg.Languages.File = ExpandPath(cfg.Languages.File)
	cfg.Translate.CredentialsFile = ExpandPath(cfg.Translate.CredentialsFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		hasDefault := len(groups) >= 3 && groups[2] != ""

		val, exists := os.LookupEnv(groups[1])
		if !exists || val == "" {
			if hasDefault {
				return groups[2]
			}
			return match
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	// Holds tokens and the signing secret.
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch strings.ToLower(cfg.General.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	switch cfg.General.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, "general.logFormat must be one of: text, json")
	}
	switch cfg.General.Mode {
	case ModeServer:
		// The events endpoint is public; unsigned requests could make the bot post anywhere.
		if cfg.Slack.SigningSecret == "" {
			errs = append(errs, "slack.signingSecret is required in server mode")
		}
	case ModeSocket:
		if cfg.Slack.AppToken == "" {
			errs = append(errs, "slack.appToken is required in socket mode")
		}
	default:
		errs = append(errs, "general.mode must be one of: server, socket")
	}
	if cfg.General.Workers < 1 || cfg.General.Workers > 100 {
		errs = append(errs, "general.workers must be between 1 and 100")
	}
	if cfg.General.QueueSize < 1 {
		errs = append(errs, "general.queueSize must be >= 1")
	}

	if cfg.Slack.BotToken == "" {
		errs = append(errs, "slack.botToken is required")
	}
	if !strings.HasPrefix(cfg.Slack.EventsPath, "/") {
		errs = append(errs, "slack.eventsPath must start with /")
	}
	if cfg.Slack.ThreadFetchLimit < 1 || cfg.Slack.ThreadFetchLimit > 1000 {
		errs = append(errs, "slack.threadFetchLimit must be between 1 and 1000")
	}
	if cfg.Slack.RateLimitPerMinute < 0 {
		errs = append(errs, "slack.rateLimitPerMinute must be >= 0")
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 0 and 65535")
	}

	switch cfg.Translate.Provider {
	case "google":
	case "libretranslate":
		if cfg.Translate.APIBase == "" {
			errs = append(errs, "translate.apiBase is required for libretranslate")
		}
	default:
		errs = append(errs, "translate.provider must be one of: google, libretranslate")
	}
	if cfg.Translate.TimeoutSeconds < 0 {
		errs = append(errs, "translate.timeoutSeconds must be >= 0")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Endpoint, "/") {
		errs = append(errs, "metrics.endpoint must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
