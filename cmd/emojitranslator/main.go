package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"emojitranslator/internal/app"
	"emojitranslator/internal/config"
	"emojitranslator/internal/langmap"
	"emojitranslator/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	_ = godotenv.Load()
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:     "emojitranslator",
		Short:   "Translate Slack messages by reacting with a flag emoji",
		Long:    "emojitranslator listens for reaction_added events and replies in thread with a translation into the language the emoji stands for.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.emojitranslator/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(configCmd())
	root.AddCommand(langsCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(wizardCmd())
	root.AddCommand(installDaemonCmd())
	root.AddCommand(uninstallDaemonCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

// starterConfig is written by init: secrets come from the environment.
func starterConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Slack.SigningSecret = "${SLACK_SIGNING_SECRET}"
	cfg.Slack.BotToken = "${SLACK_BOT_TOKEN}"
	return cfg
}

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", cfgPath)
			}
			if err := config.Save(cfgPath, starterConfig()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func serveCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translator (Events API server or Socket Mode)",
		Long:  "Starts the long-running translator. In server mode it listens for Slack Events API deliveries; in socket mode it connects out over Socket Mode. Press Ctrl+C to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if mode != "" {
				cfg.General.Mode = mode
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "override general.mode (server|socket)")
	return cmd
}

func runServe(cfg *config.Config) error {
	log, closer, err := logging.New(logging.Options{
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
		File:   cfg.General.LogFile,
	})
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Translator.Healthy(ctx); err != nil {
		logger.Warn("translator unhealthy at startup", "provider", a.Translator.Name(), "err", err)
	}

	if err := a.Run(ctx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check Slack credentials and translator reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Info("config", "path", cfgPath, "mode", cfg.General.Mode)

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			a, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if user, team, err := a.Slack.AuthTest(ctx); err != nil {
				logger.Info("slack", "ok", false, "err", err)
			} else {
				logger.Info("slack", "ok", true, "user", user, "team", team)
			}
			if err := a.Translator.Healthy(ctx); err != nil {
				logger.Info("translator", "name", a.Translator.Name(), "healthy", false, "err", err)
			} else {
				logger.Info("translator", "name", a.Translator.Name(), "healthy", true)
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and modify configuration",
		Long:  "Get, set, and list configuration values. Changes are saved to the config file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [path]",
		Short: "Get a config value (e.g. translate.provider)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			val, err := config.GetByPath(config.Sanitize(cfg), args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(val, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [path] [value]",
		Short: "Set a config value (e.g. slack.threadFetchLimit 50)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := config.SetByPath(cfg, args[0], args[1]); err != nil {
				return fmt.Errorf("set value: %w", err)
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			logger.Info("config updated", "path", args[0], "file", cfgPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			paths := config.ListPaths(config.Sanitize(cfg))
			keys := make([]string, 0, len(paths))
			for k := range paths {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out := cmd.OutOrStdout()
			for _, k := range keys {
				fmt.Fprintf(out, "%s = %v\n", k, paths[k])
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath())
		},
	})

	return cmd
}

// loadLanguages builds the effective map, falling back to the built-in table
// when no config file is present.
func loadLanguages() (*langmap.Map, error) {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Debug("config not loaded, using built-in languages", "path", cfgPath, "err", err)
		return langmap.Default(), nil
	}
	return langmap.Build(cfg.Languages.File, cfg.Languages.Overrides)
}

func langsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "Print the emoji to language table",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadLanguages()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EMOJI\tLANGUAGE")
			for _, key := range m.Keys() {
				code, _ := m.Lookup(key)
				fmt.Fprintf(tw, ":%s:\t%s\n", key, code)
			}
			return tw.Flush()
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [emoji...]",
		Short: "Show which language a reaction would translate into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadLanguages()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, emoji := range args {
				if code, ok := m.Resolve(emoji); ok {
					fmt.Fprintf(out, "%s -> %s\n", emoji, code)
				} else {
					fmt.Fprintf(out, "%s -> (no language)\n", emoji)
				}
			}
			return nil
		},
	}
}
