package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"emojitranslator/internal/config"
	"emojitranslator/internal/langmap"
	"emojitranslator/internal/slackapi"
	"emojitranslator/internal/translator"

	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your emojitranslator installation",
		Long: `Verifies that the configuration, Slack credentials, translation provider
and language table are correctly set up. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			fmt.Printf("emojitranslator doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0
			warned := 0

			// 1. Config file exists
			if _, err := os.Stat(cfgPath); err != nil {
				printFail("Config file", fmt.Sprintf("not found at %s", cfgPath))
				fmt.Printf("\nRun 'emojitranslator init' to create a starter configuration.\n")
				return nil
			}
			printPass("Config file", cfgPath)
			passed++

			// 2. Config loads and validates
			cfg, err := config.Load(cfgPath)
			if err != nil {
				printFail("Config validation", err.Error())
				fmt.Printf("\n%d passed, 1 failed\n", passed)
				return fmt.Errorf("config invalid")
			}
			printPass("Config validation", "valid")
			passed++

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			// 3. Unexpanded placeholders mean the environment is missing a variable.
			for name, val := range map[string]string{
				"slack.botToken":      cfg.Slack.BotToken,
				"slack.signingSecret": cfg.Slack.SigningSecret,
				"slack.appToken":      cfg.Slack.AppToken,
			} {
				if strings.Contains(val, "${") {
					printFail("Env: "+name, fmt.Sprintf("unresolved %s", val))
					failed++
				}
			}

			// 4. Signing secret (presence is enforced by validation in server mode)
			if cfg.General.Mode == config.ModeServer {
				if len(cfg.Slack.SigningSecret) != 32 {
					printWarn("Signing secret", fmt.Sprintf("%d characters; Slack issues 32", len(cfg.Slack.SigningSecret)))
					warned++
				} else {
					printPass("Signing secret", "configured")
					passed++
				}
			}

			// 5. Slack token
			sc := slackapi.NewFromToken(cfg.Slack.BotToken, slackapi.Config{Logger: logger})
			if user, team, err := sc.AuthTest(ctx); err != nil {
				printFail("Slack auth", err.Error())
				failed++
			} else {
				printPass("Slack auth", fmt.Sprintf("%s @ %s", user, team))
				passed++
			}

			// 6. Translator
			if name, err := checkTranslator(ctx, cfg); err != nil {
				printFail("Translator: "+name, err.Error())
				failed++
			} else {
				printPass("Translator: "+name, "reachable")
				passed++
			}

			// 7. Language table
			if m, err := langmap.Build(cfg.Languages.File, cfg.Languages.Overrides); err != nil {
				printFail("Languages", err.Error())
				failed++
			} else {
				printPass("Languages", fmt.Sprintf("%d emoji mapped", m.Len()))
				passed++
			}

			// 8. Listen port
			if cfg.General.Mode == config.ModeServer {
				if err := checkPort(cfg.Server.Addr()); err != nil {
					printWarn("Server port", fmt.Sprintf("%s may be in use: %v", cfg.Server.Addr(), err))
					warned++
				} else {
					printPass("Server port", cfg.Server.Addr()+" available")
					passed++
				}
			}

			// 9. Log file writable
			if cfg.General.LogFile != "" {
				if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0o755); err != nil {
					printWarn("Log file", fmt.Sprintf("cannot create log directory: %v", err))
					warned++
				} else {
					printPass("Log file", cfg.General.LogFile)
					passed++
				}
			}

			// Summary
			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d warnings, %d failed\n", passed, warned, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running the translator.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			if warned > 0 {
				fmt.Printf("\nThe translator should work but consider fixing the warnings.\n")
			} else {
				fmt.Printf("\nAll checks passed! Run 'emojitranslator serve' to start.\n")
			}
			return nil
		},
	}
}

// checkTranslator builds the configured translator and probes it.
func checkTranslator(ctx context.Context, cfg *config.Config) (string, error) {
	tr, err := translator.New(ctx, cfg.Translate, logger)
	if err != nil {
		return cfg.Translate.Provider, err
	}
	if c, ok := tr.(io.Closer); ok {
		defer c.Close()
	}
	return tr.Name(), tr.Healthy(ctx)
}

func checkPort(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	ln.Close()
	return nil
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-20s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-20s %s\n", check, detail)
}

func printWarn(check, detail string) {
	fmt.Printf("  [WARN] %-20s %s\n", check, detail)
}
