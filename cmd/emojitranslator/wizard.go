package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"emojitranslator/internal/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter abstracts survey so the wizard can run against scripted answers.
type Prompter interface {
	AskSelect(label string, options []string, def string) (string, error)
	AskInput(label, def string) (string, error)
	AskPassword(label string) (string, error)
	AskConfirm(label string, def bool) (bool, error)
}

func wizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Interactive setup: Slack app, mode, translation provider",
		Long:  "Guides you through the Slack credentials, delivery mode and translation provider, then writes the config to the path used by --config or the default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if err := runWizard(cfgPath, surveyPrompter{}); err != nil {
				return err
			}
			fmt.Printf("\nConfig saved to %s\n", cfgPath)
			fmt.Println("Next: run 'emojitranslator doctor', then 'emojitranslator serve'.")
			return nil
		},
	}
}

func runWizard(cfgPath string, p Prompter) error {
	cfg := starterConfig()
	if _, err := os.Stat(cfgPath); err == nil {
		overwrite, err := p.AskConfirm(fmt.Sprintf("%s exists. Update it?", cfgPath), true)
		if err != nil {
			return err
		}
		if !overwrite {
			return fmt.Errorf("aborted: config exists at %s", cfgPath)
		}
		// An existing file that no longer validates is rebuilt from the starter.
		if existing, err := config.Load(cfgPath); err == nil {
			cfg = existing
		}
	}

	// Step 1: Slack
	token, err := p.AskPassword("Slack bot token (xoxb-..., empty keeps ${SLACK_BOT_TOKEN})")
	if err != nil {
		return err
	}
	if token != "" {
		cfg.Slack.BotToken = token
	}

	mode, err := p.AskSelect("How should Slack deliver events?", []string{config.ModeServer, config.ModeSocket}, cfg.General.Mode)
	if err != nil {
		return err
	}
	cfg.General.Mode = mode

	switch mode {
	case config.ModeServer:
		secret, err := p.AskPassword("Slack signing secret (empty keeps current)")
		if err != nil {
			return err
		}
		if secret != "" {
			cfg.Slack.SigningSecret = secret
		}
		port, err := p.AskInput("Listen port", strconv.Itoa(cfg.Server.Port))
		if err != nil {
			return err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(port)); err == nil {
			cfg.Server.Port = n
		}
	case config.ModeSocket:
		appToken, err := p.AskPassword("Slack app-level token (xapp-...)")
		if err != nil {
			return err
		}
		if appToken != "" {
			cfg.Slack.AppToken = appToken
		}
	}

	// Step 2: Translation provider
	provider, err := p.AskSelect("Translation provider", []string{"google", "libretranslate"}, cfg.Translate.Provider)
	if err != nil {
		return err
	}
	cfg.Translate.Provider = provider

	switch provider {
	case "google":
		if cfg.Translate.CredentialsFile, err = p.AskInput("Service account JSON (empty uses application default credentials)", cfg.Translate.CredentialsFile); err != nil {
			return err
		}
		if cfg.Translate.ProjectID, err = p.AskInput("Google Cloud project ID (optional)", cfg.Translate.ProjectID); err != nil {
			return err
		}
	case "libretranslate":
		base := cfg.Translate.APIBase
		if base == "" {
			base = "http://localhost:5000"
		}
		if cfg.Translate.APIBase, err = p.AskInput("LibreTranslate URL", base); err != nil {
			return err
		}
		key, err := p.AskPassword("LibreTranslate API key (optional)")
		if err != nil {
			return err
		}
		if key != "" {
			cfg.Translate.APIKey = key
		}
	}

	// Step 3: Metrics
	if cfg.Metrics.Enabled, err = p.AskConfirm("Expose Prometheus metrics?", cfg.Metrics.Enabled); err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return config.Save(cfgPath, cfg)
}

// surveyPrompter is the real interactive implementation.
type surveyPrompter struct{}

func (surveyPrompter) AskSelect(label string, options []string, def string) (string, error) {
	var sel string
	prompt := &survey.Select{Message: label, Options: options}
	for _, o := range options {
		if o == def {
			prompt.Default = def
		}
	}
	if err := survey.AskOne(prompt, &sel); err != nil {
		return "", err
	}
	return sel, nil
}

func (surveyPrompter) AskInput(label, def string) (string, error) {
	var ans string
	if err := survey.AskOne(&survey.Input{Message: label, Default: def}, &ans); err != nil {
		return "", err
	}
	return ans, nil
}

func (surveyPrompter) AskPassword(label string) (string, error) {
	var ans string
	if err := survey.AskOne(&survey.Password{Message: label}, &ans); err != nil {
		return "", err
	}
	return ans, nil
}

func (surveyPrompter) AskConfirm(label string, def bool) (bool, error) {
	var ans bool
	if err := survey.AskOne(&survey.Confirm{Message: label, Default: def}, &ans); err != nil {
		return false, err
	}
	return ans, nil
}
