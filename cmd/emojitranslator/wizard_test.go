package main

import (
	"path/filepath"
	"testing"

	"emojitranslator/internal/config"
)

// stubPrompter replays scripted answers, falling back to defaults.
type stubPrompter struct {
	selects   []string
	inputs    []string
	passwords []string
	confirms  []bool
}

func pop[T any](queue *[]T, def T) T {
	if len(*queue) == 0 {
		return def
	}
	v := (*queue)[0]
	*queue = (*queue)[1:]
	return v
}

func (s *stubPrompter) AskSelect(label string, options []string, def string) (string, error) {
	return pop(&s.selects, def), nil
}
func (s *stubPrompter) AskInput(label, def string) (string, error) {
	return pop(&s.inputs, def), nil
}
func (s *stubPrompter) AskPassword(label string) (string, error) {
	return pop(&s.passwords, ""), nil
}
func (s *stubPrompter) AskConfirm(label string, def bool) (bool, error) {
	return pop(&s.confirms, def), nil
}

func TestRunWizard_ServerWithGoogle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	p := &stubPrompter{
		passwords: []string{"xoxb-wizard", "signing-secret"},
		selects:   []string{config.ModeServer, "google"},
		inputs:    []string{"8081", "/keys/sa.json", "my-project"},
		confirms:  []bool{true},
	}
	if err := runWizard(path, p); err != nil {
		t.Fatalf("runWizard: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-wizard" || cfg.Slack.SigningSecret != "signing-secret" {
		t.Errorf("slack: %+v", cfg.Slack)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Translate.CredentialsFile != "/keys/sa.json" || cfg.Translate.ProjectID != "my-project" {
		t.Errorf("translate: %+v", cfg.Translate)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
}

func TestRunWizard_SocketWithLibreTranslate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	p := &stubPrompter{
		passwords: []string{"xoxb-wizard", "xapp-1-wizard", ""},
		selects:   []string{config.ModeSocket, "libretranslate"},
		inputs:    []string{"http://lt.internal:5000"},
	}
	if err := runWizard(path, p); err != nil {
		t.Fatalf("runWizard: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.Mode != config.ModeSocket || cfg.Slack.AppToken != "xapp-1-wizard" {
		t.Errorf("socket settings: mode=%s app=%s", cfg.General.Mode, cfg.Slack.AppToken)
	}
	if cfg.Translate.Provider != "libretranslate" || cfg.Translate.APIBase != "http://lt.internal:5000" {
		t.Errorf("translate: %+v", cfg.Translate)
	}
}

func TestRunWizard_DeclineOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.Defaults()
	cfg.Slack.BotToken = "xoxb-existing"
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	if err := runWizard(path, &stubPrompter{confirms: []bool{false}}); err == nil {
		t.Fatal("expected abort")
	}
}

func TestRunWizard_RepairsInvalidExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.Defaults()
	cfg.Slack.BotToken = "xoxb-old"
	if err := config.Save(path, cfg); err != nil { // no signing secret: fails validation
		t.Fatal(err)
	}

	p := &stubPrompter{
		confirms:  []bool{true, false},
		passwords: []string{"xoxb-new", "new-secret"},
		selects:   []string{config.ModeServer, "google"},
	}
	if err := runWizard(path, p); err != nil {
		t.Fatalf("runWizard: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Slack.BotToken != "xoxb-new" || loaded.Slack.SigningSecret != "new-secret" {
		t.Errorf("slack: %+v", loaded.Slack)
	}
}

func TestRunWizard_SocketWithoutAppTokenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	p := &stubPrompter{selects: []string{config.ModeSocket}}
	if err := runWizard(path, p); err == nil {
		t.Fatal("expected validation error without app token")
	}
}
