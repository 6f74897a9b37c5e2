// Package emojitranslator is the Google Cloud Functions entry point. The
// function reads its configuration from the environment on first request.
package emojitranslator

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"emojitranslator/internal/app"
	"emojitranslator/internal/config"
	"emojitranslator/internal/logging"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
)

var (
	setupOnce sync.Once
	handler   http.Handler
	setupErr  error
)

func init() {
	functions.HTTP("slackEmojiTranslator", SlackEmojiTranslator)
}

func setup() {
	cfg, err := config.FromEnv()
	if err != nil {
		setupErr = err
		return
	}
	logger := slog.New(logging.NewHandler(os.Stderr, logging.Options{
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
	}))
	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		setupErr = err
		return
	}
	handler = a.EventsHandler()
}

// SlackEmojiTranslator handles Slack Events API deliveries.
func SlackEmojiTranslator(w http.ResponseWriter, r *http.Request) {
	setupOnce.Do(setup)
	if setupErr != nil {
		slog.Error("function setup failed", "err", setupErr)
		http.Error(w, "Error processing event", http.StatusInternalServerError)
		return
	}
	handler.ServeHTTP(w, r)
}
