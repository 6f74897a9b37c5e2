// Package app assembles the translator service from configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"emojitranslator/internal/bus"
	"emojitranslator/internal/channel"
	"emojitranslator/internal/config"
	"emojitranslator/internal/domain"
	"emojitranslator/internal/langmap"
	"emojitranslator/internal/pipeline"
	"emojitranslator/internal/slackapi"
	"emojitranslator/internal/translator"

	"github.com/slack-go/slack"
)

// App holds the wired components for one process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Languages  *langmap.Map
	Slack      *slackapi.Client
	Translator domain.Translator
	Pipeline   *pipeline.Pipeline

	slackOpts []slack.Option
}

// Build wires the language map, Slack client, translator and pipeline.
// slackOpts are passed to every Slack client the app creates.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, slackOpts ...slack.Option) (*App, error) {
	languages, err := langmap.Build(cfg.Languages.File, cfg.Languages.Overrides)
	if err != nil {
		return nil, fmt.Errorf("language map: %w", err)
	}

	tr, err := translator.New(ctx, cfg.Translate, logger)
	if err != nil {
		return nil, err
	}

	sc := slackapi.NewFromToken(cfg.Slack.BotToken, slackapi.Config{
		FetchLimit:         cfg.Slack.ThreadFetchLimit,
		RateLimitPerMinute: cfg.Slack.RateLimitPerMinute,
		Logger:             logger,
	}, slackOpts...)

	p := pipeline.New(pipeline.Config{
		Languages:  languages,
		Reader:     sc,
		Translator: tr,
		Poster:     sc,
		Logger:     logger,
	})

	logger.Info("translator service ready",
		"mode", cfg.General.Mode,
		"provider", tr.Name(),
		"languages", languages.Len(),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Languages:  languages,
		Slack:      sc,
		Translator: tr,
		Pipeline:   p,
		slackOpts:  slackOpts,
	}, nil
}

// EventsHandler returns an Events API handler that runs the pipeline before
// responding. Function runtimes may suspend the instance once the response is
// written, so nothing is left in the background.
func (a *App) EventsHandler() http.Handler {
	return channel.NewEventsHandler(channel.EventsConfig{
		SigningSecret: a.Config.Slack.SigningSecret,
		Sink:          a.Pipeline.Sink(),
		Logger:        a.Logger,
	})
}

// Run serves events in the configured long-running mode until ctx is done.
// Events are queued on a bus and handled by a bounded worker pool.
func (a *App) Run(ctx context.Context) error {
	eventBus := bus.New(a.Config.General.QueueSize, a.Logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		bus.Run(ctx, eventBus, a.Pipeline.Sink(), a.Config.General.Workers, a.Logger)
	}()
	defer func() {
		eventBus.Close()
		wg.Wait()
	}()

	switch a.Config.General.Mode {
	case config.ModeSocket:
		socket := channel.NewSocket(channel.SocketConfig{
			BotToken: a.Config.Slack.BotToken,
			AppToken: a.Config.Slack.AppToken,
			Options:  a.slackOpts,
			Logger:   a.Logger,
		})
		return socket.Start(ctx, eventBus.Sink())
	default:
		metricsEndpoint := ""
		if a.Config.Metrics.Enabled {
			metricsEndpoint = a.Config.Metrics.Endpoint
		}
		server := channel.NewServer(channel.ServerConfig{
			Addr:            a.Config.Server.Addr(),
			EventsPath:      a.Config.Slack.EventsPath,
			SigningSecret:   a.Config.Slack.SigningSecret,
			MetricsEndpoint: metricsEndpoint,
			Logger:          a.Logger,
		}, eventBus.Sink())
		return server.Start(ctx)
	}
}

// Close releases the translator's client when it holds one.
func (a *App) Close() error {
	if c, ok := a.Translator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
