package channel

import (
	"context"
	"fmt"
	"log/slog"

	"emojitranslator/internal/domain"
	"emojitranslator/internal/metrics"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// SocketConfig configures the Socket Mode listener.
type SocketConfig struct {
	BotToken string
	AppToken string
	Options  []slack.Option
	Logger   *slog.Logger
}

// Socket receives reaction events over a Socket Mode websocket, for
// workspaces that cannot expose a public HTTP endpoint.
type Socket struct {
	botToken string
	appToken string
	options  []slack.Option
	logger   *slog.Logger
}

func NewSocket(cfg SocketConfig) *Socket {
	return &Socket{
		botToken: cfg.BotToken,
		appToken: cfg.AppToken,
		options:  cfg.Options,
		logger:   cfg.Logger,
	}
}

func (s *Socket) Name() string { return "socket-mode" }

// Start connects to Slack via Socket Mode and delivers reactions to sink
// until ctx is done.
func (s *Socket) Start(ctx context.Context, sink domain.EventSink) error {
	opts := append([]slack.Option{slack.OptionAppLevelToken(s.appToken)}, s.options...)
	api := slack.New(s.botToken, opts...)

	authResp, err := api.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth: %w", err)
	}
	s.logger.Info("slack socket mode connecting", "user", authResp.User, "team", authResp.Team)

	client := socketmode.New(api)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-client.Events:
				if !ok {
					return
				}
				s.dispatch(ctx, client, evt, sink)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.RunContext(ctx)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("slack socket mode disconnecting")
		return nil
	case err := <-errCh:
		return fmt.Errorf("slack socket mode: %w", err)
	}
}

// acker is the part of *socketmode.Client that dispatch needs.
type acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

func (s *Socket) dispatch(ctx context.Context, client acker, evt socketmode.Event, sink domain.EventSink) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		s.logger.Info("slack socket mode connected")
	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok || evt.Request == nil {
			return
		}
		client.Ack(*evt.Request)
		if eventsAPIEvent.Type != slackevents.CallbackEvent {
			return
		}
		if ev, ok := reactionEvent(eventsAPIEvent); ok {
			metrics.IncEvent("socket_mode")
			if err := sink(ctx, ev); err != nil {
				s.logger.Error("reaction not handled", "channel", ev.Item.Channel, "ts", ev.Item.Timestamp, "err", err)
			}
		}
	default:
		// Unacknowledged envelopes are redelivered.
		if evt.Request != nil {
			client.Ack(*evt.Request)
		}
	}
}
