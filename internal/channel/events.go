// Package channel holds the inbound surfaces that turn Slack deliveries into
// reaction events: the Events API HTTP handler and the Socket Mode listener.
package channel

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"emojitranslator/internal/domain"
	"emojitranslator/internal/metrics"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const maxBodyBytes = 1 << 20 // 1MB

// EventsConfig configures the Events API handler.
type EventsConfig struct {
	// SigningSecret enables request signature verification when set.
	SigningSecret string
	Sink          domain.EventSink
	Logger        *slog.Logger
}

// EventsHandler serves Slack Events API deliveries.
type EventsHandler struct {
	secret string
	sink   domain.EventSink
	logger *slog.Logger
}

func NewEventsHandler(cfg EventsConfig) *EventsHandler {
	return &EventsHandler{
		secret: cfg.SigningSecret,
		sink:   cfg.Sink,
		logger: cfg.Logger,
	}
}

func (h *EventsHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		h.logger.Error("error processing event", "err", err)
		http.Error(rw, "Error processing event", http.StatusInternalServerError)
		return
	}

	if h.secret != "" {
		if err := verifySignature(r.Header, body, h.secret); err != nil {
			h.logger.Warn("slack signature rejected", "err", err, "remote", r.RemoteAddr)
			http.Error(rw, "Invalid signature", http.StatusUnauthorized)
			return
		}
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		h.logger.Error("error processing event", "err", err, "body", string(body))
		http.Error(rw, "Error processing event", http.StatusInternalServerError)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			h.logger.Error("error processing event", "err", err)
			http.Error(rw, "Error processing event", http.StatusInternalServerError)
			return
		}
		h.logger.Info("slack url verification")
		rw.Header().Set("Content-Type", "application/json")
		json.NewEncoder(rw).Encode(map[string]string{"challenge": challenge.Challenge})
		return

	case slackevents.CallbackEvent:
		if ev, ok := reactionEvent(event); ok {
			metrics.IncEvent("events_api")
			h.logger.Debug("reaction received",
				"reaction", ev.Reaction,
				"user", ev.User,
				"channel", ev.Item.Channel,
				"ts", ev.Item.Timestamp,
			)
			if err := h.sink(r.Context(), ev); err != nil {
				h.logger.Error("reaction not handled", "channel", ev.Item.Channel, "ts", ev.Item.Timestamp, "err", err)
				http.Error(rw, "Error processing event", http.StatusInternalServerError)
				return
			}
		}
	}

	rw.WriteHeader(http.StatusOK)
}

func verifySignature(header http.Header, body []byte, secret string) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

// reactionEvent extracts a reaction_added payload from a callback event.
func reactionEvent(event slackevents.EventsAPIEvent) (domain.ReactionEvent, bool) {
	ev, ok := event.InnerEvent.Data.(*slackevents.ReactionAddedEvent)
	if !ok || ev == nil {
		return domain.ReactionEvent{}, false
	}
	return domain.ReactionEvent{
		Reaction: ev.Reaction,
		User:     ev.User,
		Item: domain.ItemRef{
			Type:      ev.Item.Type,
			Channel:   ev.Item.Channel,
			Timestamp: ev.Item.Timestamp,
		},
	}, true
}
