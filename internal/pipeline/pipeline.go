// Package pipeline turns a reaction event into a threaded translation reply.
//
// Each event runs Received → Filtered → Resolved → Fetched → Translated →
// Deduplicated → Posted, exiting early to a skipped outcome at any boolean
// gate and to a failed outcome on any upstream error. Nothing is retained
// between runs except the read-only language map.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"emojitranslator/internal/domain"
	"emojitranslator/internal/metrics"

	"github.com/google/uuid"
)

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	OutcomePosted            Outcome = "posted"
	OutcomeSkippedNotMessage Outcome = "skipped_not_message"
	OutcomeSkippedNoLanguage Outcome = "skipped_no_language"
	OutcomeSkippedDuplicate  Outcome = "skipped_duplicate"
	OutcomeFailedFetch       Outcome = "failed_fetch"
	OutcomeFailedTranslate   Outcome = "failed_translate"
	OutcomeFailedPost        Outcome = "failed_post"
)

// Failed reports whether the run was aborted by an upstream error.
func (o Outcome) Failed() bool { return strings.HasPrefix(string(o), "failed_") }

var (
	// ErrEmptyThread is returned when the reader returns no messages at all.
	ErrEmptyThread = errors.New("thread has no messages")
	// ErrTargetMissing is returned when the reacted message is not among those read.
	ErrTargetMissing = errors.New("reacted message not found in thread")
)

// Resolver maps an emoji short-code to a target language.
type Resolver interface {
	Resolve(reaction string) (domain.LanguageCode, bool)
}

// Config wires the pipeline's collaborators.
type Config struct {
	Languages  Resolver
	Reader     domain.ThreadReader
	Translator domain.Translator
	Poster     domain.MessagePoster
	Logger     *slog.Logger
}

// Pipeline handles reaction events. It holds no per-event state and is safe
// for concurrent use when its collaborators are.
type Pipeline struct {
	languages  Resolver
	reader     domain.ThreadReader
	translator domain.Translator
	poster     domain.MessagePoster
	logger     *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		languages:  cfg.Languages,
		reader:     cfg.Reader,
		translator: cfg.Translator,
		poster:     cfg.Poster,
		logger:     cfg.Logger,
	}
}

// Handle runs one event to a terminal outcome. Failures are logged here and
// returned for the caller's bookkeeping; none are reported into the channel.
func (p *Pipeline) Handle(ctx context.Context, ev domain.ReactionEvent) (Outcome, error) {
	logger := p.logger.With(
		"trace_id", uuid.NewString(),
		"reaction", ev.Reaction,
		"channel", ev.Item.Channel,
		"ts", ev.Item.Timestamp,
	)

	outcome, err := p.run(ctx, ev, logger)
	metrics.IncOutcome(string(outcome))

	switch {
	case err != nil:
		logger.Error("reaction processing failed", "outcome", outcome, "err", err)
	case outcome == OutcomePosted:
		logger.Info("translation posted")
	default:
		logger.Debug("reaction skipped", "outcome", outcome)
	}
	return outcome, err
}

// Sink adapts the pipeline to an inbound surface that handles events inline.
// Skipped outcomes are not errors; failed ones return the cause.
func (p *Pipeline) Sink() domain.EventSink {
	return func(ctx context.Context, ev domain.ReactionEvent) error {
		_, err := p.Handle(ctx, ev)
		return err
	}
}

func (p *Pipeline) run(ctx context.Context, ev domain.ReactionEvent, logger *slog.Logger) (Outcome, error) {
	if !ev.IsMessage() {
		return OutcomeSkippedNotMessage, nil
	}

	lang, ok := p.languages.Resolve(ev.Reaction)
	if !ok {
		return OutcomeSkippedNoLanguage, nil
	}

	thread, err := p.reader.RepliesInThread(ctx, ev.Item.Channel, ev.Item.Timestamp)
	if err != nil {
		return OutcomeFailedFetch, fmt.Errorf("fetch thread: %w", err)
	}
	if len(thread) == 0 {
		return OutcomeFailedFetch, ErrEmptyThread
	}
	original, ok := targetMessage(thread, ev.Item.Timestamp)
	if !ok {
		return OutcomeFailedFetch, fmt.Errorf("%w: ts %s among %d messages", ErrTargetMissing, ev.Item.Timestamp, len(thread))
	}

	var translation string
	if original.Text != "" {
		start := time.Now()
		translation, err = p.translator.Translate(ctx, original.Text, lang)
		metrics.ObserveTranslate(p.translator.Name(), time.Since(start))
		if err != nil {
			return OutcomeFailedTranslate, fmt.Errorf("translate to %s: %w", lang, err)
		}
		if translation == "" {
			return OutcomeFailedTranslate, fmt.Errorf("translate to %s: provider %s returned empty text", lang, p.translator.Name())
		}
		logger.Debug("message translated", "lang", lang, "chars", len(translation))
	}

	candidate := translation
	if candidate == "" {
		candidate = UnsupportedNotice
	}
	if AlreadyTranslated(thread, candidate) {
		return OutcomeSkippedDuplicate, nil
	}

	reply := FormatReply(original, ev.Item.Channel, translation, lang, strings.Trim(ev.Reaction, ":"))
	postedTS, err := p.poster.PostReply(ctx, reply)
	if err != nil {
		return OutcomeFailedPost, fmt.Errorf("post reply: %w", err)
	}
	logger.Debug("reply posted", "thread_ts", reply.ThreadTS, "posted_ts", postedTS)
	return OutcomePosted, nil
}
