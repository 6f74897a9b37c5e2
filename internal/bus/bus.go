// Package bus queues reaction events between the inbound surfaces and the
// pipeline workers in the long-running modes.
package bus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"emojitranslator/internal/domain"
)

const publishTimeout = 10 * time.Second

var (
	ErrClosed = errors.New("event bus closed")
	ErrFull   = errors.New("event bus full")
)

// InMemoryBus is a Go-channel based event queue for in-process delivery.
type InMemoryBus struct {
	inbound chan domain.ReactionEvent
	mu      sync.RWMutex
	closed  bool
	logger  *slog.Logger
}

// New creates a new InMemoryBus with the given buffer size.
func New(bufferSize int, logger *slog.Logger) *InMemoryBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryBus{
		inbound: make(chan domain.ReactionEvent, bufferSize),
		logger:  logger,
	}
}

// Publish blocks up to 10 seconds if the bus is full instead of dropping.
func (b *InMemoryBus) Publish(ev domain.ReactionEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed bus", "reaction", ev.Reaction)
		return ErrClosed
	}

	select {
	case b.inbound <- ev:
		return nil
	default:
		b.logger.Warn("event bus full, waiting...", "channel", ev.Item.Channel, "ts", ev.Item.Timestamp)
		timer := time.NewTimer(publishTimeout)
		defer timer.Stop()
		select {
		case b.inbound <- ev:
			b.logger.Info("event delivered after wait", "channel", ev.Item.Channel)
			return nil
		case <-timer.C:
			b.logger.Error("event dropped: bus full for 10s",
				"channel", ev.Item.Channel,
				"ts", ev.Item.Timestamp,
				"reaction", ev.Reaction,
			)
			return ErrFull
		}
	}
}

func (b *InMemoryBus) Subscribe() <-chan domain.ReactionEvent {
	return b.inbound
}

// Sink returns an EventSink that publishes onto the bus.
func (b *InMemoryBus) Sink() domain.EventSink {
	return func(_ context.Context, ev domain.ReactionEvent) error { return b.Publish(ev) }
}

func (b *InMemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.inbound)
	}
}

// Run consumes events from the bus and hands each to sink with bounded
// concurrency. It returns when ctx is done or the bus is closed, after the
// events already started have finished. Started events are not cancelled.
func Run(ctx context.Context, b domain.EventBus, sink domain.EventSink, workers int, logger *slog.Logger) {
	if workers <= 0 {
		workers = 1
	}
	logger.Info("event workers started", "workers", workers)

	var wg sync.WaitGroup
	defer wg.Wait()

	sem := make(chan struct{}, workers)
	inbound := b.Subscribe()
	work := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("event workers stopping")
			return
		case ev, ok := <-inbound:
			if !ok {
				logger.Info("event bus closed, workers stopping")
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(ev domain.ReactionEvent) {
				defer func() {
					<-sem
					wg.Done()
				}()
				// The pipeline logs and counts its own failures.
				_ = sink(work, ev)
			}(ev)
		}
	}
}
