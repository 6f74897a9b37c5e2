package domain

import "context"

// EventSink receives eligible-looking reaction events from an inbound surface.
// Server and socket modes publish to a bus; function mode runs the pipeline
// inline. A non-nil error means the event was not handled, and HTTP surfaces
// answer 500 so Slack redelivers it.
type EventSink func(ctx context.Context, ev ReactionEvent) error

// ThreadReader fetches the messages of a conversation thread.
type ThreadReader interface {
	RepliesInThread(ctx context.Context, channel, ts string) ([]Message, error)
}

// MessagePoster posts a threaded reply and returns the posted message timestamp.
type MessagePoster interface {
	PostReply(ctx context.Context, reply Reply) (string, error)
}
