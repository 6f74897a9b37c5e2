package domain

// EventBus decouples inbound surfaces from the pipeline workers.
type EventBus interface {
	Publish(ev ReactionEvent) error
	Subscribe() <-chan ReactionEvent
	Close()
}
