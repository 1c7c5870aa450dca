package events

import "time"

// Kind discriminates the event types the orchestration queue carries.
type Kind string

// Event is one unit on the orchestration queue.
type Event interface {
	Kind() Kind
	// Timestamp is the event's creation time, recorded when the producer
	// built it. The consumer uses it to measure queueing delay.
	Timestamp() time.Time
}

// Base carries the kind and creation timestamp every event shares. Embed it
// and build it with NewBase at the moment the triggering occurrence happens,
// not when the event is dequeued.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind { return b.kind }

func (b Base) Timestamp() time.Time { return b.timestamp }
