package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pgcopilot/session-core/core/events"
	"go.opentelemetry.io/otel/attribute"
)

const sessionEventQueueCapacity = 32

// sessionRuntime is the single-consumer merge point for every producer in a
// session. Events are dequeued and fully handled one at a time, which is what
// keeps log mutations serialized without fine-grained locking.
type sessionRuntime struct {
	queue   chan events.Event
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newSessionRuntime() *sessionRuntime {
	return &sessionRuntime{
		queue:   make(chan events.Event, sessionEventQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (r *sessionRuntime) start(handler func(events.Event)) (started bool) {
	if r == nil || r.isClosed() {
		return false
	}

	r.startOnce.Do(func() {
		if r.isClosed() {
			return
		}

		started = true
		r.started.Store(true)
		go func() {
			defer close(r.done)

			for {
				select {
				case <-r.closeCh:
					return
				case event := <-r.queue:
					if r.isClosed() {
						return
					}
					r.processQueuedEvent(handler, event)
				}
			}
		}()
	})

	return started
}

func (r *sessionRuntime) processQueuedEvent(handler func(events.Event), event events.Event) {
	_, span := tracer.Start(context.Background(), "process session event")
	defer span.End()

	span.SetAttributes(
		attribute.String("session_event.kind", string(event.Kind())),
		attribute.Float64("session_event.queued_time", time.Since(event.Timestamp()).Seconds()),
	)

	handler(event)
}

// end stops event intake. Events already dequeued finish processing; queued
// events are discarded.
func (r *sessionRuntime) end() {
	if r == nil {
		return
	}

	r.endOnce.Do(func() {
		close(r.closeCh)
	})
}

func (r *sessionRuntime) awaitCompletion() {
	if r == nil {
		return
	}

	if r.started.Load() {
		<-r.done
	}
}

// enqueue adds an event to the merge queue, reporting whether it was
// accepted. A closed runtime accepts nothing.
func (r *sessionRuntime) enqueue(event events.Event) bool {
	if r == nil || r.isClosed() {
		return false
	}

	select {
	case <-r.closeCh:
		return false
	case r.queue <- event:
		return true
	}
}

func (r *sessionRuntime) isClosed() bool {
	if r == nil {
		return false
	}

	select {
	case <-r.closeCh:
		return true
	default:
		return false
	}
}
