package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/pgcopilot/session-core/core/events"
)

func TestRuntimeProcessesEventsInEnqueueOrder(t *testing.T) {
	runtime := newSessionRuntime()
	defer runtime.end()

	processed := make(chan string, 16)
	if started := runtime.start(func(event events.Event) {
		if typed, ok := event.(events.UserTextSubmitted); ok {
			processed <- typed.Text
		}
	}); !started {
		t.Fatalf("expected the runtime to start")
	}

	for i := 0; i < 5; i++ {
		if accepted := runtime.enqueue(events.NewUserTextSubmitted(fmt.Sprintf("event %d", i))); !accepted {
			t.Fatalf("expected event %d to be accepted", i)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case text := <-processed:
			if expected := fmt.Sprintf("event %d", i); text != expected {
				t.Fatalf("expected %q, got %q", expected, text)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestRuntimeEnqueueAfterEndIsRejected(t *testing.T) {
	runtime := newSessionRuntime()
	runtime.start(func(events.Event) {})
	runtime.end()
	runtime.awaitCompletion()

	if accepted := runtime.enqueue(events.NewUserTextSubmitted("late")); accepted {
		t.Fatalf("expected a closed runtime to reject events")
	}
}

func TestRuntimeStartAfterEndDoesNothing(t *testing.T) {
	runtime := newSessionRuntime()
	runtime.end()

	if started := runtime.start(func(events.Event) {}); started {
		t.Fatalf("expected a closed runtime not to start")
	}
}

func TestRuntimeStartTwiceStartsOnce(t *testing.T) {
	runtime := newSessionRuntime()
	defer runtime.end()

	if started := runtime.start(func(events.Event) {}); !started {
		t.Fatalf("expected the first start to succeed")
	}
	if started := runtime.start(func(events.Event) {}); started {
		t.Fatalf("expected the second start to be a no-op")
	}
}

func TestRuntimeAwaitCompletionReturnsAfterEnd(t *testing.T) {
	runtime := newSessionRuntime()
	runtime.start(func(events.Event) {})
	runtime.end()

	completed := make(chan struct{})
	go func() {
		runtime.awaitCompletion()
		close(completed)
	}()

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the runtime to complete")
	}
}
