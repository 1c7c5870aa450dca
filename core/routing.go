package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgcopilot/session-core/core/conversation"
	"github.com/pgcopilot/session-core/core/events"
	"github.com/pgcopilot/session-core/core/transport"
)

// handleEvent is the single consumer of the merged event stream. Each event
// is fully handled, side effects included, before the next is dequeued.
func (o *Orchestrator) handleEvent(event events.Event) {
	switch typedEvent := event.(type) {
	case events.UserTextSubmitted:
		o.handleUserText(typedEvent.Text)

	case events.UserUtteranceFinalized:
		o.emitInterim("")
		o.emitCaptureState(false)
		o.handleUserText(typedEvent.Transcript)

	case events.UserTranscriptInterimUpdated:
		o.emitInterim(typedEvent.Transcript)

	case events.ChannelFrameReceived:
		o.routeInboundFrame(typedEvent)

	case events.ChannelClosed:
		o.raiseAdvisoryWithCode(AdvisoryDisconnected,
			fmt.Errorf("session channel closed: %w", disconnectedCause(typedEvent.Err)))
		o.emitChannelState()

	case events.CaptureStartRequested:
		if o.narrating {
			o.pendingCaptureStart = true
			return
		}
		o.startCapture()

	case events.CaptureStopRequested:
		o.pendingCaptureStart = false
		if err := o.capture.stop(); err != nil {
			o.raiseAdvisory(err)
		}
		o.emitInterim("")
		o.emitCaptureState(false)

	case events.CaptureStarted:
		o.emitCaptureState(true)

	case events.CaptureStopped:
		o.emitInterim("")
		o.emitCaptureState(false)

	case events.CaptureFailed:
		o.pendingCaptureStart = false
		o.emitInterim("")
		o.emitCaptureState(false)
		o.raiseAdvisory(typedEvent.Err)

	case events.NarrationFinished:
		// A narration cancelled by its successor still reports a finish;
		// only the finish of the narration currently in flight may release
		// parked capture starts.
		if typedEvent.ID != o.activeNarrationID {
			return
		}
		o.narrating = false
		if o.pendingCaptureStart {
			o.pendingCaptureStart = false
			o.startCapture()
		}

	case events.LogClearRequested:
		if err := o.log.Clear(o.baseContext); err != nil {
			o.raiseAdvisory(err)
		}
		o.narration.resetDedup()
		o.notifySubscribers()
	}
}

// handleUserText routes one locally-originated user message: sanitize,
// append, then send. The append always happens first and is never rolled
// back; a failed or impossible delivery is surfaced as an advisory so the
// log keeps reflecting user intent (optimistic local echo).
func (o *Orchestrator) handleUserText(text string) {
	content := stripMarkup(text)

	o.appendTurn(conversation.Turn{
		ID:          uuid.NewString(),
		Role:        conversation.RoleUser,
		Kind:        conversation.KindMessage,
		Content:     content,
		SpeakerName: o.identity.DisplayName,
		CreatedAt:   time.Now(),
	})

	if o.channel.state() != transport.StateOpen {
		o.raiseAdvisory(fmt.Errorf("%w: user turn not delivered", transport.ErrNotConnected))
		return
	}

	// Delivery may block on the transport; hand it to the outbound sender
	// rather than holding up the loop.
	select {
	case o.outbound <- content:
	default:
		o.raiseAdvisory(fmt.Errorf("outbound queue full: user turn not delivered"))
	}
}

// routeInboundFrame applies the inbound routing rules: internal send markers
// are dropped, function calls and thoughts are appended but never narrated,
// and messages are appended then narrated when narration is on.
func (o *Orchestrator) routeInboundFrame(event events.ChannelFrameReceived) {
	frame := transport.Frame{Kind: transport.FrameKind(event.FrameKind), Text: event.Text}

	switch frame.Kind {
	case transport.FrameKindFunctionCall:
		// The transport filters these already; a foreign channel
		// implementation may not.
		if transport.IsInternalSendMarker(frame) {
			return
		}
		o.appendTurn(conversation.Turn{
			ID:          uuid.NewString(),
			Role:        conversation.RoleAssistant,
			Kind:        conversation.KindFunctionCall,
			Content:     frame.Text,
			SpeakerName: "Function Call",
			CreatedAt:   time.Now(),
		})

	case transport.FrameKindThought:
		o.appendTurn(conversation.Turn{
			ID:          uuid.NewString(),
			Role:        conversation.RoleAssistant,
			Kind:        conversation.KindThought,
			Content:     frame.Text,
			SpeakerName: "Thought",
			CreatedAt:   time.Now(),
		})

	default:
		turn := conversation.Turn{
			ID:          uuid.NewString(),
			Role:        conversation.RoleAssistant,
			Kind:        conversation.KindMessage,
			Content:     frame.Text,
			SpeakerName: o.assistantName,
			CreatedAt:   time.Now(),
		}
		o.appendTurn(turn)

		o.narrationSeq++
		narrationID := o.narrationSeq
		onDone := func(content string) {
			o.runtime.enqueue(events.NewNarrationFinished(narrationID, content))
		}
		if started := o.narration.narrate(o.baseContext, turn.Content, onDone, o.raiseAdvisory); started {
			o.narrating = true
			o.activeNarrationID = narrationID
		}
	}
}

// startCapture launches one capture session. The capability check may block,
// so it runs off-loop; its outcome is re-injected as an event.
func (o *Orchestrator) startCapture() {
	callbacks := captureCallbacks{
		onInterim: func(transcript string) {
			o.runtime.enqueue(events.NewUserTranscriptInterimUpdated(transcript))
		},
		onFinal: func(transcript string) {
			o.runtime.enqueue(events.NewUserUtteranceFinalized(transcript))
		},
		onEnded: func() {
			o.runtime.enqueue(events.NewCaptureStopped())
		},
		onError: func(err error) {
			o.runtime.enqueue(events.NewCaptureFailed(err))
		},
	}

	go func() {
		if err := o.capture.start(o.baseContext, o.encoding, callbacks); err != nil {
			o.runtime.enqueue(events.NewCaptureFailed(err))
			return
		}
		o.runtime.enqueue(events.NewCaptureStarted())
	}()
}

func disconnectedCause(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("connection closed")
}
