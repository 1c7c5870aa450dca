package session

import (
	"context"

	"github.com/pgcopilot/session-core/core/audio"
	"github.com/pgcopilot/session-core/core/persistence"
	"github.com/pgcopilot/session-core/core/speechtotext"
	"github.com/pgcopilot/session-core/core/texttospeech"
	"github.com/pgcopilot/session-core/core/transport"
)

// Identity is the read-only session identity context attached to user turns.
type Identity struct {
	DisplayName string
	AvatarRef   string
}

// SessionChannel is the duplex transport carrying user turns out and
// assistant frames in.
type SessionChannel interface {
	Connect(ctx context.Context) error
	Send(text string) error
	Close() error
	State() transport.State
	OnInboundFrame(handler func(transport.Frame))
	OnClosed(handler func(error))
}

// SpeechToText runs one capture session per Transcribe call.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
	Stop() error
}

type OrchestratorOption func(*Orchestrator)

func WithSessionChannel(client SessionChannel) OrchestratorOption {
	return func(o *Orchestrator) { o.channel.set(client) }
}

func WithSpeechToTextClient(client SpeechToText) OrchestratorOption {
	return func(o *Orchestrator) { o.capture.set(client) }
}

func WithSynthesisClient(client texttospeech.SpeechSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.narration.setSynthesizer(client)
		o.narration.setEnabled(true)
	}
}

func WithAudioPlayer(player audio.Player) OrchestratorOption {
	return func(o *Orchestrator) { o.narration.setPlayer(player) }
}

func WithPersistenceStore(store persistence.Store) OrchestratorOption {
	return func(o *Orchestrator) { o.store = store }
}

// WithIdentity attaches the authenticated user's identity; the display name
// becomes the speaker label on user turns.
func WithIdentity(identity Identity) OrchestratorOption {
	return func(o *Orchestrator) { o.identity = identity }
}

// WithAssistantName sets the speaker label for assistant message turns.
func WithAssistantName(name string) OrchestratorOption {
	return func(o *Orchestrator) { o.assistantName = name }
}

// WithSessionID pins the session identity used to address persisted state.
// Defaults to a fresh UUID.
func WithSessionID(id string) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionID = id }
}

func WithNarrationEnabled(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) { o.narration.setEnabled(enabled) }
}

func WithEncodingInfo(encoding audio.EncodingInfo) OrchestratorOption {
	return func(o *Orchestrator) {
		o.encoding = encoding
		o.narration.setEncoding(encoding)
	}
}

// RunOptions carries the presentation-layer callbacks for one session run.
// All callbacks are invoked from the orchestration loop and must not block.
type RunOptions struct {
	onInterimTranscription func(transcript string)
	onCaptureStateChanged  func(listening bool)
	onChannelStateChanged  func(state transport.State)
	onAdvisory             func(advisory Advisory)
}

type RunOption func(*RunOptions)

// WithInterimTranscriptionCallback registers a callback for interim
// transcript updates. Each update replaces the previous display text; an
// empty string clears it.
func WithInterimTranscriptionCallback(callback func(transcript string)) RunOption {
	return func(o *RunOptions) {
		o.onInterimTranscription = callback
	}
}

// WithCaptureStateChangedCallback registers a callback for Listening/Idle
// transitions of the capture source.
func WithCaptureStateChangedCallback(callback func(listening bool)) RunOption {
	return func(o *RunOptions) {
		o.onCaptureStateChanged = callback
	}
}

// WithChannelStateChangedCallback registers a callback for channel state
// transitions.
func WithChannelStateChangedCallback(callback func(state transport.State)) RunOption {
	return func(o *RunOptions) {
		o.onChannelStateChanged = callback
	}
}

// WithAdvisoryCallback registers a callback for recovered failures the
// presentation layer should surface.
func WithAdvisoryCallback(callback func(advisory Advisory)) RunOption {
	return func(o *RunOptions) {
		o.onAdvisory = callback
	}
}
