// Package speechtotext defines the capture contract: options, callbacks, and
// the error taxonomy shared by transcription clients.
package speechtotext

import (
	"errors"

	"github.com/pgcopilot/session-core/core/audio"
)

var (
	// ErrCaptureUnsupported reports that the host has no capture capability
	// (no provider configured or no credentials for it).
	ErrCaptureUnsupported = errors.New("speech capture unsupported")
)

// CaptureError reports a failure during an active capture session. Capture is
// never retried automatically after one.
type CaptureError struct {
	Reason string
}

func (e *CaptureError) Error() string {
	return "capture error: " + e.Reason
}

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives mutable interim transcripts.
	// Each call replaces the previous interim text.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives at most one final transcript per
	// utterance. The capture session ends itself after delivering it.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	// ErrorCallback receives capture failures. The session is over by the
	// time it fires.
	ErrorCallback func(err error)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
