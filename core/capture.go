package session

import (
	"context"
	"fmt"

	"sync"

	"github.com/pgcopilot/session-core/core/audio"
	"github.com/pgcopilot/session-core/core/speechtotext"
)

type captureCallbacks struct {
	onInterim func(transcript string)
	onFinal   func(transcript string)
	onEnded   func()
	onError   func(err error)
}

// captureSource is the facade normalizing optional speech-to-text wiring and
// guarding the Idle/Listening state. Capture is one-shot per utterance: the
// source returns to Idle after a final result and must be started again for
// the next utterance.
type captureSource struct {
	client SpeechToText

	mu        sync.Mutex
	listening bool
}

func (c *captureSource) set(client SpeechToText) {
	if c != nil {
		c.client = client
	}
}

func (c *captureSource) isConfigured() bool {
	return c != nil && c.client != nil
}

func (c *captureSource) isListening() bool {
	if c == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// start begins one capture session. Starting while already Listening is a
// no-op, not an error.
func (c *captureSource) start(ctx context.Context, encoding audio.EncodingInfo, callbacks captureCallbacks) error {
	if !c.isConfigured() {
		return fmt.Errorf("%w: no speech-to-text client configured", speechtotext.ErrCaptureUnsupported)
	}

	c.mu.Lock()
	if c.listening {
		c.mu.Unlock()
		return nil
	}
	c.listening = true
	c.mu.Unlock()

	err := c.client.Transcribe(ctx,
		speechtotext.WithEncodingInfo(encoding),
		speechtotext.WithInterimTranscriptionCallback(callbacks.onInterim),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			c.markIdle()
			callbacks.onFinal(transcript)
		}),
		speechtotext.WithSpeechEndedCallback(func() {
			if c.markIdle() && callbacks.onEnded != nil {
				callbacks.onEnded()
			}
		}),
		speechtotext.WithErrorCallback(func(err error) {
			c.markIdle()
			callbacks.onError(err)
		}),
	)
	if err != nil {
		c.markIdle()
		return fmt.Errorf("failed to start capture: %w", err)
	}

	return nil
}

// stop requests cessation of the active session. Interim text buffered for an
// utterance that never finalized is discarded by the client, not appended.
func (c *captureSource) stop() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	if !c.listening {
		c.mu.Unlock()
		return nil
	}
	c.listening = false
	c.mu.Unlock()

	if err := c.client.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture: %w", err)
	}
	return nil
}

func (c *captureSource) sendAudio(audio []byte) error {
	if !c.isConfigured() {
		return nil
	}

	return c.client.SendAudio(audio)
}

// markIdle transitions Listening to Idle, reporting whether a transition
// happened.
func (c *captureSource) markIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasListening := c.listening
	c.listening = false
	return wasListening
}
