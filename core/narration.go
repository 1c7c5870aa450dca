package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pgcopilot/session-core/core/audio"
	"github.com/pgcopilot/session-core/core/texttospeech"
)

// narrationSink renders assistant message turns as audio. At most one
// playback is active at a time: starting a new narration cancels the
// in-flight fetch and playback of the previous one before the next begins.
type narrationSink struct {
	synthesizer texttospeech.SpeechSynthesizer
	player      audio.Player
	encoding    audio.EncodingInfo

	enabled atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	// lastNarrated is the dedup key: the content of the last turn a
	// narration was initiated for. Identical consecutive content is
	// narrated at most once.
	lastNarrated string
}

func (n *narrationSink) setSynthesizer(synthesizer texttospeech.SpeechSynthesizer) {
	if n != nil {
		n.synthesizer = synthesizer
	}
}

func (n *narrationSink) setPlayer(player audio.Player) {
	if n != nil {
		n.player = player
	}
}

func (n *narrationSink) setEncoding(encoding audio.EncodingInfo) {
	if n != nil {
		n.encoding = encoding
	}
}

func (n *narrationSink) isConfigured() bool {
	return n != nil && n.synthesizer != nil
}

func (n *narrationSink) setEnabled(enabled bool) {
	if n != nil {
		n.enabled.Store(enabled)
	}
}

func (n *narrationSink) isEnabled() bool {
	return n != nil && n.enabled.Load()
}

// narrate starts narration for content, reporting whether one was started.
// It is a no-op when narration is disabled, unconfigured, or content matches
// the dedup key. onDone always fires for a started narration, even when the
// fetch or playback failed, so parked work behind it can proceed.
func (n *narrationSink) narrate(ctx context.Context, content string, onDone func(content string), onErr func(err error)) bool {
	if !n.isEnabled() || !n.isConfigured() {
		return false
	}

	n.mu.Lock()
	if content == n.lastNarrated {
		n.mu.Unlock()
		return false
	}
	if n.cancel != nil {
		n.cancel()
	}
	narrationCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.lastNarrated = content
	n.mu.Unlock()

	go func() {
		defer onDone(content)

		audioBytes, err := n.synthesizer.Synthesize(narrationCtx, content)
		if err != nil {
			if narrationCtx.Err() == nil {
				onErr(err)
			}
			return
		}

		if n.player == nil {
			return
		}
		if err := n.player.Play(narrationCtx, audioBytes, n.encoding); err != nil && narrationCtx.Err() == nil {
			onErr(err)
		}
	}()

	return true
}

// cancelActive cancels the in-flight narration, if any.
func (n *narrationSink) cancelActive() {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

// resetDedup forgets the dedup key so the next narration always plays. Used
// after the log is cleared.
func (n *narrationSink) resetDedup() {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastNarrated = ""
}
