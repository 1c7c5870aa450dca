// Package texttospeech defines the speech-synthesis contract: given text,
// a provider returns playable audio bytes or fails. Provider integration
// details live in subpackages.
package texttospeech

import (
	"context"
	"errors"
)

// ErrSynthesisUnavailable reports that synthesized audio could not be
// fetched. Callers skip playback and carry on; narration failures never block
// a session.
var ErrSynthesisUnavailable = errors.New("speech synthesis unavailable")

// SpeechSynthesizer fetches playable audio for a turn's content from an
// external synthesis provider.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
