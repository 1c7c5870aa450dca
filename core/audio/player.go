package audio

import "context"

// Player renders one clip of synthesized audio.
//
// Play blocks until the clip finishes or ctx is cancelled, so callers own the
// pacing: a cancelled context stops playback early and drops any buffered
// audio for the clip.
type Player interface {
	Play(ctx context.Context, audio []byte, encoding EncodingInfo) error
}
