package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/pgcopilot/session-core/core/audio"
)

// Player plays one clip at a time on the default playback device. It
// implements audio.Player.
type Player struct {
	client *Client

	playMu sync.Mutex
}

func NewPlayer() *Player {
	return &Player{client: NewClient()}
}

// Play renders the clip and blocks until it drains or ctx is cancelled.
// Cancellation stops the device immediately and discards the remainder of
// the clip. Concurrent calls are serialized; the session layer is expected
// to cancel a previous narration before starting the next.
func (p *Player) Play(ctx context.Context, clip []byte, encoding audio.EncodingInfo) error {
	if len(clip) == 0 {
		return nil
	}

	format, err := convertFormat(encoding)
	if err != nil {
		return err
	}

	p.playMu.Lock()
	defer p.playMu.Unlock()

	audioContext, err := p.client.context()
	if err != nil {
		return err
	}

	sampleRate := uint32(encoding.SampleRate)
	channels := 1
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	config.Periods = 4

	var offsetMu sync.Mutex
	offset := 0
	done := make(chan struct{})
	var doneOnce sync.Once

	onData := func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		offsetMu.Lock()
		remaining := clip[offset:]
		if len(remaining) > need {
			remaining = remaining[:need]
		}
		offset += len(remaining)
		drained := offset >= len(clip)
		offsetMu.Unlock()

		copy(pOutput, remaining)
		if drained {
			doneOnce.Do(func() { close(done) })
		}
	}

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{Data: onData})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	select {
	case <-ctx.Done():
		_ = device.Stop()
		return ctx.Err()
	case <-done:
	}

	if err := device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}
	return nil
}

// Close releases the underlying audio context.
func (p *Player) Close() error {
	return p.client.Close()
}

func convertFormat(encoding audio.EncodingInfo) (malgo.FormatType, error) {
	switch encoding.Format {
	case audio.FormatLinear16:
		return malgo.FormatS16, nil
	case audio.FormatALaw, audio.FormatMulaw:
		return malgo.FormatUnknown, fmt.Errorf("unsupported playback encoding %s", encoding.Format.Name())
	}
	return malgo.FormatUnknown, fmt.Errorf("unsupported playback encoding")
}
