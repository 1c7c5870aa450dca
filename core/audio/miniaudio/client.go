// Package miniaudio backs the audio.Player capability with malgo devices.
package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// Client owns one malgo context shared by the devices it creates. Contexts
// are expensive to initialize, so it is created lazily and reused.
type Client struct {
	mu           sync.Mutex
	audioContext *malgo.AllocatedContext
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) context() (*malgo.AllocatedContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.audioContext != nil {
		return c.audioContext, nil
	}

	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	c.audioContext = audioContext
	return audioContext, nil
}

// Close tears the shared context down. Devices created from it must already
// be uninitialized.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.audioContext == nil {
		return nil
	}

	if err := c.audioContext.Uninit(); err != nil {
		return fmt.Errorf("failed to uninitialize audio context: %w", err)
	}
	c.audioContext.Free()
	c.audioContext = nil
	return nil
}
