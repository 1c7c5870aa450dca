package session

import (
	"context"
	"fmt"

	"github.com/pgcopilot/session-core/core/transport"
)

// sessionChannel is the facade normalizing optional channel wiring. A session
// without a configured channel behaves as permanently disconnected.
type sessionChannel struct {
	client SessionChannel
}

func (c *sessionChannel) set(client SessionChannel) {
	if c != nil {
		c.client = client
	}
}

func (c *sessionChannel) isConfigured() bool {
	return c != nil && c.client != nil
}

func (c *sessionChannel) connect(ctx context.Context) error {
	if !c.isConfigured() {
		return fmt.Errorf("%w: no channel configured", transport.ErrTransportUnavailable)
	}

	return c.client.Connect(ctx)
}

func (c *sessionChannel) send(text string) error {
	if !c.isConfigured() {
		return fmt.Errorf("%w: no channel configured", transport.ErrNotConnected)
	}

	return c.client.Send(text)
}

func (c *sessionChannel) state() transport.State {
	if !c.isConfigured() {
		return transport.StateClosed
	}

	return c.client.State()
}

func (c *sessionChannel) close() error {
	if !c.isConfigured() {
		return nil
	}

	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close session channel: %w", err)
	}
	return nil
}

func (c *sessionChannel) onInboundFrame(handler func(transport.Frame)) {
	if c.isConfigured() {
		c.client.OnInboundFrame(handler)
	}
}

func (c *sessionChannel) onClosed(handler func(error)) {
	if c.isConfigured() {
		c.client.OnClosed(handler)
	}
}
