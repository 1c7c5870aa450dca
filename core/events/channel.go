package events

const (
	// KindChannelFrameReceived identifies an inbound frame from the session channel.
	KindChannelFrameReceived Kind = "channel.frame_received"
	// KindChannelClosed identifies loss of the session channel.
	KindChannelClosed Kind = "channel.closed"
)

// ChannelFrameReceived carries one inbound frame. FrameKind is the wire-level
// kind string (message, thought, function_call).
type ChannelFrameReceived struct {
	Base
	FrameKind string
	Text      string
}

// NewChannelFrameReceived creates an inbound frame event.
func NewChannelFrameReceived(frameKind string, text string) ChannelFrameReceived {
	return ChannelFrameReceived{Base: NewBase(KindChannelFrameReceived), FrameKind: frameKind, Text: text}
}

// ChannelClosed marks a transport-level close or error.
type ChannelClosed struct {
	Base
	Err error
}

// NewChannelClosed creates a channel closed event.
func NewChannelClosed(err error) ChannelClosed {
	return ChannelClosed{Base: NewBase(KindChannelClosed), Err: err}
}
