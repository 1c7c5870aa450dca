package transport

import "strings"

type FrameKind string

const (
	FrameKindMessage      FrameKind = "message"
	FrameKindThought      FrameKind = "thought"
	FrameKindFunctionCall FrameKind = "function_call"
)

// Frame is one inbound unit received over the channel.
type Frame struct {
	Kind FrameKind
	Text string
}

// wireFrame is the JSON shape exchanged with the endpoint. Inbound frames
// carry a type discriminator; anything without a recognized type is a plain
// assistant message. Outbound frames carry only the message text.
type wireFrame struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

const internalSendMarker = "Function: send_message"

// IsInternalSendMarker reports whether a function-call frame denotes the
// endpoint's internal send_message action. Such frames are transport
// bookkeeping, not conversation content, and are filtered before delivery.
func IsInternalSendMarker(frame Frame) bool {
	return frame.Kind == FrameKindFunctionCall && strings.Contains(frame.Text, internalSendMarker)
}

func decodeFrame(wire wireFrame) Frame {
	switch FrameKind(wire.Type) {
	case FrameKindThought:
		return Frame{Kind: FrameKindThought, Text: wire.Message}
	case FrameKindFunctionCall:
		return Frame{Kind: FrameKindFunctionCall, Text: wire.Message}
	default:
		return Frame{Kind: FrameKindMessage, Text: wire.Message}
	}
}
