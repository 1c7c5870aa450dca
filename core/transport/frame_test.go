package transport

import "testing"

func TestDecodeFrameMapsKnownTypes(t *testing.T) {
	testCases := []struct {
		name     string
		wire     wireFrame
		expected Frame
	}{
		{
			name:     "thought",
			wire:     wireFrame{Type: "thought", Message: "considering options"},
			expected: Frame{Kind: FrameKindThought, Text: "considering options"},
		},
		{
			name:     "function call",
			wire:     wireFrame{Type: "function_call", Message: "Function: lookup"},
			expected: Frame{Kind: FrameKindFunctionCall, Text: "Function: lookup"},
		},
		{
			name:     "absent type is a message",
			wire:     wireFrame{Message: "hello"},
			expected: Frame{Kind: FrameKindMessage, Text: "hello"},
		},
		{
			name:     "unknown type is a message",
			wire:     wireFrame{Type: "status", Message: "ready"},
			expected: Frame{Kind: FrameKindMessage, Text: "ready"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			frame := decodeFrame(testCase.wire)
			if frame != testCase.expected {
				t.Fatalf("expected %+v, got %+v", testCase.expected, frame)
			}
		})
	}
}

func TestIsInternalSendMarker(t *testing.T) {
	marker := Frame{Kind: FrameKindFunctionCall, Text: "Function: send_message"}
	if !IsInternalSendMarker(marker) {
		t.Fatalf("expected the send marker to be recognized")
	}

	embedded := Frame{Kind: FrameKindFunctionCall, Text: "calling Function: send_message now"}
	if !IsInternalSendMarker(embedded) {
		t.Fatalf("expected an embedded send marker to be recognized")
	}

	otherCall := Frame{Kind: FrameKindFunctionCall, Text: "Function: lookup"}
	if IsInternalSendMarker(otherCall) {
		t.Fatalf("expected other function calls to pass through")
	}

	message := Frame{Kind: FrameKindMessage, Text: "Function: send_message"}
	if IsInternalSendMarker(message) {
		t.Fatalf("expected the marker text in a message frame to pass through")
	}
}
