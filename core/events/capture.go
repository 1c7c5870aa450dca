package events

const (
	// KindCaptureStartRequested identifies a user request to start listening.
	KindCaptureStartRequested Kind = "capture.start_requested"
	// KindCaptureStopRequested identifies a user request to stop listening.
	KindCaptureStopRequested Kind = "capture.stop_requested"
	// KindCaptureStarted identifies a capture session becoming live.
	KindCaptureStarted Kind = "capture.started"
	// KindCaptureStopped identifies a capture session ending without a final result.
	KindCaptureStopped Kind = "capture.stopped"
	// KindCaptureFailed identifies a capture session ending with an error.
	KindCaptureFailed Kind = "capture.failed"
)

// CaptureStartRequested marks a request to begin a capture session.
type CaptureStartRequested struct{ Base }

// NewCaptureStartRequested creates a capture start request event.
func NewCaptureStartRequested() CaptureStartRequested {
	return CaptureStartRequested{Base: NewBase(KindCaptureStartRequested)}
}

// CaptureStopRequested marks a request to end the active capture session.
type CaptureStopRequested struct{ Base }

// NewCaptureStopRequested creates a capture stop request event.
func NewCaptureStopRequested() CaptureStopRequested {
	return CaptureStopRequested{Base: NewBase(KindCaptureStopRequested)}
}

// CaptureStarted marks a capture session that is now listening.
type CaptureStarted struct{ Base }

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted() CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted)}
}

// CaptureStopped marks a capture session that ended without finalizing an utterance.
type CaptureStopped struct{ Base }

// NewCaptureStopped creates a capture stopped event.
func NewCaptureStopped() CaptureStopped {
	return CaptureStopped{Base: NewBase(KindCaptureStopped)}
}

// CaptureFailed marks a capture session that ended with an error.
type CaptureFailed struct {
	Base
	Err error
}

// NewCaptureFailed creates a capture failed event.
func NewCaptureFailed(err error) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), Err: err}
}
