package session

import (
	"errors"

	"github.com/pgcopilot/session-core/core/persistence"
	"github.com/pgcopilot/session-core/core/speechtotext"
	"github.com/pgcopilot/session-core/core/texttospeech"
	"github.com/pgcopilot/session-core/core/transport"
)

// AdvisoryCode classifies a recovered session failure for the presentation
// layer. None of these are fatal: the session continues in a degraded mode.
type AdvisoryCode string

const (
	AdvisoryTransportUnavailable   AdvisoryCode = "transport_unavailable"
	AdvisoryNotConnected           AdvisoryCode = "not_connected"
	AdvisoryCaptureUnsupported     AdvisoryCode = "capture_unsupported"
	AdvisoryCaptureError           AdvisoryCode = "capture_error"
	AdvisorySynthesisUnavailable   AdvisoryCode = "synthesis_unavailable"
	AdvisoryPersistenceWriteFailed AdvisoryCode = "persistence_write_failed"
	AdvisoryDisconnected           AdvisoryCode = "disconnected"
	AdvisorySessionError           AdvisoryCode = "session_error"
)

// Advisory is a non-fatal failure report surfaced to the presentation layer.
type Advisory struct {
	Code AdvisoryCode
	Err  error
}

func classifyAdvisory(err error) AdvisoryCode {
	var captureErr *speechtotext.CaptureError

	switch {
	case errors.Is(err, transport.ErrTransportUnavailable):
		return AdvisoryTransportUnavailable
	case errors.Is(err, transport.ErrNotConnected):
		return AdvisoryNotConnected
	case errors.Is(err, speechtotext.ErrCaptureUnsupported):
		return AdvisoryCaptureUnsupported
	case errors.As(err, &captureErr):
		return AdvisoryCaptureError
	case errors.Is(err, texttospeech.ErrSynthesisUnavailable):
		return AdvisorySynthesisUnavailable
	case errors.Is(err, persistence.ErrWriteFailed):
		return AdvisoryPersistenceWriteFailed
	}
	return AdvisorySessionError
}
