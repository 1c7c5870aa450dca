package deepgram

import (
	"fmt"

	"github.com/pgcopilot/session-core/core/audio"
)

// validateEncoding checks that the encoding is one the listen endpoint
// accepts. Mulaw and alaw are telephony formats pinned to 8kHz.
func validateEncoding(encoding audio.EncodingInfo) error {
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.FormatLinear16:
	case audio.FormatMulaw, audio.FormatALaw:
		if encoding.SampleRate != 8000 {
			return fmt.Errorf("%s requires an 8kHz sample rate", encoding.Format.Name())
		}
	default:
		return fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	return nil
}
