// Package audio defines the encoding vocabulary and the playback capability
// shared by the capture and narration paths.
package audio

// Format identifies the raw PCM encoding of audio bytes.
type Format string

const (
	FormatLinear16 Format = "linear16"
	FormatMulaw    Format = "mulaw"
	FormatALaw     Format = "alaw"
)

// Name returns the wire name providers expect for the format.
func (f Format) Name() string {
	return string(f)
}

// EncodingInfo describes how raw audio bytes are to be interpreted. The same
// value is handed to the capture stream, the synthesis request, and the
// playback device, so all three stay in agreement.
type EncodingInfo struct {
	SampleRate int
	Format     Format
}

// GetDefaultEncodingInfo returns the encoding used when none is configured:
// 16kHz linear16 mono.
func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: 16000, Format: FormatLinear16}
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format == ""
}
