// Package deepgram implements the capture contract over Deepgram's streaming
// transcription websocket. One Transcribe call covers one utterance: the
// stream shuts itself down after the final transcript is delivered.
package deepgram

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type TranscriptionClient struct {
	// mu guards the connection and the accumulated transcript state; both
	// are touched by the read goroutine and by Stop/SendAudio callers.
	mu        sync.Mutex
	conn      *websocket.Conn
	lastMsgTs time.Time

	accumulatedTranscript string
}

func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}
