package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/pgcopilot/session-core/core/speechtotext"
)

// Transcribe opens one capture session. It fails with
// speechtotext.ErrCaptureUnsupported when no API key is configured, and with
// a wrapped dial error when the socket cannot be opened. The session ends on
// its own after the first final transcript; feed audio with SendAudio and cut
// it short with Stop.
func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.EncodingInfo.IsZero() {
		return fmt.Errorf("encoding info is required")
	}

	if err := validateEncoding(options.EncodingInfo); err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: options.EncodingInfo.SampleRate,
		encoding:   options.EncodingInfo.Format.Name(),

		detectSpeechStart: options.SpeechStartedCallback != nil,
		interimResults:    options.InterimTranscriptionCallback != nil,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.lastMsgTs = time.Now()
	s.accumulatedTranscript = ""
	s.mu.Unlock()

	go s.readAndProcessMessages(ctx, conn, *options)

	return nil
}

type connectionOptions struct {
	sampleRate int
	encoding   string

	detectSpeechStart bool
	interimResults    bool
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("%w: deepgram api key not found", speechtotext.ErrCaptureUnsupported)
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", "en-US")
	queryParams.Set("smart_format", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("interim_results", "true")
	queryParams.Set("endpointing", "300")
	if options.detectSpeechStart {
		queryParams.Set("vad_events", "true")
	}

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

// SendAudio forwards one chunk of captured audio to the live stream.
func (s *TranscriptionClient) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("no active capture session")
	}

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// Stop requests cessation of the active capture session. Any transcript
// accumulated for an utterance that never finalized is discarded.
func (s *TranscriptionClient) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accumulatedTranscript = ""
	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream: %w", err)
		}
	}
	return nil
}

func (s *TranscriptionClient) sendKeepAlive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return
	}
	if err := s.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "KeepAlive"}); err != nil {
		log.Println("Failed to write keep-alive to deepgram client", "error", err)
	}
}

func (s *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options speechtotext.TranscriptionOptions) {
	keepAliveCtx, keepAliveCancel := context.WithCancel(ctx)
	defer keepAliveCancel()
	go s.keepAlive(keepAliveCtx)

	requestedStop := false
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			stopped := s.conn == nil || requestedStop
			s.conn = nil
			s.mu.Unlock()
			conn.Close()

			if !stopped && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				if options.ErrorCallback != nil {
					options.ErrorCallback(&speechtotext.CaptureError{Reason: err.Error()})
				}
				return
			}
			if options.SpeechEndedCallback != nil && stopped {
				options.SpeechEndedCallback()
			}
			return
		}
		if msgType == websocket.BinaryMessage {
			continue
		}

		if final := s.processMessage(msg, options); final {
			// One utterance per session: drain until the server
			// acknowledges the close we just requested.
			requestedStop = true
			if err := s.Stop(); err != nil {
				log.Println("Failed to stop deepgram stream after final transcript", "error", err)
			}
		}
	}
}

// processMessage handles one server message and reports whether it finalized
// the utterance.
func (s *TranscriptionClient) processMessage(msg []byte, options speechtotext.TranscriptionOptions) bool {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return false
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return false
		}
		if len(msgResp.Channel.Alternatives) == 0 {
			return false
		}
		transcript := strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)

		if msgResp.IsFinal {
			if len(transcript) > 0 {
				s.mu.Lock()
				s.accumulatedTranscript = strings.TrimSpace(s.accumulatedTranscript + " " + transcript)
				s.mu.Unlock()
			}
			if msgResp.SpeechFinal {
				return s.finalizeUtterance(options)
			}
			return false
		}

		if len(transcript) > 0 && options.InterimTranscriptionCallback != nil {
			s.mu.Lock()
			interim := strings.TrimSpace(s.accumulatedTranscript + " " + transcript)
			s.mu.Unlock()
			options.InterimTranscriptionCallback(interim)
		}

	case api.TypeUtteranceEndResponse:
		// Fallback for an utterance whose last result was is_final but
		// never speech_final; finalizeUtterance no-ops when nothing has
		// accumulated.
		return s.finalizeUtterance(options)

	case api.TypeSpeechStartedResponse:
		if options.SpeechStartedCallback != nil {
			options.SpeechStartedCallback()
		}
	}

	return false
}

func (s *TranscriptionClient) finalizeUtterance(options speechtotext.TranscriptionOptions) bool {
	s.mu.Lock()
	fullTranscript := strings.TrimSpace(s.accumulatedTranscript)
	s.accumulatedTranscript = ""
	s.mu.Unlock()

	if len(fullTranscript) == 0 {
		return false
	}

	if options.TranscriptionCallback != nil {
		options.TranscriptionCallback(fullTranscript)
	}
	return true
}

// keepAlive keeps the stream open across user silence; Deepgram drops the
// socket after ~10s without traffic.
func (s *TranscriptionClient) keepAlive(ctx context.Context) {
	const keepAliveInterval = 5 * time.Second
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			idle := time.Since(s.lastMsgTs) >= keepAliveInterval
			s.mu.Unlock()
			if idle {
				s.sendKeepAlive()
			}
		}
	}
}
