// Package deepgram fetches synthesized speech from Deepgram's speak REST
// endpoint.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/pgcopilot/session-core/core/audio"
	"github.com/pgcopilot/session-core/core/texttospeech"
)

const speakEndpoint = "https://api.deepgram.com/v1/speak"

type deepgramVoice string

const (
	VoiceThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceOrion   deepgramVoice = "aura-2-orion-en"
	VoiceAsteria deepgramVoice = "aura-asteria-en"

	defaultVoice = VoiceThalia
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceThalia, VoiceOrion, VoiceAsteria}
}

type SynthesisClient struct {
	httpClient *http.Client
	endpoint   string
	voice      deepgramVoice
	encoding   audio.EncodingInfo
}

type SynthesisClientOption func(*SynthesisClient)

// WithHTTPClient overrides the HTTP client used for speak requests.
func WithHTTPClient(client *http.Client) SynthesisClientOption {
	return func(c *SynthesisClient) { c.httpClient = client }
}

// WithEndpoint overrides the speak endpoint, mainly for tests.
func WithEndpoint(endpoint string) SynthesisClientOption {
	return func(c *SynthesisClient) { c.endpoint = endpoint }
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) SynthesisClientOption {
	return func(c *SynthesisClient) { c.encoding = encodingInfo }
}

func NewSynthesisClient(voice deepgramVoice, opts ...SynthesisClientOption) (*SynthesisClient, error) {
	if voice == "" {
		voice = defaultVoice
	}
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	client := &SynthesisClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   speakEndpoint,
		voice:      voice,
		encoding:   audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Synthesize fetches playable audio for text. Failures wrap
// texttospeech.ErrSynthesisUnavailable so callers can skip playback without
// inspecting provider details.
func (c *SynthesisClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("%w: deepgram api key not found", texttospeech.ErrSynthesisUnavailable)
	}

	speakUrl, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint: %v", texttospeech.ErrSynthesisUnavailable, err)
	}
	queryParams := speakUrl.Query()
	queryParams.Set("model", string(c.voice))
	queryParams.Set("encoding", c.encoding.Format.Name())
	queryParams.Set("sample_rate", strconv.Itoa(c.encoding.SampleRate))
	queryParams.Set("container", "none")
	speakUrl.RawQuery = queryParams.Encode()

	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakUrl.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: speak request failed: %v", texttospeech.ErrSynthesisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: speak request returned %s", texttospeech.ErrSynthesisUnavailable, resp.Status)
	}

	audioBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read speak response: %v", texttospeech.ErrSynthesisUnavailable, err)
	}

	return audioBytes, nil
}
