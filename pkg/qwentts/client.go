// Package qwentts is an HTTP client for the Qwen3 TTS demo web service. It
// covers the full API surface: health probes, the four generation variants
// (preset speaker, voice design, voice clone, saved-prompt clone), voice
// prompt creation, the reference-audio upload utility and the server-side
// prompt cache controls.
//
// All operations are plain request/response calls that suspend until the
// server answers or the transport fails; there is no retry logic, no request
// queue and no de-duplication. Generation results carry the audio payload
// plus a [Metrics] value extracted from the response headers.
//
// Errors fall into three classes: [ValidationError] (rejected locally, no
// request sent), [APIError] (the server answered non-2xx; Detail carries the
// server's own message when parsable) and transport errors, recognisable via
// [IsUnreachable].
//
// Typical usage:
//
//	c, err := qwentts.New("http://localhost:8000", qwentts.WithAPIKey(key))
//	res, err := c.GenerateCustomVoice(ctx, qwentts.CustomVoiceRequest{
//	    Text:     "Hello there",
//	    Language: qwentts.LanguageAuto,
//	    Speaker:  "Ryan",
//	})
package qwentts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ---- constants ----

const (
	defaultTimeout = 120 * time.Second

	// apiKeyHeader authenticates every call below /api/v1.
	apiKeyHeader = "X-API-Key"

	healthEndpoint             = "/health"
	modelsHealthEndpoint       = "/health/models"
	customVoiceEndpoint        = "/api/v1/custom-voice/generate"
	customVoiceBatchEndpoint   = "/api/v1/custom-voice/batch"
	speakersEndpoint           = "/api/v1/custom-voice/speakers"
	languagesEndpoint          = "/api/v1/custom-voice/languages"
	voiceDesignEndpoint        = "/api/v1/voice-design/generate"
	voiceDesignBatchEndpoint   = "/api/v1/voice-design/batch"
	cloneEndpoint              = "/api/v1/base/clone"
	cloneStreamEndpoint        = "/api/v1/base/clone-stream"
	createPromptEndpoint       = "/api/v1/base/create-prompt"
	generateWithPromptEndpoint = "/api/v1/base/generate-with-prompt"
	uploadRefAudioEndpoint     = "/api/v1/base/upload-ref-audio"
	cacheStatsEndpoint         = "/api/v1/base/cache/stats"
	cacheClearEndpoint         = "/api/v1/base/cache/clear"
)

// ---- options ----

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the X-API-Key header on authenticated
// calls.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 120 s, sized
// for cold-start generation on a busy server.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely. Useful for
// custom transports in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// ---- Client ----

// Client issues requests against one TTS server. It is stateless between
// calls apart from the configured API key and safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client targeting the server at baseURL (e.g.
// "http://localhost:8000"). baseURL must be non-empty.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("qwentts: baseURL must not be empty")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ---- health ----

// Health probes GET /health. No authentication is required. A transport
// error (see IsUnreachable) means the server is offline.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.getJSON(ctx, healthEndpoint, false, fallbackHealth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModelsHealth probes GET /health/models and reports which model variants
// are loaded. No authentication is required.
func (c *Client) ModelsHealth(ctx context.Context) (*ModelsHealthResponse, error) {
	var out ModelsHealthResponse
	if err := c.getJSON(ctx, modelsHealthEndpoint, false, fallbackHealth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- generation ----

// GenerateCustomVoice synthesizes speech with a preset speaker via
// POST /api/v1/custom-voice/generate. ResponseFormat defaults to base64.
func (c *Client) GenerateCustomVoice(ctx context.Context, req CustomVoiceRequest) (*Result, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if !ValidSpeaker(req.Speaker) {
		return nil, &ValidationError{Field: "speaker", Reason: fmt.Sprintf("unknown speaker %q", req.Speaker)}
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	return c.postGenerate(ctx, customVoiceEndpoint, req, false)
}

// GenerateVoiceDesign synthesizes speech from a natural-language voice
// description via POST /api/v1/voice-design/generate.
func (c *Client) GenerateVoiceDesign(ctx context.Context, req VoiceDesignRequest) (*Result, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Instruct) == "" {
		return nil, &ValidationError{Field: "instruct", Reason: "voice description must not be empty"}
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	return c.postGenerate(ctx, voiceDesignEndpoint, req, false)
}

// CloneVoice synthesizes speech in the voice of an inline reference sample
// via POST /api/v1/base/clone. The response metrics include the server's
// prompt cache status.
func (c *Client) CloneVoice(ctx context.Context, req CloneRequest) (*Result, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if err := validateCloneSource(req.RefAudioBase64, req.RefText, req.XVectorOnlyMode); err != nil {
		return nil, err
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	return c.postGenerate(ctx, cloneEndpoint, req, true)
}

// GenerateWithPrompt synthesizes speech against a saved voice prompt via
// POST /api/v1/base/generate-with-prompt. The response metrics include the
// server's prompt cache status.
func (c *Client) GenerateWithPrompt(ctx context.Context, req GenerateWithPromptRequest) (*Result, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if req.PromptID == "" {
		return nil, &ValidationError{Field: "prompt_id", Reason: "must not be empty"}
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	return c.postGenerate(ctx, generateWithPromptEndpoint, req, true)
}

// GenerateCustomVoiceBatch synthesizes several texts in one call via
// POST /api/v1/custom-voice/batch. Texts, Languages and Speakers must have
// equal length.
func (c *Client) GenerateCustomVoiceBatch(ctx context.Context, req CustomVoiceBatchRequest) (*BatchAudioResponse, error) {
	if len(req.Texts) == 0 {
		return nil, &ValidationError{Field: "texts", Reason: "must not be empty"}
	}
	if len(req.Texts) != len(req.Languages) || len(req.Texts) != len(req.Speakers) {
		return nil, &ValidationError{Field: "texts", Reason: "texts, languages and speakers must have the same length"}
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	var out BatchAudioResponse
	if err := c.postJSON(ctx, customVoiceBatchEndpoint, req, fallbackGenerate, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateVoiceDesignBatch synthesizes several voice-design texts in one
// call via POST /api/v1/voice-design/batch.
func (c *Client) GenerateVoiceDesignBatch(ctx context.Context, req VoiceDesignBatchRequest) (*BatchAudioResponse, error) {
	if len(req.Texts) == 0 {
		return nil, &ValidationError{Field: "texts", Reason: "must not be empty"}
	}
	if len(req.Texts) != len(req.Languages) || len(req.Texts) != len(req.Instructs) {
		return nil, &ValidationError{Field: "texts", Reason: "texts, languages and instructs must have the same length"}
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}
	var out BatchAudioResponse
	if err := c.postJSON(ctx, voiceDesignBatchEndpoint, req, fallbackGenerate, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- voice prompts ----

// CreatePrompt registers a reusable voice prompt from reference audio via
// POST /api/v1/base/create-prompt. The returned PromptID can be passed to
// GenerateWithPrompt to avoid re-uploading the sample on every generation.
func (c *Client) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*CreatePromptResponse, error) {
	if err := validateCloneSource(req.RefAudioBase64, req.RefText, req.XVectorOnlyMode); err != nil {
		return nil, err
	}
	var out CreatePromptResponse
	if err := c.postJSON(ctx, createPromptEndpoint, req, fallbackCreatePrompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- reference audio upload ----

// UploadRefAudio uploads an audio file via multipart POST
// /api/v1/base/upload-ref-audio and returns its base64 encoding. The
// Content-Type header is left to the multipart writer so the boundary is set
// correctly.
func (c *Client) UploadRefAudio(ctx context.Context, filename string, r io.Reader) (*UploadRefAudioResponse, error) {
	if filename == "" {
		return nil, &ValidationError{Field: "filename", Reason: "must not be empty"}
	}
	if err := c.requireKey(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("qwentts: create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("qwentts: write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("qwentts: close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadRefAudioEndpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("qwentts: create upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwentts: POST %s: %w", uploadRefAudioEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, fallbackUpload)
	}

	var out UploadRefAudioResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("qwentts: decode upload response: %w", err)
	}
	return &out, nil
}

// ---- catalogue ----

// ListSpeakers fetches the preset speaker catalogue via
// GET /api/v1/custom-voice/speakers.
func (c *Client) ListSpeakers(ctx context.Context) ([]SpeakerInfo, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	var out SpeakersResponse
	if err := c.getJSON(ctx, speakersEndpoint, true, fallbackCatalog, &out); err != nil {
		return nil, err
	}
	return out.Speakers, nil
}

// ListLanguages fetches the supported language names via
// GET /api/v1/custom-voice/languages.
func (c *Client) ListLanguages(ctx context.Context) ([]string, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	var out LanguagesResponse
	if err := c.getJSON(ctx, languagesEndpoint, true, fallbackCatalog, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// ---- cache ----

// FetchCacheStats reads the server's voice prompt cache counters via
// GET /api/v1/base/cache/stats.
func (c *Client) FetchCacheStats(ctx context.Context) (*CacheStats, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	var out CacheStats
	if err := c.getJSON(ctx, cacheStatsEndpoint, true, fallbackCacheStats, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearCache empties the server's voice prompt cache via
// POST /api/v1/base/cache/clear. The response body is an acknowledgement
// only and is discarded.
func (c *Client) ClearCache(ctx context.Context) error {
	if err := c.requireKey(); err != nil {
		return err
	}

	// No body, so no Content-Type either.
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cacheClearEndpoint, nil)
	if err != nil {
		return fmt.Errorf("qwentts: create cache clear request: %w", err)
	}
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("qwentts: POST %s: %w", cacheClearEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, fallbackCacheClear)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// ---- request plumbing ----

// requireKey rejects authenticated calls before any request is built when no
// API key is configured.
func (c *Client) requireKey() error {
	if c.apiKey == "" {
		return &ValidationError{Field: "api key", Reason: "not configured"}
	}
	return nil
}

// validateText enforces the shared non-empty-after-trim text rule of all
// generation variants.
func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	return nil
}

// validateCloneSource enforces the reference-audio rules shared by clone and
// create-prompt: audio is mandatory, and a transcript is mandatory unless
// x-vector-only mode is on.
func validateCloneSource(refAudio, refText string, xVectorOnly bool) error {
	if refAudio == "" {
		return &ValidationError{Field: "ref_audio_base64", Reason: "reference audio is required"}
	}
	if !xVectorOnly && strings.TrimSpace(refText) == "" {
		return &ValidationError{Field: "ref_text", Reason: "transcript is required unless x_vector_only_mode is set"}
	}
	return nil
}

// postGenerate runs one generation call: marshal, send, decode the audio
// payload and lift the performance headers into a Metrics value. The wall
// clock is measured around the full round trip.
func (c *Client) postGenerate(ctx context.Context, path string, body any, withCache bool) (*Result, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("qwentts: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("qwentts: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwentts: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, fallbackGenerate)
	}

	var audio AudioResponse
	if err := json.NewDecoder(resp.Body).Decode(&audio); err != nil {
		return nil, fmt.Errorf("qwentts: decode audio response: %w", err)
	}
	elapsed := time.Since(start)

	return &Result{
		Audio:   audio,
		Metrics: extractMetrics(resp.Header, elapsed, withCache),
	}, nil
}

// postJSON sends a JSON body and decodes a JSON response, normalizing non-2xx
// statuses through decodeError.
func (c *Client) postJSON(ctx context.Context, path string, body any, fallback string, out any) error {
	if err := c.requireKey(); err != nil {
		return err
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("qwentts: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("qwentts: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("qwentts: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, fallback)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("qwentts: decode response: %w", err)
	}
	return nil
}

// getJSON sends an authenticated or anonymous GET and decodes the JSON
// response. GET requests never carry a Content-Type.
func (c *Client) getJSON(ctx context.Context, path string, auth bool, fallback string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("qwentts: create request: %w", err)
	}
	if auth {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("qwentts: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp, fallback)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("qwentts: decode response: %w", err)
	}
	return nil
}
