package qwentts

import "encoding/json"

// ResponseFormat selects how generated audio is returned by the server.
type ResponseFormat string

const (
	// FormatBase64 returns audio as a base64-encoded JSON payload. This is
	// the only format the client requests by default; all decode helpers in
	// pkg/audio assume it.
	FormatBase64 ResponseFormat = "base64"

	// FormatFloat returns raw float samples. Accepted by the server but not
	// used by any client flow; callers may set it explicitly.
	FormatFloat ResponseFormat = "float"
)

// LanguageAuto asks the server to detect the language from the text.
const LanguageAuto = "Auto"

// CustomVoiceRequest is the JSON body for POST /api/v1/custom-voice/generate.
// Speaker must be one of the known speaker identifiers (see Speakers).
type CustomVoiceRequest struct {
	Text           string         `json:"text"`
	Language       string         `json:"language"`
	Speaker        string         `json:"speaker"`
	Instruct       string         `json:"instruct,omitempty"`
	Speed          float64        `json:"speed,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// VoiceDesignRequest is the JSON body for POST /api/v1/voice-design/generate.
// Instruct is the natural-language description of the target voice and is
// required.
type VoiceDesignRequest struct {
	Text           string         `json:"text"`
	Language       string         `json:"language"`
	Instruct       string         `json:"instruct"`
	Speed          float64        `json:"speed,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// CloneRequest is the JSON body for POST /api/v1/base/clone. RefAudioBase64
// carries the reference sample inline; RefText is its transcript and is
// required unless XVectorOnlyMode is set.
type CloneRequest struct {
	Text            string
	Language        string
	RefAudioBase64  string
	RefText         string
	XVectorOnlyMode bool
	Speed           float64
	ResponseFormat  ResponseFormat
}

// cloneWire is the serialized shape of CloneRequest. RefText is a pointer so
// that x-vector-only mode can send an explicit JSON null, signalling
// "transcript intentionally absent" rather than omitting the field.
type cloneWire struct {
	Text            string         `json:"text"`
	Language        string         `json:"language"`
	RefAudioBase64  string         `json:"ref_audio_base64"`
	RefText         *string        `json:"ref_text"`
	XVectorOnlyMode bool           `json:"x_vector_only_mode"`
	Speed           float64        `json:"speed,omitempty"`
	ResponseFormat  ResponseFormat `json:"response_format,omitempty"`
}

// MarshalJSON serializes the request. When XVectorOnlyMode is true the
// transcript is forced to null even if RefText holds a non-empty string: the
// mode flag takes precedence on the wire.
func (r CloneRequest) MarshalJSON() ([]byte, error) {
	w := cloneWire{
		Text:            r.Text,
		Language:        r.Language,
		RefAudioBase64:  r.RefAudioBase64,
		XVectorOnlyMode: r.XVectorOnlyMode,
		Speed:           r.Speed,
		ResponseFormat:  r.ResponseFormat,
	}
	if !r.XVectorOnlyMode && r.RefText != "" {
		w.RefText = &r.RefText
	}
	return json.Marshal(w)
}

// CreatePromptRequest is the JSON body for POST /api/v1/base/create-prompt.
// The same transcript rules as CloneRequest apply.
type CreatePromptRequest struct {
	RefAudioBase64  string
	RefText         string
	XVectorOnlyMode bool
}

type createPromptWire struct {
	RefAudioBase64  string  `json:"ref_audio_base64"`
	RefText         *string `json:"ref_text"`
	XVectorOnlyMode bool    `json:"x_vector_only_mode"`
}

// MarshalJSON serializes the request with the explicit-null transcript rule
// of x-vector-only mode.
func (r CreatePromptRequest) MarshalJSON() ([]byte, error) {
	w := createPromptWire{
		RefAudioBase64:  r.RefAudioBase64,
		XVectorOnlyMode: r.XVectorOnlyMode,
	}
	if !r.XVectorOnlyMode && r.RefText != "" {
		w.RefText = &r.RefText
	}
	return json.Marshal(w)
}

// GenerateWithPromptRequest is the JSON body for
// POST /api/v1/base/generate-with-prompt. PromptID references a voice prompt
// previously created via CreatePrompt.
type GenerateWithPromptRequest struct {
	Text           string         `json:"text"`
	Language       string         `json:"language"`
	PromptID       string         `json:"prompt_id"`
	Speed          float64        `json:"speed,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// CustomVoiceBatchRequest is the JSON body for POST /api/v1/custom-voice/batch.
// Texts, Languages and Speakers must have the same length; Instructs is
// optional and, when present, must match too.
type CustomVoiceBatchRequest struct {
	Texts          []string       `json:"texts"`
	Languages      []string       `json:"languages"`
	Speakers       []string       `json:"speakers"`
	Instructs      []string       `json:"instructs,omitempty"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// VoiceDesignBatchRequest is the JSON body for POST /api/v1/voice-design/batch.
type VoiceDesignBatchRequest struct {
	Texts          []string       `json:"texts"`
	Languages      []string       `json:"languages"`
	Instructs      []string       `json:"instructs"`
	ResponseFormat ResponseFormat `json:"response_format,omitempty"`
}

// AudioResponse is the base64 generation result shared by all single-shot
// generation endpoints.
type AudioResponse struct {
	// Audio is the base64-encoded WAV payload.
	Audio string `json:"audio"`

	// SampleRate is the waveform sample rate in Hz (e.g. 24000).
	SampleRate int `json:"sample_rate"`

	// Format names the container; the server always reports "wav".
	Format string `json:"format"`
}

// BatchAudioResponse is the base64 result of the batch endpoints.
type BatchAudioResponse struct {
	Audios     []string `json:"audios"`
	SampleRate int      `json:"sample_rate"`
	Format     string   `json:"format"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// ModelsHealthResponse is the body of GET /health/models and reports which
// model variants the server has loaded.
type ModelsHealthResponse struct {
	CustomVoiceLoaded bool `json:"custom_voice_loaded"`
	VoiceDesignLoaded bool `json:"voice_design_loaded"`
	BaseLoaded        bool `json:"base_loaded"`
}

// CreatePromptResponse is the body of POST /api/v1/base/create-prompt.
type CreatePromptResponse struct {
	PromptID string `json:"prompt_id"`
	Message  string `json:"message"`
}

// UploadRefAudioResponse is the body of POST /api/v1/base/upload-ref-audio.
// AudioBase64 is ready to be used as CloneRequest.RefAudioBase64.
type UploadRefAudioResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	AudioBase64 string `json:"audio_base64"`
	Message     string `json:"message"`
}

// CacheStats is the body of GET /api/v1/base/cache/stats and mirrors the
// server's voice prompt cache counters.
type CacheStats struct {
	Enabled        bool    `json:"enabled"`
	Size           int     `json:"size"`
	MaxSize        int     `json:"max_size"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	Evictions      int64   `json:"evictions"`
	HitRatePercent float64 `json:"hit_rate_percent"`
	TotalRequests  int64   `json:"total_requests"`
}

// SpeakersResponse is the body of GET /api/v1/custom-voice/speakers.
type SpeakersResponse struct {
	Speakers []SpeakerInfo `json:"speakers"`
}

// LanguagesResponse is the body of GET /api/v1/custom-voice/languages.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// errorBody is the normalized error shape returned by the server on non-2xx
// responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Result bundles a generation payload with the performance metrics derived
// from the response.
type Result struct {
	Audio   AudioResponse
	Metrics Metrics
}
