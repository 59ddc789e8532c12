package qwentts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// audioChanBuf is the buffer depth of the channel returned by
// CloneVoiceStream.
const audioChanBuf = 64

// AudioChunk is one streamed slice of generated audio. Data holds WAV bytes
// decoded from the server's base64 chunk; SampleRate is taken from the
// stream's metadata event and repeated on every chunk for convenience.
type AudioChunk struct {
	Data       []byte
	SampleRate int
}

// streamMetadata is the payload of the SSE "metadata" event that opens a
// clone stream.
type streamMetadata struct {
	SampleRate int `json:"sample_rate"`
}

// CloneVoiceStream starts a streamed voice clone via
// POST /api/v1/base/clone-stream. The server answers with Server-Sent
// Events: one "metadata" event carrying the sample rate, then "audio" events
// with base64 WAV chunks, then "done".
//
// The returned channel is closed when the stream ends, the server misbehaves
// mid-stream, or ctx is cancelled; callers should check ctx.Err() to
// distinguish cancellation. Errors before the stream opens (validation,
// rejection, unreachable server) are returned synchronously.
func (c *Client) CloneVoiceStream(ctx context.Context, req CloneRequest) (<-chan AudioChunk, error) {
	if err := validateText(req.Text); err != nil {
		return nil, err
	}
	if err := validateCloneSource(req.RefAudioBase64, req.RefText, req.XVectorOnlyMode); err != nil {
		return nil, err
	}
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	if req.ResponseFormat == "" {
		req.ResponseFormat = FormatBase64
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("qwentts: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cloneStreamEndpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("qwentts: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("qwentts: POST %s: %w", cloneStreamEndpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp, fallbackGenerate)
	}

	out := make(chan AudioChunk, audioChanBuf)

	go func() {
		defer close(out)
		defer resp.Body.Close()

		var sampleRate int
		event := ""
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				switch event {
				case "metadata":
					var md streamMetadata
					if json.Unmarshal([]byte(payload), &md) == nil {
						sampleRate = md.SampleRate
					}
				case "audio":
					chunk, err := base64.StdEncoding.DecodeString(payload)
					if err != nil {
						// Malformed chunk ends the stream.
						return
					}
					select {
					case out <- AudioChunk{Data: chunk, SampleRate: sampleRate}:
					case <-ctx.Done():
						return
					}
				case "done":
					return
				}
			}
		}
	}()

	return out, nil
}
