package qwentts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Fallback messages used when a non-2xx response body does not carry a
// parsable {"detail": ...} object. One per operation family so the surfaced
// message still names what failed.
const (
	fallbackGenerate     = "Generation failed"
	fallbackCreatePrompt = "Failed to create prompt"
	fallbackUpload       = "Failed to upload reference audio"
	fallbackCacheStats   = "Failed to fetch cache stats"
	fallbackCacheClear   = "Failed to clear cache"
	fallbackHealth       = "Health check failed"
	fallbackCatalog      = "Failed to fetch catalogue"
)

// APIError is a rejection from the server: the request was delivered and
// answered with a non-2xx status. Detail is the server's own message when the
// body parsed as {"detail": ...}, or the operation's fallback message
// otherwise.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// ValidationError is a client-local rejection: a required field was missing
// or malformed, and no request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("qwentts: invalid %s: %s", e.Field, e.Reason)
}

// IsUnreachable reports whether err represents a transport-level failure —
// the server never produced a response. Callers use this to distinguish an
// offline server from one that rejected the request.
func IsUnreachable(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	return false
}

// IsRejected reports whether err is a server-side rejection (reachable but
// non-2xx). The complementary case of IsUnreachable.
func IsRejected(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// decodeError turns a non-2xx response into an *APIError. It tries to parse
// the body as {"detail": ...} and falls back to the given message when the
// body is empty or not valid JSON.
func decodeError(resp *http.Response, fallback string) error {
	detail := fallback
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(body) > 0 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
			detail = eb.Detail
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}
