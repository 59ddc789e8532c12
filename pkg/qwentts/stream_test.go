package qwentts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// sseHandler writes a scripted event stream for the clone-stream endpoint.
func sseHandler(events []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/base/clone-stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, ev := range events {
			io.WriteString(w, ev)
		}
	})
	return mux
}

func sse(event, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
}

// TestCloneVoiceStream delivers chunks in order with the sample rate from the
// metadata event and closes the channel on done.
func TestCloneVoiceStream(t *testing.T) {
	events := []string{
		sse("metadata", `{"sample_rate": 24000}`),
		sse("audio", base64.StdEncoding.EncodeToString([]byte("chunk-one"))),
		sse("audio", base64.StdEncoding.EncodeToString([]byte("chunk-two"))),
		sse("done", "{}"),
	}
	c := newTestClient(t, sseHandler(events))

	chunks, err := c.CloneVoiceStream(context.Background(), CloneRequest{
		Text: "hi", RefAudioBase64: "Zm9v", RefText: "foo",
	})
	if err != nil {
		t.Fatalf("CloneVoiceStream: %v", err)
	}

	var got []AudioChunk
	for chunk := range chunks {
		got = append(got, chunk)
	}
	if len(got) != 2 {
		t.Fatalf("received %d chunks, want 2", len(got))
	}
	if string(got[0].Data) != "chunk-one" || string(got[1].Data) != "chunk-two" {
		t.Errorf("chunk data = %q, %q", got[0].Data, got[1].Data)
	}
	for i, chunk := range got {
		if chunk.SampleRate != 24000 {
			t.Errorf("chunk %d sample rate = %d, want 24000", i, chunk.SampleRate)
		}
	}
}

// TestCloneVoiceStream_RejectedSynchronously returns server rejections from
// the call itself, before any channel exists.
func TestCloneVoiceStream_RejectedSynchronously(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/base/clone-stream", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		io.WriteString(w, `{"detail": "Reference audio too short"}`)
	})
	c := newTestClient(t, mux)

	_, err := c.CloneVoiceStream(context.Background(), CloneRequest{
		Text: "hi", RefAudioBase64: "Zm9v", RefText: "foo",
	})
	var ae *APIError
	if !errors.As(err, &ae) || ae.Detail != "Reference audio too short" {
		t.Fatalf("err = %v, want verbatim APIError", err)
	}
}

// TestCloneVoiceStream_MalformedChunkEndsStream closes the channel when a
// chunk fails to decode instead of delivering garbage.
func TestCloneVoiceStream_MalformedChunkEndsStream(t *testing.T) {
	events := []string{
		sse("metadata", `{"sample_rate": 24000}`),
		sse("audio", base64.StdEncoding.EncodeToString([]byte("good"))),
		sse("audio", "!!! not base64 !!!"),
		sse("audio", base64.StdEncoding.EncodeToString([]byte("never delivered"))),
	}
	c := newTestClient(t, sseHandler(events))

	chunks, err := c.CloneVoiceStream(context.Background(), CloneRequest{
		Text: "hi", RefAudioBase64: "Zm9v", RefText: "foo",
	})
	if err != nil {
		t.Fatalf("CloneVoiceStream: %v", err)
	}

	var got []AudioChunk
	for chunk := range chunks {
		got = append(got, chunk)
	}
	if len(got) != 1 || string(got[0].Data) != "good" {
		t.Errorf("chunks = %d, want stream to end after the malformed chunk", len(got))
	}
}

// TestCloneVoiceStream_ValidatesBeforeConnecting applies the usual clone
// validation rules.
func TestCloneVoiceStream_ValidatesBeforeConnecting(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithAPIKey("k"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.CloneVoiceStream(context.Background(), CloneRequest{Text: "hi"}); err == nil {
		t.Error("stream without reference audio should fail")
	}
	if _, err := c.CloneVoiceStream(context.Background(), CloneRequest{RefAudioBase64: "Zm9v", RefText: "foo"}); err == nil {
		t.Error("stream without text should fail")
	}
}
