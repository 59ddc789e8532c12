package qwentts

import (
	"encoding/json"
	"testing"
)

// marshalToMap round-trips v through JSON into a generic map so tests can
// distinguish "absent", "null" and "empty string".
func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return m
}

// TestCloneRequestMarshal_XVectorNullsTranscript: with x-vector-only mode on,
// ref_text serializes as an explicit JSON null even when a transcript was
// set. The mode flag wins.
func TestCloneRequestMarshal_XVectorNullsTranscript(t *testing.T) {
	m := marshalToMap(t, CloneRequest{
		Text:            "hi",
		RefAudioBase64:  "Zm9v",
		RefText:         "this transcript must not leak",
		XVectorOnlyMode: true,
	})

	v, present := m["ref_text"]
	if !present {
		t.Fatal("ref_text must be present as an explicit null, not omitted")
	}
	if v != nil {
		t.Errorf("ref_text = %v, want null", v)
	}
	if m["x_vector_only_mode"] != true {
		t.Errorf("x_vector_only_mode = %v, want true", m["x_vector_only_mode"])
	}
}

// TestCloneRequestMarshal_TranscriptKept: outside x-vector mode the
// transcript goes out as given.
func TestCloneRequestMarshal_TranscriptKept(t *testing.T) {
	m := marshalToMap(t, CloneRequest{
		Text:           "hi",
		RefAudioBase64: "Zm9v",
		RefText:        "reference words",
	})
	if m["ref_text"] != "reference words" {
		t.Errorf("ref_text = %v, want the transcript", m["ref_text"])
	}
	if m["x_vector_only_mode"] != false {
		t.Errorf("x_vector_only_mode = %v, want false", m["x_vector_only_mode"])
	}
}

// TestCloneRequestMarshal_OmitsZeroOptionals: speed 0 and empty
// response_format stay off the wire.
func TestCloneRequestMarshal_OmitsZeroOptionals(t *testing.T) {
	m := marshalToMap(t, CloneRequest{Text: "hi", RefAudioBase64: "Zm9v", RefText: "foo"})
	for _, field := range []string{"speed", "response_format"} {
		if _, present := m[field]; present {
			t.Errorf("field %q should be omitted at its zero value", field)
		}
	}
}

// TestCreatePromptMarshal mirrors the clone transcript rules for prompt
// creation.
func TestCreatePromptMarshal(t *testing.T) {
	m := marshalToMap(t, CreatePromptRequest{RefAudioBase64: "Zm9v", RefText: "words", XVectorOnlyMode: true})
	if v, present := m["ref_text"]; !present || v != nil {
		t.Errorf("ref_text = %v (present=%v), want explicit null", v, present)
	}

	m = marshalToMap(t, CreatePromptRequest{RefAudioBase64: "Zm9v", RefText: "words"})
	if m["ref_text"] != "words" {
		t.Errorf("ref_text = %v, want transcript", m["ref_text"])
	}
}
