// Package store persists the demo's user-scoped settings: the API key, the
// preferred UI language and the ordered list of saved voice prompts. The
// backing format is a single JSON document on disk, written synchronously on
// every mutation with last-write-wins semantics — the Go rendition of the
// original browser-local storage, with the same single-owner assumption.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultAPIKey is the placeholder reported when no key has been saved yet.
// It matches the placeholder the server documentation uses and is not a
// working credential.
const DefaultAPIKey = "your-api-key"

// VoicePrompt is one saved server-side voice prompt reference. ID is the
// opaque server-issued identifier; CreatedAt is a client-generated ISO-8601
// timestamp recorded when the prompt was created.
type VoicePrompt struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// document is the on-disk schema.
type document struct {
	APIKey   string        `json:"api_key,omitempty"`
	Language string        `json:"language,omitempty"`
	Selected string        `json:"selectedPrompt,omitempty"`
	Prompts  []VoicePrompt `json:"prompts"`
}

// Store is the settings store. All operations are synchronous; the mutex
// only guards against accidental concurrent use within one process, there is
// no cross-process locking.
type Store struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open loads the settings document at path. A missing file yields an empty
// store; a file that fails to parse is reset to defaults rather than
// propagated as an error, mirroring how the original treated corrupt
// local-storage entries.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path must not be empty")
	}
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	if err := json.Unmarshal(raw, &s.doc); err != nil {
		s.doc = document{}
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// APIKey returns the saved key, or DefaultAPIKey when none has been saved.
func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.APIKey == "" {
		return DefaultAPIKey
	}
	return s.doc.APIKey
}

// SetAPIKey saves the key and persists immediately.
func (s *Store) SetAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.APIKey = key
	return s.save()
}

// Language returns the saved UI language tag, empty when unset.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Language
}

// SetLanguage saves the language tag and persists immediately.
func (s *Store) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Language = lang
	return s.save()
}

// SelectedPrompt returns the id of the prompt marked for clone operations,
// empty when none is selected.
func (s *Store) SelectedPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Selected
}

// SetSelectedPrompt persists the clone prompt selection. An empty id clears
// it. A non-empty id must reference a saved prompt.
func (s *Store) SetSelectedPrompt(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		found := false
		for _, p := range s.doc.Prompts {
			if p.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("store: unknown prompt %q", id)
		}
	}
	s.doc.Selected = id
	return s.save()
}

// Prompts returns a copy of the saved prompt list in insertion order.
func (s *Store) Prompts() []VoicePrompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]VoicePrompt(nil), s.doc.Prompts...)
}

// FindPrompt looks up a saved prompt by server id.
func (s *Store) FindPrompt(id string) (VoicePrompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.doc.Prompts {
		if p.ID == id {
			return p, true
		}
	}
	return VoicePrompt{}, false
}

// AppendPrompt adds a prompt to the end of the list and persists
// immediately.
func (s *Store) AppendPrompt(p VoicePrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Prompts = append(s.doc.Prompts, p)
	return s.save()
}

// RemovePrompt deletes the prompt with the given id, reporting whether it
// was present. The list order of the remaining prompts is preserved. A
// removed prompt that was selected also clears the selection so it never
// dangles.
func (s *Store) RemovePrompt(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.doc.Prompts {
		if p.ID == id {
			s.doc.Prompts = append(s.doc.Prompts[:i], s.doc.Prompts[i+1:]...)
			if s.doc.Selected == id {
				s.doc.Selected = ""
			}
			return true, s.save()
		}
	}
	return false, nil
}

// save writes the document to disk. Callers must hold s.mu.
func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
