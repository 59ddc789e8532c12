// Package session ties the TTS client, the local settings store, and the
// metric instruments together into the operations the CLI exposes. It owns
// the in-memory prompt selection and enforces that a clone request draws its
// voice from exactly one source.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrWong99/ttsdeck/internal/observe"
	"github.com/MrWong99/ttsdeck/internal/store"
	"github.com/MrWong99/ttsdeck/pkg/audio"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// Session orchestrates generation requests against a single server using the
// persisted settings. It is not safe for concurrent use; the CLI drives it
// from one goroutine.
type Session struct {
	store   *store.Store
	client  *qwentts.Client
	metrics *observe.Metrics

	// selectedPrompt is the ID of the saved voice prompt that clone
	// operations should use. Empty means "use inline reference audio".
	selectedPrompt string
}

// New creates a Session. All three collaborators are required.
func New(st *store.Store, client *qwentts.Client, metrics *observe.Metrics) (*Session, error) {
	if st == nil {
		return nil, errors.New("session: store must not be nil")
	}
	if client == nil {
		return nil, errors.New("session: client must not be nil")
	}
	if metrics == nil {
		return nil, errors.New("session: metrics must not be nil")
	}
	return &Session{
		store:          st,
		client:         client,
		metrics:        metrics,
		selectedPrompt: st.SelectedPrompt(),
	}, nil
}

// Output is the decoded result of a generation operation.
type Output struct {
	// WAV is the decoded audio container, ready to write to disk.
	WAV []byte

	// SampleRate is the waveform sample rate reported by the server.
	SampleRate int

	// Metrics carries the performance data extracted from the response.
	Metrics qwentts.Metrics
}

// Status is the result of a health check round.
type Status struct {
	// Online is false when the server could not be reached at all.
	Online bool

	Health *qwentts.HealthResponse
	Models *qwentts.ModelsHealthResponse
}

// ---- generation ----

// Generate synthesizes text with one of the built-in speakers. An empty
// request language falls back to the persisted language preference.
func (s *Session) Generate(ctx context.Context, req qwentts.CustomVoiceRequest) (*Output, error) {
	ctx, span := observe.StartSpan(ctx, "generate.custom_voice")
	defer span.End()
	req.Language = s.language(req.Language)
	res, err := s.client.GenerateCustomVoice(ctx, req)
	return s.finish(ctx, "custom_voice", res, err)
}

// Design synthesizes text with a voice described in natural language.
func (s *Session) Design(ctx context.Context, req qwentts.VoiceDesignRequest) (*Output, error) {
	ctx, span := observe.StartSpan(ctx, "generate.voice_design")
	defer span.End()
	req.Language = s.language(req.Language)
	res, err := s.client.GenerateVoiceDesign(ctx, req)
	return s.finish(ctx, "voice_design", res, err)
}

// Clone synthesizes text in a cloned voice. The voice comes from exactly one
// source: the selected saved prompt, or the inline reference audio in req.
// Supplying both, or neither, is an error.
func (s *Session) Clone(ctx context.Context, req qwentts.CloneRequest) (*Output, error) {
	ctx, span := observe.StartSpan(ctx, "generate.clone")
	defer span.End()
	req.Language = s.language(req.Language)
	switch {
	case s.selectedPrompt != "" && req.RefAudioBase64 != "":
		return nil, fmt.Errorf("session: prompt %q is selected and inline reference audio was given; clear one", s.selectedPrompt)
	case s.selectedPrompt != "":
		res, err := s.client.GenerateWithPrompt(ctx, qwentts.GenerateWithPromptRequest{
			Text:           req.Text,
			Language:       req.Language,
			PromptID:       s.selectedPrompt,
			Speed:          req.Speed,
			ResponseFormat: req.ResponseFormat,
		})
		return s.finish(ctx, "clone_prompt", res, err)
	case req.RefAudioBase64 != "":
		res, err := s.client.CloneVoice(ctx, req)
		return s.finish(ctx, "clone", res, err)
	default:
		return nil, errors.New("session: no voice source: select a saved prompt or provide reference audio")
	}
}

// finish turns a client result into an Output and records the metrics for the
// operation.
func (s *Session) finish(ctx context.Context, operation string, res *qwentts.Result, err error) (*Output, error) {
	if err != nil {
		s.metrics.RecordRequest(ctx, operation, "error")
		s.metrics.RecordError(ctx, operation, errorKind(err))
		return nil, err
	}
	s.metrics.RecordRequest(ctx, operation, "ok")
	s.record(ctx, operation, res.Metrics)

	wav, err := audio.DecodeBase64(res.Audio.Audio)
	if err != nil {
		return nil, fmt.Errorf("session: decode audio: %w", err)
	}
	observe.Logger(ctx).Debug("generation complete",
		"operation", operation,
		"sample_rate", res.Audio.SampleRate,
		"bytes", len(wav),
		"client_seconds", res.Metrics.GenerationTime,
	)
	return &Output{WAV: wav, SampleRate: res.Audio.SampleRate, Metrics: res.Metrics}, nil
}

func (s *Session) record(ctx context.Context, operation string, m qwentts.Metrics) {
	op := metric.WithAttributes(observe.Attr("operation", operation))
	s.metrics.GenerationDuration.Record(ctx, m.GenerationTime, op)
	if m.ServerGenerationTime != nil {
		s.metrics.ServerGenerationDuration.Record(ctx, *m.ServerGenerationTime, op)
	}
	if m.AudioDuration != nil {
		s.metrics.AudioDuration.Record(ctx, *m.AudioDuration, op)
	}
	if m.CacheStatus != "" {
		s.metrics.RecordCacheLookup(ctx, strings.ToLower(string(m.CacheStatus)))
	}
}

// ---- voice prompts ----

// CreatePrompt registers reference audio with the server and persists the
// returned prompt ID together with a creation timestamp.
func (s *Session) CreatePrompt(ctx context.Context, req qwentts.CreatePromptRequest) (store.VoicePrompt, error) {
	ctx, span := observe.StartSpan(ctx, "prompt.create")
	defer span.End()
	res, err := s.client.CreatePrompt(ctx, req)
	if err != nil {
		s.metrics.RecordRequest(ctx, "create_prompt", "error")
		s.metrics.RecordError(ctx, "create_prompt", errorKind(err))
		return store.VoicePrompt{}, err
	}
	s.metrics.RecordRequest(ctx, "create_prompt", "ok")

	p := store.VoicePrompt{
		ID:        res.PromptID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.AppendPrompt(p); err != nil {
		return store.VoicePrompt{}, err
	}
	return p, nil
}

// SelectPrompt marks a saved prompt as the voice source for Clone and
// persists the choice. The prompt must exist in the store.
func (s *Session) SelectPrompt(id string) error {
	if _, ok := s.store.FindPrompt(id); !ok {
		return fmt.Errorf("session: unknown prompt %q", id)
	}
	if err := s.store.SetSelectedPrompt(id); err != nil {
		return err
	}
	s.selectedPrompt = id
	return nil
}

// ClearPromptSelection reverts Clone to inline reference audio.
func (s *Session) ClearPromptSelection() error {
	if err := s.store.SetSelectedPrompt(""); err != nil {
		return err
	}
	s.selectedPrompt = ""
	return nil
}

// SelectedPrompt returns the currently selected prompt ID, or "".
func (s *Session) SelectedPrompt() string {
	return s.selectedPrompt
}

// DeletePrompt removes a saved prompt. If it was selected, the selection is
// cleared so later clones do not reference a dangling ID.
func (s *Session) DeletePrompt(id string) (bool, error) {
	removed, err := s.store.RemovePrompt(id)
	if err != nil {
		return false, err
	}
	if removed && s.selectedPrompt == id {
		s.selectedPrompt = ""
	}
	return removed, nil
}

// ---- health ----

// Check probes the server and model health concurrently. An unreachable
// server is not an error: it yields Status{Online: false}, and a later Check
// against a recovered server succeeds with fresh data.
func (s *Session) Check(ctx context.Context) (*Status, error) {
	st := &Status{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.client.Health(ctx)
		st.Health = h
		return err
	})
	g.Go(func() error {
		m, err := s.client.ModelsHealth(ctx)
		st.Models = m
		return err
	})
	if err := g.Wait(); err != nil {
		if qwentts.IsUnreachable(err) {
			return &Status{}, nil
		}
		return nil, err
	}
	st.Online = true
	return st, nil
}

// ---- helpers ----

func (s *Session) language(requested string) string {
	if requested != "" {
		return requested
	}
	if lang := s.store.Language(); lang != "" {
		return lang
	}
	return qwentts.LanguageAuto
}

func errorKind(err error) string {
	switch {
	case qwentts.IsUnreachable(err):
		return "unreachable"
	case qwentts.IsRejected(err):
		return "rejected"
	default:
		return "invalid"
	}
}
