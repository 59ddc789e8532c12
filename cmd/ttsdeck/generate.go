package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrWong99/ttsdeck/internal/session"
	"github.com/MrWong99/ttsdeck/pkg/audio"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

// newFlagSet returns a flag set whose Parse failure maps to the usage exit
// status.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return flagParseError
	}
	return nil
}

// textArg joins the remaining positional arguments into the text to speak.
func textArg(fs *flag.FlagSet) (string, error) {
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return "", fmt.Errorf("no text given")
	}
	return text, nil
}

func (a *cli) cmdSay(ctx context.Context, args []string) error {
	fs := newFlagSet("say")
	speaker := fs.String("speaker", "Vivian", "built-in speaker name")
	lang := fs.String("lang", "", "language (defaults to the saved preference, then Auto)")
	instruct := fs.String("instruct", "", "optional delivery instruction, e.g. \"whisper\"")
	speed := fs.Float64("speed", 0, "speech speed multiplier (0 keeps the server default)")
	out := fs.String("o", "", "output WAV path")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	text, err := textArg(fs)
	if err != nil {
		return err
	}

	res, err := a.session.Generate(ctx, qwentts.CustomVoiceRequest{
		Text:     text,
		Language: *lang,
		Speaker:  *speaker,
		Instruct: *instruct,
		Speed:    *speed,
	})
	if err != nil {
		return err
	}
	return a.writeOutput(res, *out)
}

func (a *cli) cmdDesign(ctx context.Context, args []string) error {
	fs := newFlagSet("design")
	voice := fs.String("voice", "", "natural-language description of the voice (required)")
	lang := fs.String("lang", "", "language (defaults to the saved preference, then Auto)")
	speed := fs.Float64("speed", 0, "speech speed multiplier (0 keeps the server default)")
	out := fs.String("o", "", "output WAV path")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *voice == "" {
		return fmt.Errorf("design: -voice is required")
	}
	text, err := textArg(fs)
	if err != nil {
		return err
	}

	res, err := a.session.Design(ctx, qwentts.VoiceDesignRequest{
		Text:     text,
		Language: *lang,
		Instruct: *voice,
		Speed:    *speed,
	})
	if err != nil {
		return err
	}
	return a.writeOutput(res, *out)
}

func (a *cli) cmdClone(ctx context.Context, args []string) error {
	fs := newFlagSet("clone")
	ref := fs.String("ref", "", "reference WAV file to clone from")
	refB64 := fs.String("ref-b64", "", "reference audio as a base64 string")
	refText := fs.String("ref-text", "", "transcript of the reference audio")
	xVector := fs.Bool("x-vector", false, "timbre-only cloning, no transcript needed")
	promptID := fs.String("prompt", "", "use a saved voice prompt instead of reference audio")
	lang := fs.String("lang", "", "language (defaults to the saved preference, then Auto)")
	speed := fs.Float64("speed", 0, "speech speed multiplier (0 keeps the server default)")
	stream := fs.Bool("stream", false, "receive audio chunks as they are synthesized")
	out := fs.String("o", "", "output WAV path")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	text, err := textArg(fs)
	if err != nil {
		return err
	}

	if *promptID != "" {
		if err := a.session.SelectPrompt(*promptID); err != nil {
			return err
		}
	}

	refAudio := *refB64
	if *ref != "" {
		raw, err := os.ReadFile(*ref)
		if err != nil {
			return fmt.Errorf("clone: read reference audio: %w", err)
		}
		refAudio = audio.EncodeBase64(raw)
	}

	req := qwentts.CloneRequest{
		Text:            text,
		Language:        *lang,
		RefAudioBase64:  refAudio,
		RefText:         *refText,
		XVectorOnlyMode: *xVector,
		Speed:           *speed,
	}

	if *stream {
		return a.cloneStream(ctx, req, *out)
	}

	res, err := a.session.Clone(ctx, req)
	if err != nil {
		return err
	}
	return a.writeOutput(res, *out)
}

// cloneStream consumes the server-sent audio chunks and rebuilds a playable
// WAV once the stream ends. Streaming only works with inline reference
// audio; saved prompts go through the regular clone path.
func (a *cli) cloneStream(ctx context.Context, req qwentts.CloneRequest, path string) error {
	chunks, err := a.client.CloneVoiceStream(ctx, req)
	if err != nil {
		return err
	}

	var pcm []byte
	sampleRate := 0
	n := 0
	for chunk := range chunks {
		if chunk.SampleRate > 0 {
			sampleRate = chunk.SampleRate
		}
		pcm = append(pcm, chunk.Data...)
		n++
		fmt.Printf("\rreceiving audio… %d chunks, %d bytes", n, len(pcm))
	}
	fmt.Println()
	if len(pcm) == 0 {
		return fmt.Errorf("clone: stream ended without audio")
	}
	if sampleRate == 0 {
		sampleRate = 24000
	}

	if path == "" {
		path = filepath.Join(a.cfg.Output.Dir, fmt.Sprintf("tts-output-%d.wav", time.Now().Unix()))
	}

	// Chunks that already form a RIFF container are written as-is; bare PCM
	// gets a fresh header.
	wav := pcm
	if len(pcm) < 4 || string(pcm[0:4]) != "RIFF" {
		wav = audio.WAVFromPCM16(pcm, sampleRate, 1)
	}
	if err := audio.WriteFile(path, wav); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d Hz, %d bytes)\n", path, sampleRate, len(wav))
	return nil
}

// writeOutput saves the WAV and prints the result line plus the performance
// metrics from the response.
func (a *cli) writeOutput(res *session.Output, path string) error {
	if path == "" {
		path = filepath.Join(a.cfg.Output.Dir, fmt.Sprintf("tts-output-%d.wav", time.Now().Unix()))
	}
	if err := audio.WriteFile(path, res.WAV); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d Hz, %d bytes)\n", path, res.SampleRate, len(res.WAV))
	printMetrics(res.Metrics)
	return nil
}

// printMetrics renders the response metrics. Values the server did not report
// show as "n/a" rather than a misleading zero.
func printMetrics(m qwentts.Metrics) {
	fmt.Printf("  client time : %.2fs\n", m.GenerationTime)
	fmt.Printf("  server time : %s\n", floatOrNA(m.ServerGenerationTime, "s"))
	fmt.Printf("  audio length: %s\n", floatOrNA(m.AudioDuration, "s"))
	fmt.Printf("  rtf         : %s\n", floatOrNA(m.RTF, ""))
	if m.CacheStatus != "" {
		fmt.Printf("  cache       : %s\n", m.CacheStatus)
	}
}

func floatOrNA(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%s", *v, unit)
}
