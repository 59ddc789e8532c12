package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrWong99/ttsdeck/pkg/audio"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

// cmdBatch synthesizes several texts in one server round trip. Each
// positional argument is one text; speakers and languages are either a single
// value applied to all texts or a comma-separated list matching them.
func (a *cli) cmdBatch(ctx context.Context, args []string) error {
	fs := newFlagSet("batch")
	mode := fs.String("mode", "custom", "generation mode: custom or design")
	speakers := fs.String("speakers", "Vivian", "speaker name, or comma-separated list")
	voice := fs.String("voice", "", "voice description for design mode")
	langs := fs.String("langs", "", "language, or comma-separated list (defaults to the saved preference)")
	outDir := fs.String("o", "", "output directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	texts := fs.Args()
	if len(texts) == 0 {
		return fmt.Errorf("batch: no texts given")
	}

	languages, err := expandList(*langs, len(texts), "langs")
	if err != nil {
		return err
	}
	for i, l := range languages {
		if l == "" {
			if l = a.store.Language(); l == "" {
				l = qwentts.LanguageAuto
			}
			languages[i] = l
		}
	}

	var res *qwentts.BatchAudioResponse
	switch *mode {
	case "custom":
		spk, err := expandList(*speakers, len(texts), "speakers")
		if err != nil {
			return err
		}
		res, err = a.client.GenerateCustomVoiceBatch(ctx, qwentts.CustomVoiceBatchRequest{
			Texts:     texts,
			Languages: languages,
			Speakers:  spk,
		})
		if err != nil {
			return err
		}
	case "design":
		if *voice == "" {
			return fmt.Errorf("batch: -voice is required in design mode")
		}
		instructs := make([]string, len(texts))
		for i := range instructs {
			instructs[i] = *voice
		}
		res, err = a.client.GenerateVoiceDesignBatch(ctx, qwentts.VoiceDesignBatchRequest{
			Texts:     texts,
			Languages: languages,
			Instructs: instructs,
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("batch: unknown mode %q", *mode)
	}

	dir := *outDir
	if dir == "" {
		dir = a.cfg.Output.Dir
	}
	stamp := time.Now().Unix()
	for i, payload := range res.Audios {
		wav, err := audio.DecodeBase64(payload)
		if err != nil {
			return fmt.Errorf("batch: decode item %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("tts-batch-%d-%03d.wav", stamp, i))
		if err := audio.WriteFile(path, wav); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d Hz, %d bytes)\n", path, res.SampleRate, len(wav))
	}
	return nil
}

// expandList turns a single value or comma-separated list into a slice of
// length n.
func expandList(value string, n int, flagName string) ([]string, error) {
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 1 {
		out := make([]string, n)
		for i := range out {
			out[i] = parts[0]
		}
		return out, nil
	}
	if len(parts) != n {
		return nil, fmt.Errorf("batch: -%s has %d entries for %d texts", flagName, len(parts), n)
	}
	return parts, nil
}
