package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrWong99/ttsdeck/pkg/audio"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

const promptUsage = `Usage: ttsdeck prompt SUBCOMMAND

  create  -ref FILE [-ref-text TEXT | -x-vector]   register reference audio as a reusable prompt
  list                                             show saved prompts
  use     ID                                       select a prompt for clone operations
  clear                                            deselect the current prompt
  rm      ID                                       delete a saved prompt
`

func (a *cli) cmdPrompt(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, promptUsage)
		return flagParseError
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "create":
		return a.promptCreate(ctx, rest)
	case "list":
		return a.promptList()
	case "use":
		if len(rest) != 1 {
			return fmt.Errorf("prompt use: exactly one prompt ID expected")
		}
		if err := a.session.SelectPrompt(rest[0]); err != nil {
			return err
		}
		fmt.Printf("selected prompt %s\n", rest[0])
		return nil
	case "clear":
		if err := a.session.ClearPromptSelection(); err != nil {
			return err
		}
		fmt.Println("prompt selection cleared")
		return nil
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("prompt rm: exactly one prompt ID expected")
		}
		removed, err := a.session.DeletePrompt(rest[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("prompt rm: no prompt %q", rest[0])
		}
		fmt.Printf("removed prompt %s\n", rest[0])
		return nil
	default:
		fmt.Fprint(os.Stderr, promptUsage)
		return fmt.Errorf("prompt: unknown subcommand %q", sub)
	}
}

func (a *cli) promptCreate(ctx context.Context, args []string) error {
	fs := newFlagSet("prompt create")
	ref := fs.String("ref", "", "reference WAV file (required)")
	refText := fs.String("ref-text", "", "transcript of the reference audio")
	xVector := fs.Bool("x-vector", false, "timbre-only prompt, no transcript needed")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *ref == "" {
		return fmt.Errorf("prompt create: -ref is required")
	}

	raw, err := os.ReadFile(*ref)
	if err != nil {
		return fmt.Errorf("prompt create: read reference audio: %w", err)
	}

	p, err := a.session.CreatePrompt(ctx, qwentts.CreatePromptRequest{
		RefAudioBase64:  audio.EncodeBase64(raw),
		RefText:         *refText,
		XVectorOnlyMode: *xVector,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created prompt %s (%s)\n", p.ID, p.CreatedAt)
	return nil
}

func (a *cli) promptList() error {
	prompts := a.store.Prompts()
	if len(prompts) == 0 {
		fmt.Println("no saved prompts")
		return nil
	}
	selected := a.session.SelectedPrompt()
	for _, p := range prompts {
		marker := " "
		if p.ID == selected {
			marker = "*"
		}
		fmt.Printf("%s %s  created %s\n", marker, p.ID, p.CreatedAt)
	}
	return nil
}

// cmdUpload sends an audio file to the server's conversion endpoint and
// stores the returned base64 payload, ready for use with clone -ref-b64.
func (a *cli) cmdUpload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload")
	out := fs.String("o", "", "write the base64 payload to this file instead of stdout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("upload: exactly one audio file expected")
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload: open %s: %w", path, err)
	}
	defer f.Close()

	res, err := a.client.UploadRefAudio(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := os.WriteFile(*out, []byte(res.AudioBase64), 0o644); err != nil {
			return fmt.Errorf("upload: write %s: %w", *out, err)
		}
		fmt.Printf("uploaded %s, payload saved to %s\n", res.Filename, *out)
		return nil
	}
	fmt.Println(res.AudioBase64)
	return nil
}
