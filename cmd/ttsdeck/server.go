package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

// cmdSpeakers lists the built-in speakers. By default the bundled catalog is
// printed; -remote fetches the live list from the server instead.
func (a *cli) cmdSpeakers(ctx context.Context, args []string) error {
	fs := newFlagSet("speakers")
	remote := fs.Bool("remote", false, "query the server instead of the bundled catalog")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	speakers := qwentts.Speakers
	if *remote {
		var err error
		speakers, err = a.client.ListSpeakers(ctx)
		if err != nil {
			return err
		}
	}
	for _, s := range speakers {
		fmt.Printf("%-10s %-22s %s\n", s.Name, "("+s.NativeLanguage+")", s.Description)
	}
	return nil
}

// cmdLanguages lists the supported languages, bundled or live.
func (a *cli) cmdLanguages(ctx context.Context, args []string) error {
	fs := newFlagSet("languages")
	remote := fs.Bool("remote", false, "query the server instead of the bundled catalog")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	languages := qwentts.SupportedLanguages
	if *remote {
		var err error
		languages, err = a.client.ListLanguages(ctx)
		if err != nil {
			return err
		}
	}
	for _, l := range languages {
		fmt.Println(l)
	}
	return nil
}

// cmdStatus probes server and model health.
func (a *cli) cmdStatus(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	st, err := a.session.Check(ctx)
	if err != nil {
		return err
	}
	if !st.Online {
		fmt.Printf("server %s: offline\n", a.client.BaseURL())
		return nil
	}
	fmt.Printf("server %s: %s (version %s)\n", a.client.BaseURL(), st.Health.Status, st.Health.Version)
	fmt.Printf("  custom voice model: %s\n", loadedString(st.Models.CustomVoiceLoaded))
	fmt.Printf("  voice design model: %s\n", loadedString(st.Models.VoiceDesignLoaded))
	fmt.Printf("  base (clone) model: %s\n", loadedString(st.Models.BaseLoaded))
	return nil
}

func loadedString(loaded bool) string {
	if loaded {
		return "loaded"
	}
	return "not loaded"
}

// cmdCache shows or clears the server's voice prompt cache.
func (a *cli) cmdCache(ctx context.Context, args []string) error {
	sub := "stats"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "stats":
		stats, err := a.client.FetchCacheStats(ctx)
		if err != nil {
			return err
		}
		if !stats.Enabled {
			fmt.Println("server cache: disabled")
			return nil
		}
		fmt.Printf("server cache: %d/%d entries\n", stats.Size, stats.MaxSize)
		fmt.Printf("  hits      : %d\n", stats.Hits)
		fmt.Printf("  misses    : %d\n", stats.Misses)
		fmt.Printf("  evictions : %d\n", stats.Evictions)
		fmt.Printf("  hit rate  : %.1f%% of %d requests\n", stats.HitRatePercent, stats.TotalRequests)
		return nil
	case "clear":
		if err := a.client.ClearCache(ctx); err != nil {
			return err
		}
		fmt.Println("server cache cleared")
		return nil
	default:
		fmt.Fprintln(os.Stderr, "Usage: ttsdeck cache [stats|clear]")
		return fmt.Errorf("cache: unknown subcommand %q", sub)
	}
}
