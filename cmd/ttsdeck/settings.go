package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MrWong99/ttsdeck/internal/store"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

const configUsage = `Usage: ttsdeck config SUBCOMMAND

  show              print the saved settings
  set-key KEY       save the API key
  language LANG     save the preferred generation language
`

// cmdConfig manages the persisted settings.
func (a *cli) cmdConfig(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, configUsage)
		return flagParseError
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "show":
		fmt.Printf("settings file: %s\n", a.store.Path())
		fmt.Printf("  api key : %s\n", maskKey(a.store.APIKey()))
		lang := a.store.Language()
		if lang == "" {
			lang = qwentts.LanguageAuto + " (default)"
		}
		fmt.Printf("  language: %s\n", lang)
		if sel := a.store.SelectedPrompt(); sel != "" {
			fmt.Printf("  prompt  : %s\n", sel)
		}
		return nil
	case "set-key":
		if len(rest) != 1 {
			return fmt.Errorf("config set-key: exactly one key expected")
		}
		if err := a.store.SetAPIKey(rest[0]); err != nil {
			return err
		}
		fmt.Println("api key saved")
		return nil
	case "language":
		if len(rest) != 1 {
			return fmt.Errorf("config language: exactly one language expected")
		}
		if err := a.store.SetLanguage(rest[0]); err != nil {
			return err
		}
		fmt.Printf("language set to %s\n", rest[0])
		return nil
	default:
		fmt.Fprint(os.Stderr, configUsage)
		return fmt.Errorf("config: unknown subcommand %q", sub)
	}
}

// maskKey hides all but the edges of a saved key. The placeholder is shown
// verbatim since it is not a credential.
func maskKey(key string) string {
	if key == store.DefaultAPIKey {
		return key + " (placeholder)"
	}
	if len(key) <= 6 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + strings.Repeat("*", len(key)-6) + key[len(key)-3:]
}
