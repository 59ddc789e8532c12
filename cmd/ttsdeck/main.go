// Command ttsdeck is a command-line front end for a Qwen3-TTS server. It
// covers all four generation modes (built-in speakers, voice design, voice
// cloning, and saved voice prompts) plus the server's prompt, cache, and
// health endpoints, and persists settings between runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/ttsdeck/internal/config"
	"github.com/MrWong99/ttsdeck/internal/logging"
	"github.com/MrWong99/ttsdeck/internal/observe"
	"github.com/MrWong99/ttsdeck/internal/session"
	"github.com/MrWong99/ttsdeck/internal/store"
	"github.com/MrWong99/ttsdeck/pkg/qwentts"
)

func main() {
	os.Exit(run())
}

const usage = `ttsdeck — talk to a Qwen3-TTS server

Usage: ttsdeck [-config FILE] COMMAND [ARGS]

Generation:
  say        synthesize text with a built-in speaker
  design     synthesize text with a voice described in words
  clone      synthesize text in a cloned voice (inline audio or saved prompt)
  batch      synthesize several texts in one request

Voice prompts:
  prompt     create, list, select, or remove saved voice prompts
  upload     upload a reference audio file and print its base64 payload

Server:
  speakers   list the built-in speakers
  languages  list the supported languages
  status     check server and model health
  cache      show or clear the server's prompt cache

Settings:
  config     show or change the saved API key and language

Run "ttsdeck COMMAND -h" for command flags.
`

func run() int {
	// ── CLI args ───────────────────────────────────────────────────────────────
	args := os.Args[1:]
	configPath := "ttsdeck.yml"
	if len(args) >= 2 && args[0] == "-config" {
		configPath = args[1]
		args = args[2:]
	}
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ttsdeck: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	if cfg.Metrics.ListenAddr != "" {
		go serveMetrics(cfg.Metrics.ListenAddr)
	}

	// ── Session wiring ────────────────────────────────────────────────────────
	st, err := store.Open(storePath(cfg))
	if err != nil {
		slog.Error("failed to open settings store", "err", err)
		return 1
	}

	client, err := newClient(cfg, st)
	if err != nil {
		slog.Error("failed to create client", "err", err)
		return 1
	}

	sess, err := session.New(st, client, observe.DefaultMetrics())
	if err != nil {
		slog.Error("failed to create session", "err", err)
		return 1
	}

	app := &cli{cfg: cfg, store: st, client: client, session: sess}

	// ── Dispatch ──────────────────────────────────────────────────────────────
	cmd, rest := args[0], args[1:]
	var cmdErr error
	switch cmd {
	case "say":
		cmdErr = app.cmdSay(ctx, rest)
	case "design":
		cmdErr = app.cmdDesign(ctx, rest)
	case "clone":
		cmdErr = app.cmdClone(ctx, rest)
	case "batch":
		cmdErr = app.cmdBatch(ctx, rest)
	case "prompt":
		cmdErr = app.cmdPrompt(ctx, rest)
	case "upload":
		cmdErr = app.cmdUpload(ctx, rest)
	case "speakers":
		cmdErr = app.cmdSpeakers(ctx, rest)
	case "languages":
		cmdErr = app.cmdLanguages(ctx, rest)
	case "status":
		cmdErr = app.cmdStatus(ctx, rest)
	case "cache":
		cmdErr = app.cmdCache(ctx, rest)
	case "config":
		cmdErr = app.cmdConfig(rest)
	default:
		fmt.Fprintf(os.Stderr, "ttsdeck: unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if cmdErr != nil {
		if errors.Is(cmdErr, flagParseError) {
			return 2
		}
		if qwentts.IsUnreachable(cmdErr) {
			fmt.Fprintf(os.Stderr, "ttsdeck: server %s is unreachable\n", client.BaseURL())
			return 1
		}
		fmt.Fprintf(os.Stderr, "ttsdeck: %v\n", cmdErr)
		return 1
	}
	return 0
}

// version is stamped via -ldflags at release time.
var version = "dev"

// flagParseError marks flag.Parse failures so run() can exit with the usage
// status instead of treating them as runtime errors.
var flagParseError = errors.New("flag parse error")

// cli bundles the wired collaborators for the command handlers.
type cli struct {
	cfg     *config.Config
	store   *store.Store
	client  *qwentts.Client
	session *session.Session
}

// newClient builds the API client. The key is resolved in precedence order:
// TTSDECK_API_KEY environment variable, then the saved settings, then the
// config file.
func newClient(cfg *config.Config, st *store.Store) (*qwentts.Client, error) {
	key := os.Getenv("TTSDECK_API_KEY")
	if key == "" {
		key = st.APIKey()
	}
	if key == store.DefaultAPIKey && cfg.Server.APIKey != "" {
		key = cfg.Server.APIKey
	}

	opts := []qwentts.Option{qwentts.WithAPIKey(key)}
	if cfg.Server.TimeoutSeconds > 0 {
		opts = append(opts, qwentts.WithTimeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second))
	}
	return qwentts.New(cfg.Server.BaseURL, opts...)
}

// storePath resolves the settings file location, defaulting to
// ttsdeck/settings.json under the user config directory.
func storePath(cfg *config.Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ttsdeck-settings.json"
	}
	return filepath.Join(dir, "ttsdeck", "settings.json")
}

// serveMetrics exposes the Prometheus bridge on addr. Failures are logged,
// not fatal: a CLI run without scraping is still useful.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("metrics listener started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Warn("metrics listener stopped", "err", err)
	}
}
