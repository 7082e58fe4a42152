// ABOUTME: Entry point for the emcee bot runtime.
// ABOUTME: Assembles the store, the module registry, and the dispatcher.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fatih/color"

	"github.com/needledrop/emcee/internal/command"
	"github.com/needledrop/emcee/internal/config"
	"github.com/needledrop/emcee/internal/handler"
	"github.com/needledrop/emcee/internal/modules/charts"
	"github.com/needledrop/emcee/internal/modules/linkexpand"
	"github.com/needledrop/emcee/internal/modules/management"
	"github.com/needledrop/emcee/internal/modules/poll"
	"github.com/needledrop/emcee/internal/modules/quotes"
	"github.com/needledrop/emcee/internal/modules/streaming"
	"github.com/needledrop/emcee/internal/platform"
	"github.com/needledrop/emcee/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
  ___ _ __ ___   ___ ___  ___
 / _ \ '_ ' _ \ / __/ _ \/ _ \
|  __/ | | | | | (_|  __/  __/
 \___|_| |_| |_|\___\___|\___|
`

// getConfigPath returns the path to the bot config file.
// Priority: EMCEE_CONFIG env var > XDG_CONFIG_HOME/emcee/emcee.yaml > ~/.config/emcee/emcee.yaml
func getConfigPath() string {
	if envPath := os.Getenv("EMCEE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "emcee.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "emcee", "emcee.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: emcee <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve   Start the bot runtime")
		fmt.Println("  init    Create a default config file")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s\n", cfg.Database.Path)
	fmt.Println()

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	// No chat transport ships with this binary; outbound traffic goes to the
	// logger. A real gateway plugs in here and feeds HandleInteraction and
	// the event bus.
	gw := platform.NewLog("emcee", logger)

	b := handler.NewBuilder(st, gw, logger)
	registrations := []handler.Registration{
		management.Registration(),
		streaming.Registration(),
		charts.Registration(),
		linkexpand.Registration(gw),
		quotes.Registration(),
		poll.Registration(gw, poll.Config{
			YesEmote:    cfg.Poll.YesEmote,
			NoEmote:     cfg.Poll.NoEmote,
			StartEmote:  cfg.Poll.StartEmote,
			CountEmote:  cfg.Poll.CountEmote,
			GoEmote:     cfg.Poll.GoEmote,
			MaxSessions: cfg.Poll.MaxSessions,
			IdleTimeout: cfg.Poll.IdleTimeout,
		}),
	}
	for _, reg := range registrations {
		if err := b.Register(ctx, reg); err != nil {
			return fmt.Errorf("registering modules: %w", err)
		}
	}

	b.Special("help", helpCommand)

	h := b.Build()

	logger.Info("emcee started",
		"config", configPath,
		"modules", len(h.Modules().Order()),
		"commands", h.Commands().Len(),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// helpCommand lists every registered command. Registered as a special so it
// works even when a guild has everything else disabled.
func helpCommand(_ context.Context, cc *handler.Context) (command.Response, error) {
	var sb strings.Builder
	sb.WriteString("Available commands:\n")
	for _, e := range cc.Handler.Commands().Entries() {
		fmt.Fprintf(&sb, "- %s\n", e.Key.String())
	}
	return command.Private(strings.TrimRight(sb.String(), "\n")), nil
}

const defaultConfig = `# emcee configuration
database:
  path: ${HOME}/.local/share/emcee/emcee.db

logging:
  level: info
  format: text

poll:
  max_sessions: 20
  idle_timeout: 15m
`

func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Created %s\n", configPath)
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = &colorHandler{
			level: level,
		}
	}

	return slog.New(h)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu    sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level: h.level,
		attrs: newAttrs,
	}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}
