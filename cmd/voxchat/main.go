package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"voxchat/internal/app"
	"voxchat/internal/chat"
	"voxchat/internal/config"
	"voxchat/internal/speech"
	"voxchat/internal/transcript"
	"voxchat/internal/web"
)

func main() {
	cfg := config.Load()
	logger := openLogger(cfg.LogFile)

	store, err := transcript.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voxchat: open transcript store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	deps := app.Deps{
		Sender:   chat.NewClient(cfg.ChatURL),
		Store:    store,
		Endpoint: cfg.ChatURL,
		Logger:   logger,
	}

	// Capability checks happen once here; absent services leave their
	// controls inert rather than failing at use time.
	if rec, err := speech.Dial(cfg.RecognizerSocket, cfg.Language); err != nil {
		logger.Warn("speech recognition unavailable", "socket", cfg.RecognizerSocket, "err", err)
	} else {
		defer rec.Close()
		deps.Listener = rec
	}

	engine := cfg.SpeechEngine
	if engine == "" {
		engine, _ = speech.LookupEngine()
	}
	syn := speech.NewSynthesizer(engine)
	if !syn.Available() {
		logger.Warn("speech synthesis unavailable, replies will not be spoken")
	}
	defer syn.Stop()
	deps.Speaker = syn

	if cfg.MirrorAddress != "" {
		mirror := web.New(store, logger)
		deps.Publisher = mirror
		go func() {
			if err := mirror.Start(cfg.MirrorAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("mirror server stopped", "err", err)
			}
		}()
		defer mirror.Shutdown(context.Background())
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "voxchat: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes JSON logs to the configured file; the TUI owns the
// terminal, so logs cannot go to stderr once the program starts.
func openLogger(path string) *slog.Logger {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(f, nil))
}
