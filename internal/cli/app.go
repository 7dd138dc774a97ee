package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/astra/internal/chat"
	"github.com/MikeSquared-Agency/astra/internal/config"
	"github.com/MikeSquared-Agency/astra/internal/gemini"
	"github.com/MikeSquared-Agency/astra/internal/store"
)

// app holds what every command needs: config, the transcript backend and
// the Gemini client.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	kv     store.KV
	llm    *gemini.Client
}

func loadConfig() config.Config {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, needKey bool) (*app, error) {
	if needKey && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	kv, err := store.Open(ctx, store.Options{
		Backend:     cfg.Store,
		Dir:         cfg.StoreDir,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	logger.Info("transcript store ready", "backend", cfg.Store)

	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	llm.SetBaseURL(cfg.GeminiBaseURL)

	return &app{cfg: cfg, logger: logger, kv: kv, llm: llm}, nil
}

func (a *app) session(ctx context.Context, id uuid.UUID, listener chat.Listener) *chat.Manager {
	return chat.New(ctx, a.llm, chat.NewTranscript(a.kv, a.logger), a.logger, chat.Options{
		ID:       id,
		MaxChars: a.cfg.MaxChars,
		Listener: listener,
	})
}

// closeTimeout leaves room for an exchange still waiting on Gemini.
const closeTimeout = gemini.RequestTimeout + 10*time.Second

// close waits for the session, if any, to settle and flush, then releases
// the store.
func (a *app) close(mgr *chat.Manager) {
	if mgr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := mgr.Close(ctx); err != nil {
			a.logger.Warn("transcript flush incomplete", "error", err)
		}
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("store close failed", "error", err)
	}
}

func setupLogging(level string, w io.Writer, json bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// openLogFile is used by the interactive command, where stderr belongs to the UI.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(dir+string(os.PathSeparator)+"astra.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
