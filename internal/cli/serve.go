package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/astra/internal/api"
	"github.com/MikeSquared-Agency/astra/internal/chat"
	"github.com/MikeSquared-Agency/astra/internal/hermes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat session over HTTP (and NATS when NATS_URL is set)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg.LogLevel, os.Stdout, true)

	logger.Info("astra starting", "port", cfg.Port, "model", cfg.GeminiModel)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	sessionID := uuid.New()
	var listeners chat.Listeners

	// NATS is optional; without it the session is only reachable over HTTP.
	var nc *hermes.Client
	if cfg.NatsURL != "" {
		nc, err = hermes.NewClient(cfg.NatsURL, cfg.NatsToken, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			a.close(nil)
			return err
		}
		listeners = append(listeners, hermes.NewNotifier(nc, sessionID, logger))
		logger.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		logger.Warn("NATS not configured, session events will not be published")
	}

	mgr := a.session(ctx, sessionID, listeners)
	// NATS drains first so submits it still delivers are settled and saved
	// before the session closes.
	defer func() {
		if nc != nil {
			nc.Close()
		}
		a.close(mgr)
	}()

	if nc != nil {
		if err := hermes.NewIngress(mgr, logger).Register(nc); err != nil {
			logger.Error("failed to subscribe to chat ingress", "error", err)
			return err
		}
	}

	srv := api.NewServer(cfg.Port, cfg.APIToken, mgr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("astra ready", "port", cfg.Port, "session_id", sessionID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	cancel()
	logger.Info("astra stopped")
	return nil
}
