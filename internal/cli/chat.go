package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/astra/internal/terminal"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively in the terminal",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("chat needs an interactive terminal; use `astra send` for scripted input")
	}

	cfg := loadConfig()
	logFile, err := openLogFile(cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := setupLogging(cfg.LogLevel, logFile, false)

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}

	events := terminal.NewEvents()
	mgr := a.session(ctx, uuid.Nil, events)
	defer a.close(mgr)

	p := tea.NewProgram(terminal.NewModel(ctx, mgr, events, cfg.GeminiModel), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
