package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/astra/internal/chat"
)

var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send one message and print the reply",
	Long:  "Send one message and print the reply. With no argument the message is read from stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSend,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored transcript",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the stored transcript",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runSend(cmd *cobra.Command, args []string) error {
	text, err := messageText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	logger := setupLogging(cfg.LogLevel, os.Stderr, false)
	a, err := newApp(cmd.Context(), cfg, logger, true)
	if err != nil {
		return err
	}
	mgr := a.session(cmd.Context(), uuid.Nil, nil)
	defer a.close(mgr)

	if err := mgr.Submit(cmd.Context(), text); err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyInput):
			return fmt.Errorf("nothing to send")
		case errors.Is(err, chat.ErrInputTooLong):
			return fmt.Errorf("message is longer than %d characters", mgr.MaxChars())
		}
		return err
	}

	s := mgr.Snapshot()
	reply := s.Messages[len(s.Messages)-1]
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	if s.LastError != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), s.LastError)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg.LogLevel, os.Stderr, false)
	a, err := newApp(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	mgr := a.session(cmd.Context(), uuid.Nil, nil)
	defer a.close(mgr)

	return mgr.Clear()
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := setupLogging(cfg.LogLevel, os.Stderr, false)
	a, err := newApp(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer a.close(nil)

	msgs := chat.NewTranscript(a.kv, logger).Load(cmd.Context())
	printHistory(cmd.OutOrStdout(), msgs)
	return nil
}

func printHistory(w io.Writer, msgs []chat.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages yet.")
		return
	}
	for _, m := range msgs {
		who := "you"
		if m.Sender == chat.SenderAssistant {
			who = "astra"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.Time().Format(time.DateTime), who, m.Text)
	}
}

func messageText(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", fmt.Errorf("pass the message as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(io.LimitReader(in, 64*1024))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
