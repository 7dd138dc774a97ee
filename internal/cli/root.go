package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "astra",
	Short: "Astra - a small Gemini-backed chat assistant",
	Long: `Astra keeps a single persisted chat transcript and forwards each message,
one at a time and without prior history, to the Gemini generateContent API.
Run it as an HTTP service (serve) or interactively in a terminal (chat).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(serveCmd, chatCmd, sendCmd, clearCmd, historyCmd)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}
