// Package cli implements the balloond command line interface.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "balloond",
	Short: "The eventor.ai balloons credit service",
	Long: `balloond owns the balloons virtual-currency ledger for eventor.ai:
guest and account balances, the spend/earn transaction trail, and the
feature gate that charges balloons before any AI feature runs.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger. Pretty output on a terminal, JSON
// otherwise.
func newLogger() zerolog.Logger {
	if fi, err := os.Stderr.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
