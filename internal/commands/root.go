// Package commands wires the CLI around the parsing engine.
package commands

import (
	"fmt"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/dmitriimasiakin/pd-bot/internal/buildinfo"
	"github.com/dmitriimasiakin/pd-bot/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pdbot",
		Short:   "Heuristic ledger normalization and analysis",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newStatementCommand())
	rootCmd.AddCommand(newLedgerCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}

// loadConfig reads the config file when given, else uses defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger creates the CLI logger.
func newLogger() *log.Logger {
	l := log.New("pdbot")
	l.SetHeader("${level} | ${prefix}")
	return l
}
