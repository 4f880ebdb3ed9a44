package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Dosada05/tournament-brackets/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bracketctl",
		Short: "Run a tournament from snapshot files",
		Long: `bracketctl drives the bracket engine offline. Every command reads a
tournament snapshot file, applies one operation and writes the new snapshot
back, so a whole event can be scripted without the server.

Files ending in .msgpack are read and written as msgpack, anything else as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json, logfmt)")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newScheduleCmd(opts),
		newRecordCmd(opts),
		newStandingsCmd(opts),
		newBracketCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bracketctl: %s\n", err)
		os.Exit(1)
	}
}
