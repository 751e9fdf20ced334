package main

import (
	"context"
	"fmt"
	"os"

	"mdnotes/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfg       config.Config
	logLevel  string
	logPretty bool
)

var rootCmd = &cobra.Command{
	Use:           "mdnotes",
	Short:         "Markdown notes and PDF documents server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("pretty") {
			loaded.LogPretty = logPretty
		}
		cfg = loaded
		setupLogging(os.Stdout, cfg.LogLevel, cfg.LogPretty)
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides NOTES_LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "human readable logs; overrides NOTES_LOG_PRETTY")
}
