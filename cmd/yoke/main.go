package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/logger"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "yoke",
		Short:         "yoke - time karaoke lyrics and preview them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var logLevel string
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $LOG_LEVEL or info)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("log-level") {
			logger.SetLevel(logger.ParseLevel(logLevel))
		}
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(atCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(framesCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(libraryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
