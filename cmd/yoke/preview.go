package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/config"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/project"
	"github.com/sukalov/yoke/internal/tui"
)

func previewCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Play the lyrics against a clock in the terminal",
		Long:  `Opens a stage preview. space pauses, left/right seek 5s, home/end jump, i prints a tag for the current time, q quits. Tags are printed when the preview closes. Projects start with their title card and song delay.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}

			timing := frameOptions(args[0], data, cfg.FrameRate, songLength(args[0], data, parsed), cfg.LeadTime.Duration)
			opts := tui.Options{
				Title:           db.FormatSongName(db.Song{Artist: data.Artist, Title: data.Title}),
				Lead:            timing.Lead,
				Length:          timing.Length,
				Delay:           timing.Delay,
				Titlecard:       timing.Titlecard,
				Tick:            cfg.Tick.Duration,
				SungColor:       data.SungColor,
				UnsungColor:     data.UnsungColor,
				BackgroundColor: data.BackgroundColor,
				LogFile:         logFile,
			}
			if !isProject(args[0]) {
				opts.SungColor = cfg.SungColor
				opts.UnsungColor = cfg.UnsungColor
			}

			tags, err := tui.Run(parsed, opts)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				fmt.Println(tag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log", "", "Write warnings to this file while the preview runs (default: discard)")

	return cmd
}

func isProject(path string) bool {
	return strings.EqualFold(filepath.Ext(path), project.Ext)
}
