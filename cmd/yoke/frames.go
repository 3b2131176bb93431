package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/config"
	"github.com/sukalov/yoke/internal/project"
)

func framesCmd() *cobra.Command {
	var fps int
	var length, lead time.Duration

	cmd := &cobra.Command{
		Use:   "frames <file>",
		Short: "Print the per-frame highlight schedule as JSON lines",
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

			if !cmd.Flags().Changed("fps") {
				fps = cfg.FrameRate
			}
			if !cmd.Flags().Changed("lead") {
				lead = cfg.LeadTime.Duration
			}
			if length <= 0 {
				length = songLength(args[0], data, parsed)
			}
			if length <= 0 {
				return fmt.Errorf("%s: no timed blocks and no --length", args[0])
			}

			frames, err := project.Frames(parsed, frameOptions(args[0], data, fps, length, lead))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			for _, f := range frames {
				if err := enc.Encode(f); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&fps, "fps", project.DefaultFrameRate, "Frames per second")
	cmd.Flags().DurationVar(&length, "length", 0, "Song length (default: WAV length or end of the last block)")
	cmd.Flags().DurationVar(&lead, "lead", 0, "Lead time before a block starts (default from config)")

	return cmd
}
