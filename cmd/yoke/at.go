package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/config"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/utils"
)

func atCmd() *cobra.Command {
	var lead string

	cmd := &cobra.Command{
		Use:   "at <file> <time>",
		Short: "Show what is on stage at a time",
		Long:  `Prints the block shown at the given time with the sung part in brackets. Times are mm:ss.fff or Go durations like 1m30s.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}
			t, err := lyrics.ParseTimecode(args[1])
			if err != nil {
				return err
			}
			leadTime := cfg.LeadTime.Duration
			if lead != "" {
				if leadTime, err = lyrics.ParseTimecode(lead); err != nil {
					return fmt.Errorf("--lead: %w", err)
				}
			}

			h := parsed.HighlightAt(t, leadTime)
			if h.Anomaly != nil {
				logger.Warn(fmt.Sprintf("block %d: %v", h.BlockIndex+1, h.Anomaly))
			}
			if !h.Visible {
				fmt.Printf("%s  (nothing on stage)\n", utils.FormatPosition(t))
				return nil
			}
			fmt.Printf("%s  block %d, %d/%d chars sung\n", utils.FormatPosition(t), h.BlockIndex+1, h.CharsSung, h.Block.Len())
			fmt.Printf("[%s]%s", h.Sung, h.Unsung)
			return nil
		},
	}

	cmd.Flags().StringVar(&lead, "lead", "", "Lead time before a block starts (default from config)")

	return cmd
}
