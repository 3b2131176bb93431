package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/utils"
)

func timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline <file>",
		Short: "List block windows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}
			for _, e := range parsed.Timeline() {
				fmt.Printf("%3d  %s - %s  %s\n", e.Index+1,
					utils.FormatPosition(e.Range.Start),
					utils.FormatPosition(e.Range.End),
					e.Preview)
			}
			return nil
		},
	}
}
