package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/lyrics"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Report untimed blocks, backwards timestamps and overlapping blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}
			issues := lyrics.Check(parsed)
			for _, issue := range issues {
				fmt.Println(issue)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%s: %d issue(s)", args[0], len(issues))
			}
			fmt.Printf("%s: ok, %d blocks\n", args[0], len(parsed.Blocks))
			return nil
		},
	}
}
