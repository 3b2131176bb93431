package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/project"
)

func tagCmd() *cobra.Command {
	var cursor int
	var output string

	cmd := &cobra.Command{
		Use:   "tag <time> [file]",
		Short: "Print the timing tag for a time, or insert it into a file",
		Long:  `With only a time, prints its tag. With a file, inserts the tag before the character at --cursor (counted in characters of the raw text) and saves the project, or writes it to -o. The cursor after the new tag is printed so tags can be chained.`,
		Example: `  yoke tag 1:02.5
  yoke tag 0:12.300 song.yoke --cursor 0
  yoke tag 0:12.300 song.txt --cursor 0 -o song.yoke`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := lyrics.ParseTimecode(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), lyrics.FormatTag(t))
				return nil
			}

			e, err := project.Open(args[1])
			if err != nil {
				return err
			}
			next := e.InsertTag(cursor, t)
			if _, err := e.Lyrics(); err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			if output != "" {
				err = e.SaveAs(output)
			} else {
				err = e.Save()
			}
			if err != nil {
				if output == "" && !isProject(args[1]) {
					return fmt.Errorf("%w (write a project with -o)", err)
				}
				return err
			}

			logger.Debug(fmt.Sprintf("tagged %s at %d with %s", e.Path(), cursor, lyrics.FormatTag(t)))
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}

	cmd.Flags().IntVar(&cursor, "cursor", 0, "Character index to insert the tag at")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save to this .yoke file instead")

	return cmd
}
