package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/lyrics"
)

func parseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the blocks and timestamps of timed lyrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(parsed)
			}

			for i, block := range parsed.Blocks {
				fmt.Printf("block %d (%d chars)\n", i+1, block.Len())
				for _, line := range strings.Split(strings.TrimSuffix(block.Text, "\n"), "\n") {
					fmt.Printf("  | %s\n", line)
				}
				for _, ts := range block.Timestamps {
					fmt.Printf("  %s @ %d\n", lyrics.FormatTag(ts.Time), ts.Position)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the parsed lyrics as JSON")

	return cmd
}
