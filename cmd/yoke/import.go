package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/project"
)

func importCmd() *cobra.Command {
	var output, artist, title string

	cmd := &cobra.Command{
		Use:     "import <url>",
		Short:   "Fetch untimed lyrics from a lyrics site",
		Long:    `Downloads a song page and keeps the sung sections, one block per section, ready for tagging. Writes a .yoke project when -o ends in .yoke, plain text otherwise.`,
		Example: "  yoke import https://amdm.ru/akkordi/kino/99934/gruppa_krovi/ -o gruppa_krovi.yoke",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := lyrics.NewService().ExtractLyrics(context.Background(), args[0])
			if err != nil {
				return err
			}

			switch {
			case output == "":
				fmt.Print(result.Text)
				return nil
			case isProject(output):
				data := project.Default()
				data.Artist = artist
				data.Title = title
				e := project.NewEditor(output, data)
				e.SetLyrics(result.Text)
				if !e.Dirty() {
					return fmt.Errorf("%s: no lyrics to save", args[0])
				}
				err = e.Save()
			default:
				err = os.WriteFile(output, []byte(result.Text), 0o644)
			}

			return logger.LogWithErr(fmt.Sprintf("import %d blocks from %s into %s", result.Blocks, result.Source, output), err)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist for a new project")
	cmd.Flags().StringVar(&title, "title", "", "Title for a new project")

	return cmd
}
