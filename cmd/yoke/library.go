package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sukalov/yoke/internal/config"
	"github.com/sukalov/yoke/internal/db"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/utils"
)

// openLibrary opens the configured song library. TURSO_AUTH_TOKEN is used for
// remote libraries.
func openLibrary(ctx context.Context) (*db.Songbook, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(cfg.Library, os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		return nil, nil, err
	}
	songbook, err := db.NewSongbook(ctx, database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return songbook, database, nil
}

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the song library the bot plays from",
	}

	cmd.AddCommand(libraryAddCmd())
	cmd.AddCommand(libraryListCmd())
	cmd.AddCommand(libraryShowCmd())
	cmd.AddCommand(libraryRmCmd())

	return cmd
}

func libraryAddCmd() *cobra.Command {
	var id, artist, title string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add or replace a song from a project or lyrics file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, parsed, err := loadLyrics(args[0])
			if err != nil {
				return err
			}
			for _, issue := range lyrics.Check(parsed) {
				fmt.Fprintln(os.Stderr, "warning:", issue)
			}

			ctx := context.Background()
			songbook, database, err := openLibrary(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			song := db.Song{ID: id, Artist: data.Artist, Title: data.Title, Lyrics: data.Lyrics}
			if artist != "" {
				song.Artist = artist
			}
			if title != "" {
				song.Title = title
			}
			if data.SongFile != "" {
				song.SongFile = sql.NullString{String: data.SongFile, Valid: true}
			}

			savedID, err := songbook.Save(ctx, song)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", savedID, db.FormatSongName(song))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Song ID (default: a new UUID)")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist (default from the project)")
	cmd.Flags().StringVar(&title, "title", "", "Title (default from the project or file name)")

	return cmd
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List songs, optionally matching artist or title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songbook, database, err := openLibrary(context.Background())
			if err != nil {
				return err
			}
			defer database.Close()

			songs := songbook.All()
			if len(args) == 1 {
				songs = songbook.SearchSongs(args[0])
			}
			for _, song := range songs {
				fmt.Printf("%s  %-40s  %4d\n", song.ID, db.FormatSongName(song), song.Counter)
			}
			return nil
		},
	}
}

func libraryShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a song's timing summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songbook, database, err := openLibrary(context.Background())
			if err != nil {
				return err
			}
			defer database.Close()

			song, found := songbook.FindSongByID(args[0])
			if !found {
				return fmt.Errorf("%w: %s", db.ErrSongNotFound, args[0])
			}
			if raw {
				fmt.Print(song.Lyrics)
				return nil
			}

			parsed, err := songbook.Parsed(song.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\nsung %d times, updated %s\n\n", db.FormatSongName(song), song.Counter, song.UpdatedAt.Format("2006-01-02 15:04"))
			for _, e := range parsed.Timeline() {
				fmt.Printf("%3d  %s - %s  %s\n", e.Index+1, utils.FormatPosition(e.Range.Start), utils.FormatPosition(e.Range.End), e.Preview)
			}
			for _, issue := range lyrics.Check(parsed) {
				fmt.Println("issue:", issue)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the tagged lyrics instead")

	return cmd
}

func libraryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a song",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			songbook, database, err := openLibrary(context.Background())
			if err != nil {
				return err
			}
			defer database.Close()

			return songbook.Delete(context.Background(), args[0])
		},
	}
}
