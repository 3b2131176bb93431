package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
)

var ErrSongNotFound = errors.New("song not found")

const schema = `
CREATE TABLE IF NOT EXISTS songbook (
    id         TEXT PRIMARY KEY,
    artist     TEXT NOT NULL DEFAULT '',
    title      TEXT NOT NULL,
    lyrics     TEXT NOT NULL DEFAULT '',
    song_file  TEXT,
    counter    INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT ''
);
`

type Song struct {
	ID        string
	Artist    string
	Title     string
	Lyrics    string
	SongFile  sql.NullString
	Counter   int
	UpdatedAt time.Time
}

// Songbook keeps the library in memory and writes every change through to
// the database. Parsed lyrics are cached per song until its text changes.
type Songbook struct {
	database *sql.DB
	songs    []Song
	parsed   map[string]parsedEntry
	mu       sync.RWMutex
}

type parsedEntry struct {
	source string
	lyrics *lyrics.ParsedLyrics
}

// NewSongbook creates the schema if needed and loads every song.
func NewSongbook(ctx context.Context, database *sql.DB) (*Songbook, error) {
	if _, err := database.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &Songbook{database: database, parsed: make(map[string]parsedEntry)}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init reloads the in-memory library from the database.
func (s *Songbook) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.database.QueryContext(ctx,
		"SELECT id, artist, title, lyrics, song_file, counter, updated_at FROM songbook ORDER BY artist, title")
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		var updatedAt string
		if err := rows.Scan(&song.ID, &song.Artist, &song.Title, &song.Lyrics, &song.SongFile, &song.Counter, &updatedAt); err != nil {
			logger.Error(fmt.Sprintf("error scanning songbook row: %v", err))
			continue
		}
		song.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error during rows iteration: %w", err)
	}

	s.songs = songs
	s.parsed = make(map[string]parsedEntry)
	return nil
}

func (s *Songbook) FindSongByID(id string) (Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, song := range s.songs {
		if song.ID == id {
			return song, true
		}
	}
	return Song{}, false
}

// All returns a copy of the library ordered by artist and title.
func (s *Songbook) All() []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Song(nil), s.songs...)
}

// SearchSongs matches query against artist and title, ignoring case.
func (s *Songbook) SearchSongs(query string) []Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	var results []Song
	for _, song := range s.songs {
		if strings.Contains(strings.ToLower(song.Artist), query) || strings.Contains(strings.ToLower(song.Title), query) {
			results = append(results, song)
		}
	}
	return results
}

// Save inserts or replaces a song. A song without an ID gets a new one,
// which is returned.
func (s *Songbook) Save(ctx context.Context, song Song) (string, error) {
	if strings.TrimSpace(song.Title) == "" {
		return "", fmt.Errorf("song title is required")
	}
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	song.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO songbook (id, artist, title, lyrics, song_file, counter, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			artist = excluded.artist,
			title = excluded.title,
			lyrics = excluded.lyrics,
			song_file = excluded.song_file,
			updated_at = excluded.updated_at
	`
	_, err := s.database.ExecContext(ctx, query,
		song.ID, song.Artist, song.Title, song.Lyrics, song.SongFile, song.Counter, song.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to save song %s: %w", song.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := false
	for i := range s.songs {
		if s.songs[i].ID == song.ID {
			song.Counter = s.songs[i].Counter
			s.songs[i] = song
			replaced = true
			break
		}
	}
	if !replaced {
		s.songs = append(s.songs, song)
	}
	sort.SliceStable(s.songs, func(i, j int) bool {
		if s.songs[i].Artist != s.songs[j].Artist {
			return s.songs[i].Artist < s.songs[j].Artist
		}
		return s.songs[i].Title < s.songs[j].Title
	})
	delete(s.parsed, song.ID)

	return song.ID, nil
}

func (s *Songbook) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.database.ExecContext(ctx, "DELETE FROM songbook WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == id {
			s.songs = append(s.songs[:i], s.songs[i+1:]...)
			break
		}
	}
	delete(s.parsed, id)
	return nil
}

// IncrementSongCounter counts one more performance of the song.
func (s *Songbook) IncrementSongCounter(ctx context.Context, songID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `UPDATE songbook SET counter = counter + 1 WHERE id = ?`
	result, err := s.database.ExecContext(ctx, query, songID)
	if err != nil {
		return fmt.Errorf("failed to increment song counter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrSongNotFound, songID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.songs {
		if s.songs[i].ID == songID {
			s.songs[i].Counter++
			break
		}
	}
	return nil
}

// Parsed returns the song's parsed lyrics. The result is cached until the
// song's text changes.
func (s *Songbook) Parsed(id string) (*lyrics.ParsedLyrics, error) {
	song, found := s.FindSongByID(id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}

	s.mu.RLock()
	entry, ok := s.parsed[id]
	s.mu.RUnlock()
	if ok && entry.source == song.Lyrics {
		return entry.lyrics, nil
	}

	parsed, err := lyrics.Parse(song.Lyrics)
	if err != nil {
		return nil, fmt.Errorf("parse lyrics of %s: %w", id, err)
	}

	s.mu.Lock()
	s.parsed[id] = parsedEntry{source: song.Lyrics, lyrics: parsed}
	s.mu.Unlock()
	return parsed, nil
}

func FormatSongName(song Song) string {
	if song.Artist == "" {
		return song.Title
	}
	return fmt.Sprintf("%s - %s", song.Artist, song.Title)
}
