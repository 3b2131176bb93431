package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sukalov/yoke/internal/lyrics"
)

// Editor holds an open project. Every change marks it dirty until saved, and
// the parsed lyrics are rebuilt from the text on the next Lyrics call.
type Editor struct {
	mu     sync.Mutex
	path   string
	data   ProjectData
	dirty  bool
	parsed *lyrics.ParsedLyrics
	stale  bool
}

func NewEditor(path string, data ProjectData) *Editor {
	return &Editor{path: path, data: data, stale: true}
}

// Open loads the project at path; see LoadAny.
func Open(path string) (*Editor, error) {
	data, err := LoadAny(path)
	if err != nil {
		return nil, err
	}
	return NewEditor(path, data), nil
}

func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

func (e *Editor) Data() ProjectData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

func (e *Editor) SetLyrics(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if text == e.data.Lyrics {
		return
	}
	e.data.Lyrics = text
	e.dirty = true
	e.stale = true
}

// InsertTag puts a tag for d at the rune index cursor and returns the cursor
// moved past the new tag.
func (e *Editor) InsertTag(cursor int, d time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	text := lyrics.InsertTag(e.data.Lyrics, cursor, d)
	e.data.Lyrics = text
	e.dirty = true
	e.stale = true

	n := len([]rune(text))
	if cursor < 0 {
		cursor = 0
	}
	cursor += len([]rune(lyrics.FormatTag(d)))
	if cursor > n {
		cursor = n
	}
	return cursor
}

// Lyrics returns the parsed lyrics, parsing again if the text changed since
// the last call. A failed parse keeps nothing from the previous result.
func (e *Editor) Lyrics() (*lyrics.ParsedLyrics, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.stale {
		return e.parsed, nil
	}
	parsed, err := lyrics.Parse(e.data.Lyrics)
	if err != nil {
		e.parsed = nil
		return nil, err
	}
	e.parsed = parsed
	e.stale = false
	return parsed, nil
}

// Save writes the project to its path and clears the dirty flag.
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(e.path)
}

// SaveAs writes the project to path, which becomes the editor's path.
func (e *Editor) SaveAs(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.saveLocked(path); err != nil {
		return err
	}
	e.path = path
	return nil
}

func (e *Editor) saveLocked(path string) error {
	if !strings.EqualFold(filepath.Ext(path), Ext) {
		return fmt.Errorf("%s: project files must end in %s", path, Ext)
	}
	if err := Save(path, e.data); err != nil {
		return err
	}
	e.dirty = false
	return nil
}
