// Package project reads and writes .yoke project files and keeps the lyrics
// being edited in sync with their parsed form.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const Ext = ".yoke"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ProjectData is the on-disk project. Times are in seconds.
type ProjectData struct {
	Lyrics            string  `json:"lyrics"`
	Artist            string  `json:"artist"`
	Title             string  `json:"title"`
	SongFile          string  `json:"song_file,omitempty"`
	BackgroundColor   string  `json:"background_color"`
	UnsungColor       string  `json:"unsung_color"`
	SungColor         string  `json:"sung_color"`
	ThumbnailPath     string  `json:"thumbnail_path,omitempty"`
	TitlecardShowTime float64 `json:"titlecard_show_time"`
	SongDelayTime     float64 `json:"song_delay_time"`
}

func Default() ProjectData {
	return ProjectData{
		BackgroundColor:   "#000000",
		SungColor:         "#FFFFFF",
		UnsungColor:       "#808080",
		TitlecardShowTime: 10,
		SongDelayTime:     0,
	}
}

// TitlecardShow is how long the title card stays up.
func (d ProjectData) TitlecardShow() time.Duration {
	return seconds(d.TitlecardShowTime)
}

// SongDelay is the silence before the song starts.
func (d ProjectData) SongDelay() time.Duration {
	return seconds(d.SongDelayTime)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Validate checks the colors and times. Missing colors are not an error, they
// are filled with defaults on load.
func (d ProjectData) Validate() error {
	for name, c := range map[string]string{
		"background_color": d.BackgroundColor,
		"unsung_color":     d.UnsungColor,
		"sung_color":       d.SungColor,
	} {
		if !colorPattern.MatchString(c) {
			return fmt.Errorf("%s: %q is not a #RRGGBB color", name, c)
		}
	}
	if d.TitlecardShowTime < 0 {
		return errors.New("titlecard_show_time must not be negative")
	}
	if d.SongDelayTime < 0 {
		return errors.New("song_delay_time must not be negative")
	}
	return nil
}

// Decode reads a project, filling fields missing from data with defaults.
func Decode(data []byte) (ProjectData, error) {
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return ProjectData{}, fmt.Errorf("decode project: %w", err)
	}

	d := Default()
	if p.BackgroundColor == "" {
		p.BackgroundColor = d.BackgroundColor
	}
	if p.UnsungColor == "" {
		p.UnsungColor = d.UnsungColor
	}
	if p.SungColor == "" {
		p.SungColor = d.SungColor
	}
	if err := p.Validate(); err != nil {
		return ProjectData{}, err
	}
	return p, nil
}

func Load(path string) (ProjectData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProjectData{}, err
	}
	p, err := Decode(data)
	if err != nil {
		return ProjectData{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes the project as indented JSON.
func Save(path string, p ProjectData) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadAny reads a .yoke project, or wraps any other file as the lyrics of a
// new project titled after the file name.
func LoadAny(path string) (ProjectData, error) {
	if strings.EqualFold(filepath.Ext(path), Ext) {
		return Load(path)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return ProjectData{}, err
	}
	p := Default()
	p.Lyrics = string(text)
	p.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}
