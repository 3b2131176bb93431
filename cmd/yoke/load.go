package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sukalov/yoke/internal/audio"
	"github.com/sukalov/yoke/internal/logger"
	"github.com/sukalov/yoke/internal/lyrics"
	"github.com/sukalov/yoke/internal/project"
)

// loadLyrics reads a .yoke project or a plain lyrics file and parses it.
func loadLyrics(path string) (project.ProjectData, *lyrics.ParsedLyrics, error) {
	e, err := project.Open(path)
	if err != nil {
		return project.ProjectData{}, nil, err
	}
	parsed, err := e.Lyrics()
	if err != nil {
		return project.ProjectData{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return e.Data(), parsed, nil
}

// frameOptions applies the project's song delay and title card. Plain lyrics
// files have neither.
func frameOptions(path string, data project.ProjectData, fps int, length, lead time.Duration) project.FrameOptions {
	if !isProject(path) {
		return project.FrameOptions{FPS: fps, Length: length, Lead: lead}
	}
	return data.FrameOptions(fps, length, lead)
}

// songLength measures the project's WAV file, falling back to the end of the
// last block. Paths in a project are relative to the project file.
func songLength(projectPath string, data project.ProjectData, parsed *lyrics.ParsedLyrics) time.Duration {
	if data.SongFile != "" && strings.EqualFold(filepath.Ext(data.SongFile), ".wav") {
		songFile := data.SongFile
		if !filepath.IsAbs(songFile) {
			songFile = filepath.Join(filepath.Dir(projectPath), songFile)
		}
		d, err := audio.Duration(songFile)
		if err == nil {
			return d
		}
		logger.Warn(fmt.Sprintf("using lyrics length: %v", err))
	}
	return project.SongLength(parsed)
}
