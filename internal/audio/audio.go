// Package audio reads song lengths from WAV files.
package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

var ErrInvalidWav = errors.New("not a valid WAV file")

// Duration returns the play length of the WAV file at path.
func Duration(path string) (time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("%s: %w", path, ErrInvalidWav)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("error getting duration from %s: %w", path, err)
	}
	return duration, nil
}
