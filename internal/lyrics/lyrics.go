// Package lyrics holds the lyric timing model: a parser that turns lyric text
// annotated with [mm:ss.fff] tags into timed blocks, and the queries that
// decide which block is on screen at a playback time and how much of it has
// been sung.
//
// Everything here is a pure function of the parsed value and the query time.
// A ParsedLyrics is never mutated after Parse returns it, so it may be shared
// between readers freely.
package lyrics

import (
	"errors"
	"time"
)

// ErrNonSequential marks a pair of timestamps whose position or time goes
// backwards. Interpolating over such a pair yields zero characters sung.
var ErrNonSequential = errors.New("non-sequential timestamps")

// Timestamp anchors a character offset of a block's text to a moment in the song.
type Timestamp struct {
	Position int           `json:"position"`
	Time     time.Duration `json:"time"`
}

// Block is one paragraph of lyrics. Text holds every line of the paragraph
// with tags stripped, each line terminated by '\n'. Timestamp positions are
// rune offsets into Text and may equal its length.
type Block struct {
	Text       string      `json:"text"`
	Timestamps []Timestamp `json:"timestamps"`
}

// ParsedLyrics is the whole document, blocks in source order.
type ParsedLyrics struct {
	Blocks []Block `json:"blocks"`
}

// TimeRange is the active window of a block.
type TimeRange struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Overlaps reports whether the window intersects [t, t+lead], inclusive at
// both ends.
func (r TimeRange) Overlaps(t, lead time.Duration) bool {
	return r.Start <= t+lead && t <= r.End
}

// Duration is End-Start, or zero when the window runs backwards.
func (r TimeRange) Duration() time.Duration {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}
