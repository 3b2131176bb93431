package project

import (
	"errors"
	"time"

	"github.com/sukalov/yoke/internal/lyrics"
)

// DefaultFrameRate is the rate used for exported lyric videos.
const DefaultFrameRate = 12

// Frame is the highlight shown on one video frame. Block is -1 when the
// screen is empty or shows the title card.
type Frame struct {
	Index     int           `json:"frame"`
	Time      time.Duration `json:"time_ns"`
	Titlecard bool          `json:"titlecard,omitempty"`
	Block     int           `json:"block"`
	CharsSung int           `json:"chars_sung"`
	Sung      string        `json:"sung"`
	Unsung    string        `json:"unsung"`
	Visible   bool          `json:"visible"`
	Anomaly   string        `json:"anomaly,omitempty"`
}

// FrameOptions describe a lyric video. Length is the song alone; the video
// runs for Delay+Length and lyrics are looked up at video time minus Delay.
// The first Titlecard of the video shows only the title.
type FrameOptions struct {
	FPS       int
	Length    time.Duration
	Lead      time.Duration
	Delay     time.Duration
	Titlecard time.Duration
}

// FrameOptions takes the delay and title card duration from the project.
func (d ProjectData) FrameOptions(fps int, length, lead time.Duration) FrameOptions {
	return FrameOptions{
		FPS:       fps,
		Length:    length,
		Lead:      lead,
		Delay:     d.SongDelay(),
		Titlecard: d.TitlecardShow(),
	}
}

// Frames samples the highlight at every frame of the video. Frame i is at
// i/FPS.
func Frames(parsed *lyrics.ParsedLyrics, opts FrameOptions) ([]Frame, error) {
	if opts.FPS <= 0 {
		return nil, errors.New("frame rate must be positive")
	}
	if opts.Length <= 0 {
		return nil, errors.New("song length must be positive")
	}
	if opts.Delay < 0 || opts.Titlecard < 0 {
		return nil, errors.New("delay and title card time must not be negative")
	}

	total := opts.Delay + opts.Length
	var frames []Frame
	for i := 0; ; i++ {
		t := time.Duration(i) * time.Second / time.Duration(opts.FPS)
		if t >= total {
			break
		}
		f := Frame{Index: i, Time: t, Block: -1}
		if t < opts.Titlecard {
			f.Titlecard = true
			frames = append(frames, f)
			continue
		}

		h := parsed.HighlightAt(t-opts.Delay, opts.Lead)
		f.CharsSung = h.CharsSung
		f.Sung = h.Sung
		f.Unsung = h.Unsung
		f.Visible = h.Visible
		if h.Block != nil {
			f.Block = h.BlockIndex
		}
		if h.Anomaly != nil {
			f.Anomaly = h.Anomaly.Error()
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// SongLength is the end of the last block window, the fallback length when
// there is no audio file to measure.
func SongLength(parsed *lyrics.ParsedLyrics) time.Duration {
	var end time.Duration
	for _, e := range parsed.Timeline() {
		if e.Range.End > end {
			end = e.Range.End
		}
	}
	return end
}
