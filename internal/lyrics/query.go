package lyrics

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// TimeRange returns the block's active window, bounded by its first and last
// timestamps in document order. Timestamps in between do not move the
// window. A block with fewer than two timestamps has no window.
func (b *Block) TimeRange() (TimeRange, bool) {
	if len(b.Timestamps) < 2 {
		return TimeRange{}, false
	}
	return TimeRange{
		Start: b.Timestamps[0].Time,
		End:   b.Timestamps[len(b.Timestamps)-1].Time,
	}, true
}

// BlockAt returns the first block whose window overlaps [t, t+lead].
func (p *ParsedLyrics) BlockAt(t, lead time.Duration) (*Block, bool) {
	i, ok := p.blockIndexAt(t, lead)
	if !ok {
		return nil, false
	}
	return &p.Blocks[i], true
}

func (p *ParsedLyrics) blockIndexAt(t, lead time.Duration) (int, bool) {
	if p == nil {
		return 0, false
	}
	for i := range p.Blocks {
		r, ok := p.Blocks[i].TimeRange()
		if ok && r.Overlaps(t, lead) {
			return i, true
		}
	}
	return 0, false
}

// TimestampsSurrounding returns the first consecutive pair with
// ts1.Time <= t < ts2.Time. There is no pair when t falls outside the block's
// window or before the first interpolation interval.
func (b *Block) TimestampsSurrounding(t time.Duration) (Timestamp, Timestamp, bool) {
	n := len(b.Timestamps)
	if n == 0 {
		return Timestamp{}, Timestamp{}, false
	}
	if t < b.Timestamps[0].Time || t > b.Timestamps[n-1].Time {
		return Timestamp{}, Timestamp{}, false
	}

	for i, ts := range b.Timestamps {
		if ts.Time > t {
			if i == 0 {
				return Timestamp{}, Timestamp{}, false
			}
			return b.Timestamps[i-1], ts, true
		}
	}
	return Timestamp{}, Timestamp{}, false
}

// CharsSung interpolates how far into the text the singer is at t. A pair
// whose position decreases or whose time does not increase yields zero and an
// error wrapping ErrNonSequential.
func CharsSung(ts1, ts2 Timestamp, t time.Duration) (int, error) {
	if ts1.Position > ts2.Position || ts1.Time >= ts2.Time {
		return 0, fmt.Errorf("%w: %+v, %+v", ErrNonSequential, ts1, ts2)
	}

	elapsed := (t - ts1.Time).Seconds()
	total := (ts2.Time - ts1.Time).Seconds()
	chars := float64(ts2.Position - ts1.Position)

	return int(math.Floor(elapsed/total*chars)) + ts1.Position, nil
}

// CharsSungAt is the sung offset into b.Text at t, zero outside any
// interpolation interval.
func (b *Block) CharsSungAt(t time.Duration) (int, error) {
	ts1, ts2, ok := b.TimestampsSurrounding(t)
	if !ok {
		return 0, nil
	}
	return CharsSung(ts1, ts2, t)
}

// Highlight is what a stage shows at one instant.
type Highlight struct {
	Block      *Block
	BlockIndex int
	CharsSung  int
	Sung       string
	Unsung     string
	// Visible is false when there is nothing worth drawing: no block, a text
	// of two characters or less, or a sung offset past the end of the text.
	Visible bool
	Anomaly error
}

// HighlightAt selects the block on screen at t with the given lead and splits
// its text into the sung and unsung parts.
func (p *ParsedLyrics) HighlightAt(t, lead time.Duration) Highlight {
	i, ok := p.blockIndexAt(t, lead)
	if !ok {
		return Highlight{}
	}

	block := &p.Blocks[i]
	h := Highlight{Block: block, BlockIndex: i}
	h.CharsSung, h.Anomaly = block.CharsSungAt(t)

	runes := []rune(block.Text)
	if len(runes) > 2 && len(runes) > h.CharsSung {
		h.Visible = true
		h.Sung = string(runes[:h.CharsSung])
		h.Unsung = string(runes[h.CharsSung:])
	}
	return h
}

// TimelineEntry describes one timed block for a timeline view.
type TimelineEntry struct {
	Index   int
	Range   TimeRange
	Preview string
}

// Timeline lists every block that has a window, with its text folded onto a
// single line.
func (p *ParsedLyrics) Timeline() []TimelineEntry {
	if p == nil {
		return nil
	}
	var entries []TimelineEntry
	for i := range p.Blocks {
		r, ok := p.Blocks[i].TimeRange()
		if !ok {
			continue
		}
		entries = append(entries, TimelineEntry{
			Index:   i,
			Range:   r,
			Preview: strings.TrimSpace(strings.ReplaceAll(p.Blocks[i].Text, "\n", " ")),
		})
	}
	return entries
}

// Len is the length of the block text in characters.
func (b *Block) Len() int {
	return utf8.RuneCountInString(b.Text)
}
