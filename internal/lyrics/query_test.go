package lyrics

import (
	"errors"
	"testing"
	"time"
)

func mustParse(t *testing.T, raw string) *ParsedLyrics {
	t.Helper()
	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", raw, err)
	}
	return parsed
}

func TestBlockAt(t *testing.T) {
	parsed := mustParse(t, "[00:00.000]Hello [00:02.000]world\n\n[00:05.000]Next [00:07.000]block")

	tests := []struct {
		name  string
		t     time.Duration
		lead  time.Duration
		block int // -1 for none
	}{
		{"start of first block", 0, 0, 0},
		{"inside first block", time.Second, time.Second, 0},
		{"end of first block is inclusive", 2 * time.Second, 0, 0},
		{"lead reaches second block", 4500 * time.Millisecond, time.Second, 1},
		{"lead exactly at second block start", 4 * time.Second, time.Second, 1},
		{"between windows", 3 * time.Second, time.Second, -1},
		{"after last block", 7*time.Second + time.Millisecond, time.Second, -1},
		{"end of last block", 7 * time.Second, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := parsed.BlockAt(tt.t, tt.lead)
			if tt.block < 0 {
				if ok {
					t.Fatalf("BlockAt(%v, %v) = %q, want none", tt.t, tt.lead, block.Text)
				}
				return
			}
			if !ok {
				t.Fatalf("BlockAt(%v, %v) = none, want block %d", tt.t, tt.lead, tt.block)
			}
			if block != &parsed.Blocks[tt.block] {
				t.Errorf("BlockAt(%v, %v) = %q, want block %d", tt.t, tt.lead, block.Text, tt.block)
			}
		})
	}
}

func TestBlockAt_FirstMatchWins(t *testing.T) {
	parsed := mustParse(t, "[0:1.0]a[0:5.0]\n\n[0:2.0]b[0:3.0]")
	block, ok := parsed.BlockAt(2500*time.Millisecond, 0)
	if !ok || block != &parsed.Blocks[0] {
		t.Fatalf("BlockAt() should pick the first overlapping block")
	}
}

func TestBlockAt_NeedsTwoTimestamps(t *testing.T) {
	parsed := mustParse(t, "untimed\n\n[0:1.0]one tag\n\n[0:3.0]x[0:4.0]")
	if _, ok := parsed.BlockAt(time.Second, 0); ok {
		t.Errorf("a block with one timestamp must never be selected")
	}
	block, ok := parsed.BlockAt(3*time.Second, 0)
	if !ok || block != &parsed.Blocks[2] {
		t.Errorf("BlockAt(3s) should return the timed block")
	}

	var none *ParsedLyrics
	if _, ok := none.BlockAt(0, time.Hour); ok {
		t.Errorf("nil lyrics must not return a block")
	}
}

func TestTimeRange_IgnoresMiddleTimestamps(t *testing.T) {
	block := Block{Text: "abc\n", Timestamps: []Timestamp{
		{Position: 0, Time: 2 * time.Second},
		{Position: 1, Time: 9 * time.Second},
		{Position: 2, Time: 4 * time.Second},
	}}
	r, ok := block.TimeRange()
	if !ok {
		t.Fatal("TimeRange() = none")
	}
	if r.Start != 2*time.Second || r.End != 4*time.Second {
		t.Errorf("TimeRange() = %+v, want 2s..4s", r)
	}
}

func TestTimestampsSurrounding(t *testing.T) {
	block := Block{Text: "one two three\n", Timestamps: []Timestamp{
		{Position: 0, Time: 1 * time.Second},
		{Position: 4, Time: 2 * time.Second},
		{Position: 8, Time: 3 * time.Second},
		{Position: 13, Time: 4 * time.Second},
	}}

	tests := []struct {
		t     time.Duration
		first int // index of ts1, -1 for none
	}{
		{500 * time.Millisecond, -1},
		{1 * time.Second, 0},
		{1500 * time.Millisecond, 0},
		{2 * time.Second, 1},
		{3 * time.Second, 2},
		{3999 * time.Millisecond, 2},
		{4 * time.Second, -1},
		{5 * time.Second, -1},
	}
	for _, tt := range tests {
		ts1, ts2, ok := block.TimestampsSurrounding(tt.t)
		if tt.first < 0 {
			if ok {
				t.Errorf("TimestampsSurrounding(%v) = %+v, %+v; want none", tt.t, ts1, ts2)
			}
			continue
		}
		if !ok {
			t.Errorf("TimestampsSurrounding(%v) = none; want pair starting at %d", tt.t, tt.first)
			continue
		}
		if ts1 != block.Timestamps[tt.first] || ts2 != block.Timestamps[tt.first+1] {
			t.Errorf("TimestampsSurrounding(%v) = %+v, %+v; want pair starting at %d", tt.t, ts1, ts2, tt.first)
		}
	}

	empty := Block{Text: "x\n"}
	if _, _, ok := empty.TimestampsSurrounding(0); ok {
		t.Errorf("a block without timestamps has no pair")
	}
}

func TestTimestampsSurrounding_EachAnchorStartsItsPair(t *testing.T) {
	parsed := mustParse(t, "[0:1.0]a [0:2.0]b [0:3.0]c\n[0:4.0]d [0:5.0]e[0:6.0]")
	block := &parsed.Blocks[0]
	for i, ts := range block.Timestamps[:len(block.Timestamps)-1] {
		ts1, _, ok := block.TimestampsSurrounding(ts.Time)
		if !ok || ts1 != ts {
			t.Errorf("anchor %d at %v: got %+v, %v", i, ts.Time, ts1, ok)
		}
	}
}

func TestCharsSung(t *testing.T) {
	ts1 := Timestamp{Position: 0, Time: 0}
	ts2 := Timestamp{Position: 10, Time: 2 * time.Second}

	got, err := CharsSung(ts1, ts2, time.Second)
	if err != nil || got != 5 {
		t.Fatalf("CharsSung() = %d, %v; want 5, nil", got, err)
	}

	got, err = CharsSung(Timestamp{Position: 4, Time: time.Second}, Timestamp{Position: 7, Time: 4 * time.Second}, 2500*time.Millisecond)
	if err != nil || got != 5 {
		t.Fatalf("CharsSung() offset pair = %d, %v; want 5, nil", got, err)
	}
}

func TestCharsSung_Degenerate(t *testing.T) {
	tests := []struct {
		name     string
		ts1, ts2 Timestamp
	}{
		{"same time", Timestamp{Position: 0, Time: time.Second}, Timestamp{Position: 5, Time: time.Second}},
		{"time goes back", Timestamp{Position: 0, Time: 2 * time.Second}, Timestamp{Position: 5, Time: time.Second}},
		{"position goes back", Timestamp{Position: 5, Time: time.Second}, Timestamp{Position: 2, Time: 2 * time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, at := range []time.Duration{0, time.Second, 1500 * time.Millisecond, time.Hour} {
				got, err := CharsSung(tt.ts1, tt.ts2, at)
				if got != 0 {
					t.Errorf("CharsSung(%v) = %d, want 0", at, got)
				}
				if !errors.Is(err, ErrNonSequential) {
					t.Errorf("CharsSung(%v) error = %v, want ErrNonSequential", at, err)
				}
			}
		})
	}
}

func TestHighlightAt(t *testing.T) {
	parsed := mustParse(t, "[00:00.000]Hello [00:02.000]world\n\n[00:05.000]Next [00:07.000]block")

	h := parsed.HighlightAt(time.Second, time.Second)
	if !h.Visible || h.BlockIndex != 0 {
		t.Fatalf("HighlightAt(1s) = %+v, want visible block 0", h)
	}
	if h.CharsSung != 3 || h.Sung != "Hel" || h.Unsung != "lo world\n" {
		t.Errorf("HighlightAt(1s) = %d %q %q, want 3 %q %q", h.CharsSung, h.Sung, h.Unsung, "Hel", "lo world\n")
	}

	// Pre-staged by the lead: shown but nothing sung yet.
	h = parsed.HighlightAt(4500*time.Millisecond, time.Second)
	if !h.Visible || h.BlockIndex != 1 || h.CharsSung != 0 || h.Unsung != "Next block\n" {
		t.Errorf("HighlightAt(4.5s) = %+v, want block 1 unsung", h)
	}

	if h := parsed.HighlightAt(3*time.Second, time.Second); h.Visible || h.Block != nil {
		t.Errorf("HighlightAt(3s) = %+v, want nothing", h)
	}

	var none *ParsedLyrics
	if h := none.HighlightAt(0, 0); h.Visible {
		t.Errorf("nil lyrics must not be visible")
	}
}

func TestHighlightAt_TrivialAndAnomalies(t *testing.T) {
	short := mustParse(t, "[0:1.0]a[0:2.0]")
	if h := short.HighlightAt(1500*time.Millisecond, 0); h.Visible {
		t.Errorf("two character block must not be visible: %+v", h)
	}

	backwards := &ParsedLyrics{Blocks: []Block{{
		Text:       "backwards\n",
		Timestamps: []Timestamp{{Position: 0, Time: time.Second}, {Position: 6, Time: 3 * time.Second}, {Position: 2, Time: 4 * time.Second}},
	}}}
	h := backwards.HighlightAt(3500*time.Millisecond, 0)
	if !errors.Is(h.Anomaly, ErrNonSequential) {
		t.Errorf("Anomaly = %v, want ErrNonSequential", h.Anomaly)
	}
	if h.CharsSung != 0 || !h.Visible || h.Unsung != "backwards\n" {
		t.Errorf("anomalous pair should render the whole block unsung, got %+v", h)
	}
}

func TestTimeline(t *testing.T) {
	parsed := mustParse(t, "[0:1.0]one\ntwo[0:2.0]\n\nuntimed\n\n[0:5.0]back[0:4.0]")
	entries := parsed.Timeline()
	if len(entries) != 2 {
		t.Fatalf("Timeline() = %d entries, want 2", len(entries))
	}
	if entries[0].Preview != "one two" || entries[0].Index != 0 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Index != 2 || entries[1].Range.Duration() != 0 {
		t.Errorf("entries[1] = %+v, want index 2 with zero duration", entries[1])
	}
}
