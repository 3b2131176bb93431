package lyrics

import (
	"reflect"
	"regexp"
	"testing"
	"time"
)

func TestScanLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		stripped string
		tags     []lyricTag
	}{
		{
			name:     "no tags",
			line:     "Hello world",
			stripped: "Hello world",
		},
		{
			name:     "tag at start and middle",
			line:     "[00:00.000]Hello [00:02.000]world",
			stripped: "Hello world",
			tags:     []lyricTag{{offset: 0, raw: "[00:00.000]"}, {offset: 6, raw: "[00:02.000]"}},
		},
		{
			name:     "adjacent tags",
			line:     "a[0:1.0][0:2.0]b",
			stripped: "ab",
			tags:     []lyricTag{{offset: 1, raw: "[0:1.0]"}, {offset: 1, raw: "[0:2.0]"}},
		},
		{
			name:     "tag at end",
			line:     "word[01:00.5]",
			stripped: "word",
			tags:     []lyricTag{{offset: 4, raw: "[01:00.5]"}},
		},
		{
			name:     "non timing brackets are stripped too",
			line:     "[Chorus] la [x] la",
			stripped: " la  la",
			tags:     []lyricTag{{offset: 0, raw: "[Chorus]"}, {offset: 4, raw: "[x]"}},
		},
		{
			name:     "unclosed bracket drops the rest of the line",
			line:     "keep [00:01.000 lost",
			stripped: "keep ",
		},
		{
			name:     "open bracket inside a span is content",
			line:     "a[[0:1.0]b",
			stripped: "ab",
			tags:     []lyricTag{{offset: 1, raw: "[[0:1.0]"}},
		},
		{
			name:     "stray closing bracket is kept",
			line:     "a]b",
			stripped: "a]b",
		},
		{
			name:     "offsets count characters not bytes",
			line:     "привет [0:1.0]мир",
			stripped: "привет мир",
			tags:     []lyricTag{{offset: 7, raw: "[0:1.0]"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripped, tags := scanLine(tt.line)
			if stripped != tt.stripped {
				t.Errorf("scanLine(%q) stripped = %q, want %q", tt.line, stripped, tt.stripped)
			}
			if !reflect.DeepEqual(tags, tt.tags) {
				t.Errorf("scanLine(%q) tags = %+v, want %+v", tt.line, tags, tt.tags)
			}
		})
	}
}

func TestScanLine_StripsEverySpan(t *testing.T) {
	spans := regexp.MustCompile(`\[[^\]]*\]`)
	lines := []string{
		"[00:01.000]one [bad]two [1:2.3]three",
		"[][][]",
		"x[00:00.000]y[nope]z[99:99.999]",
		"plain",
	}
	for _, line := range lines {
		stripped, _ := scanLine(line)
		if want := spans.ReplaceAllString(line, ""); stripped != want {
			t.Errorf("scanLine(%q) = %q, want %q", line, stripped, want)
		}
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
		ok   bool
	}{
		{"[00:00.000]", 0, true},
		{"[01:02.345]", time.Minute + 2*time.Second + 345*time.Millisecond, true},
		{"[0:01.5]", time.Second + 5*time.Millisecond, true},
		{"[123:00.0]", 123 * time.Minute, true},
		{"[00:75.1000]", 76 * time.Second, true},
		{"[00:01]", 0, false},
		{"[aa:01.000]", 0, false},
		{"[00:01.000", 0, false},
		{"[ 00:01.000]", 0, false},
		{"[Chorus]", 0, false},
		{"[153722867:00.000]", 153722867 * time.Minute, true},
		{"[153722868:00.000]", 0, false},
		{"[99999999999:00.000]", 0, false},
		{"[0:9223372036854.000]", 0, false},
		{"[0:00.9223372036855]", 0, false},
		{"[99999999999999999999:00.000]", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseTag(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseTag(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParse_TwoBlocks(t *testing.T) {
	raw := "[00:00.000]Hello [00:02.000]world\n\n[00:05.000]Next [00:07.000]block"

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := &ParsedLyrics{Blocks: []Block{
		{
			Text: "Hello world\n",
			Timestamps: []Timestamp{
				{Position: 0, Time: 0},
				{Position: 6, Time: 2 * time.Second},
			},
		},
		{
			Text: "Next block\n",
			Timestamps: []Timestamp{
				{Position: 0, Time: 5 * time.Second},
				{Position: 5, Time: 7 * time.Second},
			},
		},
	}}
	if !reflect.DeepEqual(parsed, want) {
		t.Fatalf("Parse() = %+v, want %+v", parsed, want)
	}
}

func TestParse_MultiLineBlockPositions(t *testing.T) {
	raw := "  [00:01.000]ab[00:02.000]  \n[00:03.000]cd[00:04.000]\n"

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	block := parsed.Blocks[0]
	if block.Text != "ab\ncd\n" {
		t.Errorf("text = %q, want %q", block.Text, "ab\ncd\n")
	}
	positions := []int{}
	for _, ts := range block.Timestamps {
		positions = append(positions, ts.Position)
	}
	if want := []int{0, 2, 3, 5}; !reflect.DeepEqual(positions, want) {
		t.Errorf("positions = %v, want %v", positions, want)
	}
}

func TestParse_LineEndings(t *testing.T) {
	unix, err := Parse("[0:1.0]a\n\n[0:2.0]b\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, raw := range []string{"[0:1.0]a\r\n\r\n[0:2.0]b\r\n", "[0:1.0]a\r\r[0:2.0]b\r"} {
		got, err := Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, unix) {
			t.Errorf("Parse(%q) = %+v, want %+v", raw, got, unix)
		}
	}
}

func TestParse_BlankLineIdempotence(t *testing.T) {
	one, err := Parse("[0:1.0]a[0:2.0]\n\n[0:3.0]b[0:4.0]")
	if err != nil {
		t.Fatal(err)
	}
	for _, raw := range []string{
		"[0:1.0]a[0:2.0]\n\n\n[0:3.0]b[0:4.0]",
		"\n\n[0:1.0]a[0:2.0]\n \n\t\n\n[0:3.0]b[0:4.0]\n\n\n",
	} {
		got, err := Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, one) {
			t.Errorf("Parse(%q) = %+v, want %+v", raw, got, one)
		}
	}
}

func TestParse_TagOnlyLine(t *testing.T) {
	parsed, err := Parse("[00:01.000]\nla[00:02.000]")
	if err != nil {
		t.Fatal(err)
	}
	want := Block{
		Text: "\nla\n",
		Timestamps: []Timestamp{
			{Position: 0, Time: time.Second},
			{Position: 3, Time: 2 * time.Second},
		},
	}
	if len(parsed.Blocks) != 1 || !reflect.DeepEqual(parsed.Blocks[0], want) {
		t.Errorf("Parse() = %+v, want one block %+v", parsed.Blocks, want)
	}
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "   \r\n\t"} {
		parsed, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", raw, err)
		}
		if parsed == nil || len(parsed.Blocks) != 0 {
			t.Errorf("Parse(%q) = %+v, want no blocks", raw, parsed)
		}
	}
}

func TestParse_MalformedTagsDropped(t *testing.T) {
	parsed, err := Parse("[Verse][00:01.000]la [0:2]la [00:03.000]")
	if err != nil {
		t.Fatal(err)
	}
	block := parsed.Blocks[0]
	if block.Text != "la la \n" {
		t.Errorf("text = %q", block.Text)
	}
	want := []Timestamp{{Position: 0, Time: time.Second}, {Position: 6, Time: 3 * time.Second}}
	if !reflect.DeepEqual(block.Timestamps, want) {
		t.Errorf("timestamps = %+v, want %+v", block.Timestamps, want)
	}
}

func TestParse_OverflowingTagDropped(t *testing.T) {
	parsed, err := Parse("a[153722868:00.000]b [0:01.000]c")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(parsed.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d, want 1", len(parsed.Blocks))
	}
	b := parsed.Blocks[0]
	if b.Text != "ab c\n" {
		t.Errorf("Text = %q, want %q", b.Text, "ab c\n")
	}
	want := []Timestamp{{Time: time.Second, Position: 3}}
	if !reflect.DeepEqual(b.Timestamps, want) {
		t.Errorf("Timestamps = %+v, want %+v", b.Timestamps, want)
	}
	for _, ts := range b.Timestamps {
		if ts.Time < 0 {
			t.Errorf("negative timestamp %v", ts.Time)
		}
	}
}
