package lyrics

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// tagPattern is the only bracket content that produces a timestamp.
var tagPattern = regexp.MustCompile(`^\[(\d+):(\d+)\.(\d+)\]$`)

// lyricTag is a bracketed span found in a source line. offset counts runes in
// the stripped line, raw includes both brackets.
type lyricTag struct {
	offset int
	raw    string
}

// Parse turns raw lyric text into blocks. Malformed tags and unclosed
// brackets are dropped from the text without producing timestamps; the only
// error is a broken internal invariant.
func Parse(raw string) (*ParsedLyrics, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	parsed := &ParsedLyrics{Blocks: []Block{}}

	var (
		body       strings.Builder
		bodyLen    int
		timestamps []Timestamp
	)
	flush := func() {
		if bodyLen == 0 {
			return
		}
		parsed.Blocks = append(parsed.Blocks, Block{Text: body.String(), Timestamps: timestamps})
		body.Reset()
		bodyLen = 0
		timestamps = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		stripped, tags := scanLine(line)
		for _, tag := range tags {
			d, ok := parseTag(tag.raw)
			if !ok {
				continue
			}
			timestamps = append(timestamps, Timestamp{Position: bodyLen + tag.offset, Time: d})
		}
		body.WriteString(stripped)
		body.WriteByte('\n')
		bodyLen += utf8.RuneCountInString(stripped) + 1
	}
	flush()

	for i, block := range parsed.Blocks {
		n := utf8.RuneCountInString(block.Text)
		for _, ts := range block.Timestamps {
			if ts.Position < 0 || ts.Position > n {
				return nil, fmt.Errorf("block %d: timestamp position %d outside text of %d chars", i, ts.Position, n)
			}
		}
	}

	return parsed, nil
}

// scanLine splits a single line into its visible text and the bracketed spans
// it contains. A '[' opens a span that only a ']' closes; a span still open at
// the end of the line is discarded along with everything after its '['.
func scanLine(line string) (string, []lyricTag) {
	var (
		stripped strings.Builder
		span     strings.Builder
		tags     []lyricTag
		open     bool
		start    int
	)

	pos := 0
	for _, r := range line {
		switch {
		case open:
			span.WriteRune(r)
			if r == ']' {
				tags = append(tags, lyricTag{offset: start, raw: span.String()})
				open = false
			}
		case r == '[':
			open = true
			start = pos
			span.Reset()
			span.WriteRune(r)
		default:
			stripped.WriteRune(r)
		}
		pos++
	}

	return stripped.String(), stripTagOffsets(tags)
}

// stripTagOffsets converts original-line offsets into stripped-line offsets by
// removing the width of every earlier span.
func stripTagOffsets(tags []lyricTag) []lyricTag {
	removed := 0
	for i := range tags {
		tags[i].offset -= removed
		removed += utf8.RuneCountInString(tags[i].raw)
	}
	return tags
}

// parseTag reads "[m:s.ms]". The millisecond field is taken as a count of
// milliseconds whatever its width, so "[0:01.5]" is 1.005s.
func parseTag(raw string) (time.Duration, bool) {
	m := tagPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}

	minutes, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	millis, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return 0, false
	}

	total, ok := tagMillis(minutes, seconds, millis)
	if !ok {
		return 0, false
	}
	return time.Duration(total) * time.Millisecond, true
}

// maxTagMillis is the largest millisecond count a time.Duration can hold.
const maxTagMillis = math.MaxInt64 / int64(time.Millisecond)

// tagMillis sums the tag fields in milliseconds. A sum that would not fit a
// time.Duration reports false.
func tagMillis(minutes, seconds, millis int64) (int64, bool) {
	if minutes > maxTagMillis/60000 {
		return 0, false
	}
	total := minutes * 60000
	if seconds > (maxTagMillis-total)/1000 {
		return 0, false
	}
	total += seconds * 1000
	if millis > maxTagMillis-total {
		return 0, false
	}
	return total + millis, true
}
