package lyrics

import (
	"fmt"
	"strings"
	"time"
)

// FormatTag renders d as a timing tag, e.g. "[01:02.345]". Negative
// durations are clamped to zero.
func FormatTag(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	millis := int64(d%time.Second) / int64(time.Millisecond)
	return fmt.Sprintf("[%02d:%02d.%03d]", secs/60, secs%60, millis)
}

// InsertTag inserts the tag for d before the character at cursor. The cursor
// counts runes and is clamped to the text. Carriage returns are removed from
// the result.
func InsertTag(text string, cursor int, d time.Duration) string {
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	var b strings.Builder
	b.WriteString(string(runes[:cursor]))
	b.WriteString(FormatTag(d))
	b.WriteString(string(runes[cursor:]))
	return strings.ReplaceAll(b.String(), "\r", "")
}

// ParseTimecode reads a playback position typed by a user. It accepts the tag
// grammar with or without brackets ("01:02.345", "[1:2.345]") and anything
// time.ParseDuration understands ("1m2.5s").
func ParseTimecode(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	raw := s
	if !strings.HasPrefix(raw, "[") {
		raw = "[" + raw + "]"
	}
	if d, ok := parseTag(raw); ok {
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timecode %q: want mm:ss.fff or a duration like 1m30s", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timecode %q: negative", s)
	}
	return d, nil
}
