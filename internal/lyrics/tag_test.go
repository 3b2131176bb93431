package lyrics

import (
	"testing"
	"time"
)

func TestFormatTag(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "[00:00.000]"},
		{1500 * time.Millisecond, "[00:01.500]"},
		{time.Minute + 2*time.Second + 345*time.Millisecond, "[01:02.345]"},
		{125 * time.Minute, "[125:00.000]"},
		{999 * time.Microsecond, "[00:00.000]"},
		{-time.Second, "[00:00.000]"},
	}
	for _, tt := range tests {
		if got := FormatTag(tt.d); got != tt.want {
			t.Errorf("FormatTag(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatTag_ParsesBack(t *testing.T) {
	for _, d := range []time.Duration{0, 42 * time.Millisecond, 3*time.Minute + 7*time.Second + 9*time.Millisecond} {
		got, ok := parseTag(FormatTag(d))
		if !ok || got != d {
			t.Errorf("parseTag(FormatTag(%v)) = %v, %v", d, got, ok)
		}
	}
}

func TestInsertTag(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		want   string
	}{
		{"middle", "Hello world", 6, "Hello [00:01.250]world"},
		{"start", "Hello", 0, "[00:01.250]Hello"},
		{"past end clamps", "Hi", 10, "Hi[00:01.250]"},
		{"negative clamps", "Hi", -3, "[00:01.250]Hi"},
		{"runes", "мир", 1, "м[00:01.250]ир"},
		{"drops carriage returns", "a\r\nb", 3, "a\n[00:01.250]b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertTag(tt.text, tt.cursor, 1250*time.Millisecond); got != tt.want {
				t.Errorf("InsertTag(%q, %d) = %q, want %q", tt.text, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"01:02.345", time.Minute + 2*time.Second + 345*time.Millisecond, false},
		{"[0:05.0]", 5 * time.Second, false},
		{" 0:00.000 ", 0, false},
		{"1m30s", 90 * time.Second, false},
		{"2.5s", 2500 * time.Millisecond, false},
		{"-1s", 0, true},
		{"soon", 0, true},
		{"1:2", 0, true},
		{"153722868:00.000", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimecode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimecode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimecode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
