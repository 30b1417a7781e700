package subtitle

import (
	"fmt"
	"time"
)

// single caption cue, timestamps kept as HH:MM:SS.mmm
type Entry struct {
	Index int
	Start string
	End   string
	Text  string
}

// ordered caption track
type Subtitle struct {
	Entries  []Entry
	Language string
	Format   string
}

// supported caption file formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// transcribed audio segment, converted to entries by a Generator
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// interface for caption generation
type Generator interface {
	Generate(segments []Segment) (*Subtitle, error)
}

// interface for writing captions to files
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}

// FormatTimestamp renders d as HH:MM:SS.mmm, the form every parser emits.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}
