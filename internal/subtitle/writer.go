package subtitle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the track to an SRT file
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, func(out io.Writer) error {
		return w.Encode(out, sub)
	})
}

// Encode renders the track in SubRip form.
func (w *SRTWriter) Encode(out io.Writer, sub *Subtitle) error {
	var sb strings.Builder
	for i, entry := range sub.Entries {
		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(&sb, "%s --> %s\n",
			strings.Replace(entry.Start, ".", ",", 1),
			strings.Replace(entry.End, ".", ",", 1))

		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// writes the track to a VTT file
func (w *VTTWriter) Write(sub *Subtitle, path string) error {
	return writeFile(path, func(out io.Writer) error {
		return w.Encode(out, sub)
	})
}

// Encode renders the track in WebVTT form.
func (w *VTTWriter) Encode(out io.Writer, sub *Subtitle) error {
	var sb strings.Builder

	sb.WriteString("WEBVTT\n")
	if sub.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", sub.Language)
	}
	sb.WriteString("\n")

	for _, entry := range sub.Entries {
		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(&sb, "%s --> %s\n", entry.Start, entry.End)
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create caption file: %w", err)
	}

	if err := encode(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write caption file: %w", err)
	}
	return file.Close()
}
