package subtitle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open parses a caption file, choosing the parser from its extension.
func Open(path string) (*Subtitle, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes caption bytes already held in memory.
func Parse(data []byte, format Format) (*Subtitle, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatVTT:
		entries, err = ParseVTT(bytes.NewReader(data))
	case FormatSRT:
		entries, err = ParseSRT(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported caption format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	return &Subtitle{
		Entries: entries,
		Format:  string(format),
	}, nil
}

// caption format based on file extension
func FormatFromExtension(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".vtt":
		return FormatVTT, nil
	case ".srt":
		return FormatSRT, nil
	default:
		return "", fmt.Errorf("unsupported caption format: %s", ext)
	}
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	default:
		return ".vtt"
	}
}
