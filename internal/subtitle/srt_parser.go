package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var srtTimingRegex = regexp.MustCompile(
	`^\s*(\d+:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d+:\d{2}:\d{2}[,.]\d{3})`,
)

// ParseSRT reads a SubRip document. Timestamps are rewritten with a
// '.' millisecond separator so every track shares one timestamp form.
func ParseSRT(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCueLine)

	var (
		entries   []Entry
		current   *Entry
		pending   int
		textLines []string
		lineNum   int
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.Join(textLines, "\n")
		entries = append(entries, *current)
		current = nil
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			pending = 0
			continue
		}

		if current == nil {
			if index, err := strconv.Atoi(trimmed); err == nil {
				pending = index
				continue
			}
			matches := srtTimingRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("expected timing line at line %d", lineNum)
			}
			index := pending
			if index == 0 {
				index = len(entries) + 1
			}
			current = &Entry{
				Index: index,
				Start: strings.Replace(matches[1], ",", ".", 1),
				End:   strings.Replace(matches[2], ",", ".", 1),
			}
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT data: %w", err)
	}

	return entries, nil
}
