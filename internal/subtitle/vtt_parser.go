package subtitle

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

var (
	vttTimingRegex = regexp.MustCompile(
		`^\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d+:)?\d{2}:\d{2}\.\d{3})`,
	)
	// inline cue markup: <c>, </c>, <i>, <v Speaker>, <00:00:01.234>
	vttTagRegex = regexp.MustCompile(`<[^>]*>`)
)

const maxCueLine = 1024 * 1024

// ParseVTT reads a WebVTT document and returns its cues in file order.
// Cues are never merged or dropped, even when their text is empty.
func ParseVTT(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCueLine)

	var (
		entries   []Entry
		current   *Entry
		textLines []string
		lineNum   int
		inHeader  bool
		skipBlock bool
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
		line := strings.TrimSuffix(scanner.Text(), "\r")
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
			if !strings.HasPrefix(strings.TrimSpace(line), "WEBVTT") {
				return nil, fmt.Errorf("missing WEBVTT header")
			}
			inHeader = true
			continue
		}

		// only a truly empty line ends a block; " " is cue text
		if line == "" {
			flush()
			inHeader = false
			skipBlock = false
			continue
		}

		// header metadata such as "Kind: captions" runs until the first blank line
		if inHeader {
			continue
		}

		matches := vttTimingRegex.FindStringSubmatch(line)

		// a NOTE line directly followed by timing is a cue identifier
		if skipBlock && matches == nil {
			continue
		}
		skipBlock = false

		if matches != nil {
			flush()
			current = &Entry{
				Index: len(entries) + 1,
				Start: normalizeVTTTimestamp(matches[1]),
				End:   normalizeVTTTimestamp(matches[2]),
			}
			continue
		}

		if current == nil {
			if isVTTMetaBlock(strings.TrimSpace(line)) {
				skipBlock = true
			}
			// anything else before a timing line is a cue identifier
			continue
		}

		textLines = append(textLines, cleanCueText(line))
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT data: %w", err)
	}

	return entries, nil
}

func isVTTMetaBlock(line string) bool {
	for _, prefix := range []string{"NOTE", "STYLE", "REGION"} {
		if line == prefix ||
			strings.HasPrefix(line, prefix+" ") ||
			strings.HasPrefix(line, prefix+"\t") {
			return true
		}
	}
	return false
}

// expands MM:SS.mmm to 00:MM:SS.mmm
func normalizeVTTTimestamp(ts string) string {
	if strings.Count(ts, ":") == 1 {
		return "00:" + ts
	}
	return ts
}

func cleanCueText(line string) string {
	line = vttTagRegex.ReplaceAllString(line, "")
	return html.UnescapeString(line)
}
