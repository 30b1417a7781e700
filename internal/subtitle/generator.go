package subtitle

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultGenerator turns transcription segments into caption entries,
// cutting segments that are too long to read in one cue.
type DefaultGenerator struct {
	MaxCharsPerLine int
	MaxLinesPerSub  int
	MinDuration     time.Duration
	MaxDuration     time.Duration
}

func NewDefaultGenerator() *DefaultGenerator {
	return &DefaultGenerator{
		MaxCharsPerLine: 42,
		MaxLinesPerSub:  2,
		MinDuration:     time.Second,
		MaxDuration:     7 * time.Second,
	}
}

type cue struct {
	start, end time.Duration
	text       string
}

func (g *DefaultGenerator) Generate(segments []Segment) (*Subtitle, error) {
	var cues []cue
	for i, seg := range segments {
		words := strings.Fields(seg.Text)
		if len(words) == 0 {
			continue
		}

		// short cues may borrow time up to the next segment
		limit := time.Duration(-1)
		if i+1 < len(segments) {
			limit = segments[i+1].StartTime
		}
		cues = append(cues, g.cut(seg, words, limit)...)
	}

	entries := make([]Entry, len(cues))
	for i, c := range cues {
		entries[i] = Entry{
			Index: i + 1,
			Start: FormatTimestamp(c.start),
			End:   FormatTimestamp(c.end),
			Text:  g.wrap(c.text),
		}
	}

	return &Subtitle{
		Entries: entries,
		Format:  string(FormatVTT),
	}, nil
}

// cut splits one segment into readable cues, sharing its time span in
// proportion to the characters in each cue.
func (g *DefaultGenerator) cut(seg Segment, words []string, limit time.Duration) []cue {
	text := strings.Join(words, " ")
	chars := utf8.RuneCountInString(text)
	span := max(seg.EndTime-seg.StartTime, 0)

	n := 1
	if perCue := g.MaxCharsPerLine * g.MaxLinesPerSub; perCue > 0 {
		n = max(n, ceilDiv(chars, perCue))
	}
	if g.MaxDuration > 0 {
		n = max(n, int((span+g.MaxDuration-1)/g.MaxDuration))
	}
	n = min(n, len(words))

	groups := splitWords(words, n)
	cues := make([]cue, 0, len(groups))

	start, used := seg.StartTime, 0
	for i, group := range groups {
		used += utf8.RuneCountInString(group)
		if i < len(groups)-1 {
			used++ // joining space
		}

		end := seg.StartTime + time.Duration(float64(span)*float64(used)/float64(chars))
		if i == len(groups)-1 {
			end = seg.EndTime
		}
		cues = append(cues, cue{start: start, end: end, text: group})
		start = end
	}

	last := &cues[len(cues)-1]
	if g.MinDuration > 0 && last.end-last.start < g.MinDuration {
		stretched := last.start + g.MinDuration
		if limit >= 0 {
			stretched = min(stretched, limit)
		}
		last.end = max(last.end, stretched)
	}

	return cues
}

// splitWords distributes words over n groups of roughly equal length.
func splitWords(words []string, n int) []string {
	if n <= 1 {
		return []string{strings.Join(words, " ")}
	}

	total := 0
	for _, w := range words {
		total += utf8.RuneCountInString(w) + 1
	}

	groups := make([]string, 0, n)
	from, acc := 0, 0
	for i, w := range words {
		acc += utf8.RuneCountInString(w) + 1
		remainingWords := len(words) - i - 1
		remainingGroups := n - len(groups) - 1
		target := total * (len(groups) + 1) / n

		if remainingGroups > 0 && (acc >= target || remainingWords == remainingGroups) {
			groups = append(groups, strings.Join(words[from:i+1], " "))
			from = i + 1
		}
	}
	return append(groups, strings.Join(words[from:], " "))
}

// wrap breaks text into at most two lines, choosing the space nearest the
// middle so the lines come out balanced.
func (g *DefaultGenerator) wrap(text string) string {
	if utf8.RuneCountInString(text) <= g.MaxCharsPerLine || g.MaxLinesPerSub < 2 {
		return text
	}

	mid := len(text) / 2
	best := -1
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' {
			continue
		}
		if best < 0 || absInt(i-mid) < absInt(best-mid) {
			best = i
		}
	}
	if best < 0 {
		return text
	}
	return text[:best] + "\n" + text[best+1:]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
