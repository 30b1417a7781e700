package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mgpai22/capseek/internal/subtitle"
)

// Corpus flattens a track into one lower-cased line of text: each cue is
// trimmed of surrounding spaces and cues are joined by a single space.
func Corpus(track []subtitle.Entry) string {
	lower := cases.Lower(language.Und)

	parts := make([]string, 0, len(track))
	for _, entry := range track {
		parts = append(parts, lower.String(strings.Trim(entry.Text, " ")))
	}
	return strings.Join(parts, " ")
}

// Fold lower-cases every entry's text and returns a new track. Applying
// Fold to the query and the track alike gives case-insensitive search.
func Fold(track []subtitle.Entry) []subtitle.Entry {
	lower := cases.Lower(language.Und)

	folded := make([]subtitle.Entry, len(track))
	for i, entry := range track {
		entry.Text = lower.String(entry.Text)
		folded[i] = entry
	}
	return folded
}

// FoldQuery lower-cases a query the same way Fold treats caption text.
func FoldQuery(query string) string {
	return cases.Lower(language.Und).String(query)
}
