package search

import (
	"fmt"
	"sort"

	"github.com/mgpai22/capseek/internal/subtitle"
)

// Match is a caption entry that shares text with the query.
type Match struct {
	Entry   subtitle.Entry
	Score   int
	Seconds int
}

// Rank scores every entry against query, keeps those with a positive score
// and orders them by score, highest first. Entries with equal scores keep
// their track order.
func Rank(query string, track []subtitle.Entry) ([]Match, error) {
	matches := make([]Match, 0)
	for _, entry := range track {
		score := Overlap(query, entry.Text)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Entry: entry, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	for i := range matches {
		seconds, err := ToSeconds(matches[i].Entry.Start)
		if err != nil {
			return nil, fmt.Errorf("caption %d: %w", matches[i].Entry.Index, err)
		}
		matches[i].Seconds = seconds
	}

	return matches, nil
}

// Search returns the start second of every caption matching query, most
// relevant first. Duplicate seconds are kept.
func Search(query string, track []subtitle.Entry) ([]int, error) {
	matches, err := Rank(query, track)
	if err != nil {
		return nil, err
	}

	seconds := make([]int, len(matches))
	for i, m := range matches {
		seconds[i] = m.Seconds
	}
	return seconds, nil
}
