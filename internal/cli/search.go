package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/search"
	"github.com/mgpai22/capseek/internal/youtube"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the moments in a video whose captions match a phrase",
	Long: `Fuzzy-search a caption track for a phrase.

Every cue is scored by the longest run of characters it shares with the
query. Cues that share nothing are dropped and the rest are returned best
first, as offsets in seconds from the start of the video.

On a terminal the matches are shown as a table; pipe the output or pass
--plain to get one offset per line.

Examples:
  capseek search "never gonna give" --url https://youtu.be/dQw4w9WgXcQ
  capseek search "hello" --file talk.vtt --limit 5 --plain
  capseek search "Hello World" --url https://youtu.be/dQw4w9WgXcQ --ignore-case --links`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	addTrackFlags(searchCmd)
	searchCmd.Flags().IntP("limit", "n", 0, "Show at most this many matches (0 for all)")
	searchCmd.Flags().Bool("table", false, "Render matches as a table")
	searchCmd.Flags().Bool("plain", false, "Print one offset per line")
	searchCmd.Flags().Bool("links", false, "Print timestamped watch links instead of offsets (needs --url)")
	searchCmd.Flags().BoolP("ignore-case", "i", false, "Lower-case query and captions before matching")
	searchCmd.MarkFlagsMutuallyExclusive("table", "plain")
}

type searchOutput struct {
	Table   bool
	Links   bool
	Limit   int
	VideoID string
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	asTable, _ := cmd.Flags().GetBool("table")
	plain, _ := cmd.Flags().GetBool("plain")
	links, _ := cmd.Flags().GetBool("links")
	ignoreCase, _ := cmd.Flags().GetBool("ignore-case")

	if limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", limit)
	}

	track, err := loadTrackFromFlags(context.Background(), cmd)
	if err != nil {
		return err
	}
	if links && track.VideoID == "" {
		return fmt.Errorf("--links needs a video: use --url")
	}

	entries := track.Entries
	if ignoreCase {
		query = search.FoldQuery(query)
		entries = search.Fold(entries)
	}

	matches, err := search.Rank(query, entries)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	logger.Infow("Search complete",
		"query", query,
		"entries", len(entries),
		"matches", len(matches),
	)

	out := searchOutput{
		Table:   asTable || (!plain && isTerminal(cmd.OutOrStdout())),
		Links:   links,
		Limit:   limit,
		VideoID: track.VideoID,
	}
	return writeMatches(cmd.OutOrStdout(), matches, out)
}

func writeMatches(w io.Writer, matches []search.Match, out searchOutput) error {
	if out.Limit > 0 && len(matches) > out.Limit {
		matches = matches[:out.Limit]
	}

	if !out.Table {
		for _, m := range matches {
			line := strconv.Itoa(m.Seconds)
			if out.Links {
				line = youtube.WatchURL(out.VideoID, m.Seconds)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No matches.")
		return err
	}

	headers := []string{"#", "Start", "Seconds", "Score", "Text"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft}
	if out.Links {
		headers = append(headers, "Link")
		aligns = append(aligns, alignLeft)
	}

	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		row := []string{
			strconv.Itoa(i + 1),
			m.Entry.Start,
			strconv.Itoa(m.Seconds),
			strconv.Itoa(m.Score),
			strings.ReplaceAll(m.Entry.Text, "\n", " "),
		}
		if out.Links {
			row = append(row, youtube.WatchURL(out.VideoID, m.Seconds))
		}
		rows = append(rows, row)
	}

	_, err := fmt.Fprintln(w, renderTable(headers, rows, aligns))
	return err
}
