package cli

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/search"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Print a caption track as one line of lower-cased text",
	Long: `Flatten a caption track into a single line: every cue is trimmed,
lower-cased and joined with one space. Handy for pasting a whole video
transcript into another tool.

Examples:
  capseek corpus --url https://youtu.be/dQw4w9WgXcQ
  capseek corpus --file talk.vtt --copy`,
	Args: cobra.NoArgs,
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)

	addTrackFlags(corpusCmd)
	corpusCmd.Flags().Bool("copy", false, "Copy the corpus to the clipboard instead of printing it")
}

func runCorpus(cmd *cobra.Command, args []string) error {
	track, err := loadTrackFromFlags(context.Background(), cmd)
	if err != nil {
		return err
	}

	text := search.Corpus(track.Entries)

	if copyIt, _ := cmd.Flags().GetBool("copy"); copyIt {
		if text == "" {
			logger.Warnw("Caption track is empty, clipboard left unchanged")
			return nil
		}
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		logger.Infow("Corpus copied to clipboard", "chars", len(text))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
