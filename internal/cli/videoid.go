package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/youtube"
)

var errNoVideoID = errors.New("no video id")

var videoIDCmd = &cobra.Command{
	Use:   "videoid [url]",
	Short: "Print the video ID of a YouTube URL",
	Long: `Print the video ID embedded in a YouTube URL.

Recognised forms are youtu.be/<id>, youtube.com/watch?v=<id>,
youtube.com/embed/<id> and youtube.com/v/<id>.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := youtube.VideoID(args[0])
		if id == "" {
			return fmt.Errorf("%w in %q", errNoVideoID, args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videoIDCmd)
}
