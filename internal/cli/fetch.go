package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/youtube"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download the caption track of a video",
	Long: `Fetch the caption track of a video in WebVTT form.

Manual captions are preferred; automatic captions are used when the video
has no manual track in the requested language. The caption kind is printed
to stderr so stdout can be piped.

Examples:
  capseek fetch https://youtu.be/dQw4w9WgXcQ
  capseek fetch "https://www.youtube.com/watch?v=dQw4w9WgXcQ" -o rick.vtt
  capseek fetch https://youtu.be/dQw4w9WgXcQ -l es`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")

	result := captionSource.Fetch(context.Background(), args[0])
	return writeFetchResult(result, outputPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func writeFetchResult(result youtube.Result, outputPath string, stdout, stderr io.Writer) error {
	if !result.OK() {
		return fmt.Errorf("no captions (%s): %w", result.Failure, result.Err)
	}

	fmt.Fprintf(stderr, "kind: %s\n", result.Kind)

	if outputPath == "" {
		_, err := io.WriteString(stdout, result.Captions)
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(result.Captions), 0644); err != nil {
		return fmt.Errorf("failed to write captions: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(stderr, "Captions saved: %s\n", absOutput)
	return nil
}
