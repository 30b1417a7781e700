package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/subtitle"
	"github.com/mgpai22/capseek/internal/youtube"
)

// where a caption track came from
type loadedTrack struct {
	Entries []subtitle.Entry
	VideoID string
	Kind    youtube.Kind
}

// registers the mutually exclusive --url / --file pair
func addTrackFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("url", "u", "", "Video URL to fetch captions for")
	cmd.Flags().StringP("file", "f", "", "Local caption file (.vtt or .srt)")
	cmd.MarkFlagsMutuallyExclusive("url", "file")
	cmd.MarkFlagsOneRequired("url", "file")
}

func loadTrackFromFlags(ctx context.Context, cmd *cobra.Command) (*loadedTrack, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return loadTrackFile(path)
	}

	rawURL, _ := cmd.Flags().GetString("url")
	return loadTrackURL(ctx, captionSource, rawURL)
}

func loadTrackFile(path string) (*loadedTrack, error) {
	sub, err := subtitle.Open(path)
	if err != nil {
		return nil, err
	}

	logger.Debugw("Loaded caption file",
		"path", path,
		"format", sub.Format,
		"entries", len(sub.Entries),
	)
	return &loadedTrack{Entries: sub.Entries}, nil
}

func loadTrackURL(ctx context.Context, source youtube.Source, rawURL string) (*loadedTrack, error) {
	result := source.Fetch(ctx, rawURL)
	if !result.OK() {
		// a video without captions is an empty track, not a failed command
		logger.Warnw("No captions available, searching an empty track",
			"url", rawURL,
			"failure", string(result.Failure),
			"error", result.Err,
		)
		return &loadedTrack{VideoID: result.VideoID}, nil
	}

	entries, err := subtitle.ParseVTT(strings.NewReader(result.Captions))
	if err != nil {
		return nil, fmt.Errorf("failed to parse captions for %s: %w", rawURL, err)
	}

	logger.Infow("Captions fetched",
		"video_id", result.VideoID,
		"kind", string(result.Kind),
		"entries", len(entries),
	)
	return &loadedTrack{
		Entries: entries,
		VideoID: result.VideoID,
		Kind:    result.Kind,
	}, nil
}
