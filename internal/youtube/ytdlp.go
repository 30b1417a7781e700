package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var errExtractorFailed = errors.New("yt-dlp failed")

// Extractor returns the yt-dlp style JSON metadata for a video, with
// caption selection applied for lang.
type Extractor interface {
	Extract(ctx context.Context, url, lang string) ([]byte, error)
}

// runs the yt-dlp binary
type YtDlp struct {
	Path      string
	ExtraArgs []string
}

func NewYtDlp(path string, extraArgs []string) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{Path: path, ExtraArgs: extraArgs}
}

// BuildArgs constructs the command line for a metadata-only run that
// selects the lang caption track, manual first, in VTT form.
func (y *YtDlp) BuildArgs(url, lang string) []string {
	args := []string{
		"--no-config",
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", lang,
		"--sub-format", "vtt",
	}
	args = append(args, y.ExtraArgs...)
	return append(args, "--", url)
}

func (y *YtDlp) Extract(ctx context.Context, url, lang string) ([]byte, error) {
	exe, err := exec.LookPath(y.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errExtractorNotFound, y.Path)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, y.BuildArgs(url, lang)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp interrupted: %w", ctx.Err())
		}
		return nil, classifyYtDlpError(stderr.String(), err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 || out[0] != '{' {
		return nil, fmt.Errorf("%w: no JSON in output", errExtractorFailed)
	}
	return out, nil
}

// turns yt-dlp's stderr into one of the package errors
func classifyYtDlpError(stderr string, runErr error) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "this video has been removed"),
		strings.Contains(lower, "is not a valid url"),
		strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "incomplete youtube id"):
		return fmt.Errorf("%w: %s", ErrVideoUnavailable, msg)
	case strings.Contains(lower, "unable to download"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "http error"),
		strings.Contains(lower, "name resolution"):
		return fmt.Errorf("yt-dlp network failure: %s: %w", msg, runErr)
	default:
		return fmt.Errorf("%w: %v: %s", errExtractorFailed, runErr, msg)
	}
}

type subtitleItem struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// fields of the yt-dlp JSON this package reads
type ytdlpOutput struct {
	ID                 string                    `json:"id"`
	Title              string                    `json:"title"`
	Subtitles          map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions  map[string][]subtitleItem `json:"automatic_captions"`
	RequestedSubtitles map[string]*subtitleItem  `json:"requested_subtitles"`
}

// caption track chosen by yt-dlp
type Track struct {
	VideoID string
	Title   string
	URL     string
	Kind    Kind
}

// ParseTrack picks the requested lang caption URL out of yt-dlp JSON. The
// track counts as manual whenever the video carries any manual subtitles.
func ParseTrack(raw []byte, lang string) (*Track, error) {
	var out ytdlpOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: unmarshal yt-dlp output: %v", errExtractorFailed, err)
	}

	requested := out.RequestedSubtitles[lang]
	if requested == nil || requested.URL == "" {
		return nil, fmt.Errorf("%w: language %q", ErrNoCaptions, lang)
	}

	kind := KindAutomatic
	if len(out.Subtitles) > 0 {
		kind = KindManual
	}

	return &Track{
		VideoID: out.ID,
		Title:   out.Title,
		URL:     requested.URL,
		Kind:    kind,
	}, nil
}
