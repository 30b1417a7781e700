package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mgpai22/capseek/internal/logging"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "capseek/1.0"
)

// anything that can produce captions for a video URL
type Source interface {
	Fetch(ctx context.Context, rawURL string) Result
}

type Options struct {
	Language  string
	Timeout   time.Duration // whole fetch: metadata plus download
	MaxBytes  int64
	UserAgent string
}

// Fetcher resolves a caption track with an Extractor and downloads it.
type Fetcher struct {
	extractor Extractor
	client    *http.Client
	opts      Options
	logger    *logging.Logger
}

func NewFetcher(
	extractor Extractor,
	client *http.Client,
	opts Options,
	logger *logging.Logger,
) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		extractor: extractor,
		client:    client,
		opts:      opts,
		logger:    logging.OrNop(logger).Named("youtube"),
	}
}

// Fetch never fails loudly: every error becomes a tagged Result.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Result {
	start := time.Now()
	result := Result{VideoID: VideoID(rawURL)}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	track, captions, err := f.fetch(ctx, rawURL)
	if err != nil {
		result.Failure = classify(err)
		result.Err = err
		f.logger.Warnw("No captions retrieved",
			"url", rawURL,
			"failure", string(result.Failure),
			"error", err,
		)
		return result
	}

	if result.VideoID == "" {
		result.VideoID = track.VideoID
	}
	result.Captions = captions
	result.Kind = track.Kind

	f.logger.Debugw("Captions retrieved",
		"video_id", result.VideoID,
		"kind", string(result.Kind),
		"bytes", len(captions),
		"elapsed", time.Since(start).String(),
	)
	return result
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Track, string, error) {
	raw, err := f.extractor.Extract(ctx, rawURL, f.opts.Language)
	if err != nil {
		return nil, "", err
	}

	track, err := ParseTrack(raw, f.opts.Language)
	if err != nil {
		return nil, "", err
	}

	data, err := f.download(ctx, track.URL)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty caption file", ErrNoCaptions)
	}

	return track, string(data), nil
}

// download reads a caption file into memory, bounded by MaxBytes.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid caption url %q: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new caption request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrCaptionsNotFound, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	maxBytes := f.opts.MaxBytes
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: content-length %d exceeds %d", ErrTooLarge, resp.ContentLength, maxBytes)
	}

	// one extra byte detects overflow
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read caption body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}

	return data, nil
}
