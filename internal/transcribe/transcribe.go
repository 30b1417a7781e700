package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mgpai22/capseek/internal/audio"
	"github.com/mgpai22/capseek/internal/subtitle"
)

// ErrMissingAPIKey is returned by Factory when no credential was supplied.
var ErrMissingAPIKey = errors.New("API key is required")

// transcription result
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// turns one audio file into timed segments
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// APIKeyEnv names the environment variable holding the provider's key.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// transcription options
type Options struct {
	Language string // spoken language hint, e.g. "en"
	Model    string
	Prompt   string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: %w (set %s)", provider, ErrMissingAPIKey, provider.APIKeyEnv())
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

type chunkResult struct {
	Index    int
	Segments []subtitle.Segment
	Language string
	Error    error
}

// TranscribeChunks runs t over chunks with at most concurrency calls in
// flight. Segment times are shifted by each chunk's offset and merged in
// chunk order. The first failure cancels the remaining work.
func TranscribeChunks(
	ctx context.Context,
	t Transcriber,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok || ctx.Err() != nil {
						return
					}

					res, err := t.Transcribe(ctx, chunk.Path)
					if err != nil {
						cancel()
						resultChan <- chunkResult{Index: chunk.Index, Error: err}
						continue
					}
					resultChan <- chunkResult{
						Index:    chunk.Index,
						Segments: shiftSegments(res.Segments, chunk.StartTime),
						Language: res.Language,
					}
				}
			}
		})
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	byIndex := make(map[int]chunkResult, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chunk %d failed: %w", result.Index, result.Error)
			}
			continue
		}
		byIndex[result.Index] = result
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(byIndex) < len(chunks) {
		return nil, err
	}

	merged := &Result{Duration: chunks[len(chunks)-1].EndTime}
	for _, chunk := range chunks {
		r := byIndex[chunk.Index]
		merged.Segments = append(merged.Segments, r.Segments...)
		if merged.Language == "" {
			merged.Language = r.Language
		}
	}

	return merged, nil
}

func shiftSegments(segments []subtitle.Segment, offset time.Duration) []subtitle.Segment {
	shifted := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		shifted[i] = subtitle.Segment{
			StartTime: seg.StartTime + offset,
			EndTime:   seg.EndTime + offset,
			Text:      seg.Text,
		}
	}
	return shifted
}
