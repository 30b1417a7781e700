package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mgpai22/capseek/internal/audio"
	"github.com/mgpai22/capseek/internal/subtitle"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "whisper-1"

var errEmptyTranscript = errors.New("no segments or text in response")

// Whisper over the OpenAI audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// verbose_json body; only the fields used for captions
type whisperResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewOpenAITranscriber builds a client for apiKey. Extra request options
// (base URL, retries) are passed through to the SDK.
func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
	reqOpts ...option.RequestOption,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, reqOpts...)

	t := &OpenAITranscriber{
		client:  openai.NewClient(all...),
		model:   opts.Model,
		options: opts,
	}
	if t.model == "" {
		t.model = defaultOpenAIModel
	}
	return t, nil
}

func (t *OpenAITranscriber) params(file *os.File) openai.AudioTranscriptionNewParams {
	p := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if lang := t.options.Language; lang != "" {
		p.Language = openai.String(lang)
	}
	if prompt := t.options.Prompt; prompt != "" {
		p.Prompt = openai.String(prompt)
	}
	return p
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	file, err := os.Open(audioPath)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	case err != nil:
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	resp, err := t.client.Audio.Transcriptions.New(ctx, t.params(file))
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	// ffprobe is optional here; the response usually carries its own duration
	duration, _ := audio.GetDuration(ctx, audioPath)

	segments, err := parseVerboseJSON(resp.RawJSON(), duration)
	if err != nil {
		segments = []subtitle.Segment{{EndTime: duration, Text: strings.TrimSpace(resp.Text)}}
	}

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// parseVerboseJSON turns a verbose_json body into segments. Bodies without
// segment timing become a single cue spanning the reported duration, or
// fallback when the body has none.
func parseVerboseJSON(rawJSON string, fallback time.Duration) ([]subtitle.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var body whisperResponse
	if err := json.Unmarshal([]byte(rawJSON), &body); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(body.Segments) == 0 {
		text := strings.TrimSpace(body.Text)
		if text == "" {
			return nil, errEmptyTranscript
		}
		end := fallback
		if body.Duration > 0 {
			end = seconds(body.Duration)
		}
		return []subtitle.Segment{{EndTime: end, Text: text}}, nil
	}

	var segments []subtitle.Segment
	for _, seg := range body.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			segments = append(segments, subtitle.Segment{
				StartTime: seconds(seg.Start),
				EndTime:   seconds(seg.End),
				Text:      text,
			})
		}
	}
	return segments, nil
}
