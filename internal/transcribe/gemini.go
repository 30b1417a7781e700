package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/mgpai22/capseek/internal/audio"
	"github.com/mgpai22/capseek/internal/subtitle"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

var errNoSegments = errors.New("no transcript segments in response")

// wrapper keys tried before any other key of a JSON object
var segmentKeys = []string{"segments", "transcript", "data"}

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

// implements Transcriber using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// segment as Gemini is asked to emit it
type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploaded, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(context.WithoutCancel(ctx), uploaded.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(buildPrompt(t.options)),
		genai.NewPartFromURI(uploaded.URI, uploaded.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := parseGeminiResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	duration, _ := audio.GetDuration(ctx, audioPath)

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

func buildPrompt(opts Options) string {
	var sb strings.Builder

	sb.WriteString("Generate a verbatim transcript of this audio. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, and the exact text spoken. ")
	sb.WriteString("Format your response as a JSON array of objects with 'start', 'end' and 'text' fields, ")
	sb.WriteString("where 'start' and 'end' are offsets in seconds (as numbers). ")

	if opts.Language != "" {
		fmt.Fprintf(&sb, "The audio is in %s; transcribe it in that language. ", opts.Language)
	}

	if opts.Prompt != "" {
		sb.WriteString(opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

func parseGeminiResponse(resp *genai.GenerateContentResponse) ([]subtitle.Segment, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	text := sb.String()
	if text == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	raw, err := extractTranscriptSegments(cleanJSONResponse(text))
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(text, 200))
	}

	segments := make([]subtitle.Segment, len(raw))
	for i, ts := range raw {
		segments[i] = subtitle.Segment{
			StartTime: seconds(ts.Start),
			EndTime:   seconds(ts.End),
			Text:      strings.TrimSpace(ts.Text),
		}
	}

	return segments, nil
}

// extractTranscriptSegments finds the first JSON value in s that holds
// transcript segments. Models like to wrap the array in prose or in an
// object, so every '[' and '{' is tried as a starting point.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}

		if segments := segmentsFrom(raw); segments != nil {
			return segments, nil
		}
		i += int(dec.InputOffset()) - 1
	}

	return nil, errNoSegments
}

func segmentsFrom(raw json.RawMessage) []transcriptSegment {
	var segments []transcriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		if validateSegments(segments) {
			return segments
		}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !slices.Contains(segmentKeys, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range append(slices.Clone(segmentKeys), keys...) {
		v, ok := obj[k]
		if !ok {
			continue
		}
		if found := segmentsFrom(v); found != nil {
			return found
		}
	}

	return nil
}

// at least one segment must carry a time or text
func validateSegments(segments []transcriptSegment) bool {
	for _, s := range segments {
		if s.Start != 0 || s.End != 0 || s.Text != "" {
			return true
		}
	}
	return false
}

// removes markdown code fences from the response
func cleanJSONResponse(s string) string {
	s = codeFence.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
