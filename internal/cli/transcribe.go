package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/audio"
	"github.com/mgpai22/capseek/internal/subtitle"
	"github.com/mgpai22/capseek/internal/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Build a caption track for a local audio or video file",
	Long: `Transcribe a local audio or video file into a caption track, for media
that has no captions of its own. The result can be searched with
"capseek search --file".

Audio is extracted and compressed with ffmpeg, split into chunks (default
1 minute) and transcribed in parallel with Google Gemini or OpenAI Whisper.

Examples:
  capseek transcribe lecture.mp4
  capseek transcribe podcast.mp3 --format srt -o podcast.srt
  capseek transcribe talk.mkv --provider openai --api-key sk-...
  capseek transcribe interview.wav -d 2 --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	addTranscribeFlags(transcribeCmd)
}

func addTranscribeFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	cmd.Flags().
		String("provider", "", "Transcription provider: gemini or openai (default from config)")
	cmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes (default from config)")
	cmd.Flags().
		String("format", "vtt", "Output caption format (vtt, srt)")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers (default from config)")
	cmd.Flags().
		String("model", "", "Model name (provider default when empty)")
	cmd.Flags().
		String("prompt", "", "Extra context for the transcriber, e.g. speaker names")
}

type transcribeSettings struct {
	Provider      transcribe.Provider
	APIKey        string
	Format        subtitle.Format
	ChunkDuration time.Duration
	Concurrency   int
	Model         string
	Prompt        string
	OutputPath    string
}

// resolveTranscribeSettings merges flags over the loaded config.
func resolveTranscribeSettings(cmd *cobra.Command, mediaPath string) (*transcribeSettings, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	chunkMinutes, _ := cmd.Flags().GetInt("chunk-duration")
	formatStr, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	outputPath, _ := cmd.Flags().GetString("output")

	if providerStr == "" {
		providerStr = cfg.Transcribe.Provider
	}
	provider := transcribe.Provider(strings.ToLower(strings.TrimSpace(providerStr)))
	switch provider {
	case transcribe.ProviderGemini, transcribe.ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unsupported provider %q: use gemini or openai", providerStr)
	}

	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return nil, fmt.Errorf(
			"%s API key is required: use --api-key flag or set %s environment variable",
			provider, provider.APIKeyEnv(),
		)
	}

	var format subtitle.Format
	switch strings.ToLower(formatStr) {
	case "vtt":
		format = subtitle.FormatVTT
	case "srt":
		format = subtitle.FormatSRT
	default:
		return nil, fmt.Errorf("unsupported format %q: use vtt or srt", formatStr)
	}

	if chunkMinutes == 0 {
		chunkMinutes = cfg.Transcribe.ChunkMinutes
	}
	if chunkMinutes <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %d", chunkMinutes)
	}
	if concurrency == 0 {
		concurrency = cfg.Transcribe.Concurrency
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if model == "" {
		model = cfg.Transcribe.Model
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) +
			subtitle.ExtensionForFormat(format)
	}

	return &transcribeSettings{
		Provider:      provider,
		APIKey:        apiKey,
		Format:        format,
		ChunkDuration: time.Duration(chunkMinutes) * time.Minute,
		Concurrency:   concurrency,
		Model:         model,
		Prompt:        prompt,
		OutputPath:    outputPath,
	}, nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	settings, err := resolveTranscribeSettings(cmd, mediaPath)
	if err != nil {
		return err
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", settings.OutputPath,
		"provider", string(settings.Provider),
		"format", string(settings.Format),
		"chunk_duration", settings.ChunkDuration.String(),
		"concurrency", settings.Concurrency,
	)

	tempDir, err := os.MkdirTemp("", "capseek-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Infow("Preparing audio", "video", audio.IsVideoFile(mediaPath))
	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := audio.Prepare(ctx, mediaPath, audioPath, audio.DefaultPrepareOptions()); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	chunks, err := audio.ChunkAudio(
		ctx,
		audioPath,
		settings.ChunkDuration,
		filepath.Join(tempDir, "chunks"),
		settings.Concurrency,
	)
	if err != nil {
		return fmt.Errorf("failed to split audio: %w", err)
	}

	logger.Infow("Created audio chunks", "count", len(chunks))

	transcriber, err := transcribe.Factory(ctx, settings.Provider, settings.APIKey, transcribe.Options{
		Language: cfg.Language,
		Model:    settings.Model,
		Prompt:   settings.Prompt,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	result, err := transcribe.TranscribeChunks(ctx, transcriber, chunks, settings.Concurrency)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete", "segments", len(result.Segments))

	subs, err := subtitle.NewDefaultGenerator().Generate(result.Segments)
	if err != nil {
		return fmt.Errorf("failed to generate captions: %w", err)
	}
	subs.Language = cfg.Language
	subs.Format = string(settings.Format)

	writer, err := subtitle.NewWriter(settings.Format)
	if err != nil {
		return fmt.Errorf("failed to create caption writer: %w", err)
	}
	if err := writer.Write(subs, settings.OutputPath); err != nil {
		return fmt.Errorf("failed to write captions: %w", err)
	}

	absOutput, _ := filepath.Abs(settings.OutputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Captions written: %s\n", absOutput)
	fmt.Fprintf(out, "  Entries: %d\n", len(subs.Entries))
	fmt.Fprintf(out, "  Duration: %s\n", result.Duration.String())

	return nil
}
