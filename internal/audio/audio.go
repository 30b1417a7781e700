package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/capseek/internal/ffmpeg"
)

// one slice of a longer recording
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// encoder settings for audio sent to a transcription provider
type PrepareOptions struct {
	Format     string // mp3 or aac
	SampleRate int
	Channels   int
	Bitrate    string
}

// small mono mp3, plenty for speech recognition
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio or video file, read with ffprobe
func GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); err != nil {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out.Bytes())
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Prepare drops any video stream and re-encodes the audio of inputPath
// with opts, so audio and video inputs go through the same path.
func Prepare(
	ctx context.Context,
	inputPath, outputPath string,
	opts PrepareOptions,
) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, encoderArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("audio preparation failed: %w", err)
	}

	return nil
}

func encoderArgs(opts PrepareOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // no video
		"ar": opts.SampleRate,
		"ac": opts.Channels,
	}

	if opts.Format == "aac" {
		kwargs["acodec"] = "aac"
	} else {
		kwargs["acodec"] = "libmp3lame"
	}
	if opts.Bitrate != "" {
		kwargs["b:a"] = opts.Bitrate
	}

	return kwargs
}

// PlanChunks cuts total into consecutive windows of at most size.
func PlanChunks(total, size time.Duration) []ChunkInfo {
	if size <= 0 || total <= 0 {
		return nil
	}

	var chunks []ChunkInfo
	for i, start := 0, time.Duration(0); start < total; i, start = i+1, start+size {
		end := min(start+size, total)
		chunks = append(chunks, ChunkInfo{
			Index:     i,
			StartTime: start,
			EndTime:   end,
		})
	}
	return chunks
}

// ChunkAudio splits audioPath into files of chunkDuration, cutting at most
// concurrency chunks at a time. Chunks come back in playback order.
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %v", chunkDuration)
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	total, err := GetDuration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(audioPath)
	base := strings.TrimSuffix(filepath.Base(audioPath), ext)

	chunks := PlanChunks(total, chunkDuration)
	errs := make([]error, len(chunks))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i := range chunks {
		chunks[i].Path = filepath.Join(outputDir, fmt.Sprintf("%s_chunk_%03d%s", base, i, ext))

		wg.Add(1)
		go func(chunk ChunkInfo) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[chunk.Index] = err
				return
			}

			err := ffmpeg.Input(audioPath).
				Output(chunk.Path, ffmpeg.KwArgs{
					"ss": chunk.StartTime.Seconds(),
					"t":  (chunk.EndTime - chunk.StartTime).Seconds(),
					"c":  "copy",
				}).
				OverWriteOutput().
				SetFfmpegPath(ffmpegPath).
				Run()
			if err != nil {
				errs[chunk.Index] = fmt.Errorf("failed to create chunk %d: %w", chunk.Index, err)
			}
		}(chunks[i])
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return chunks, nil
}

var videoExts = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".aac": true, ".flac": true,
	".ogg": true, ".m4a": true, ".wma": true, ".aiff": true,
	".opus": true,
}

func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
