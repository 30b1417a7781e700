package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	envFFmpegPath  = "CAPSEEK_FFMPEG_PATH"
	envFFprobePath = "CAPSEEK_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = Resolve(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

// Resolve prefers the CAPSEEK_FFMPEG_PATH / CAPSEEK_FFPROBE_PATH overrides
// and falls back to a PATH lookup for each binary.
func Resolve(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	ffmpegPath, err := resolveOne(getenv(envFFmpegPath), "ffmpeg", envFFmpegPath, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := resolveOne(getenv(envFFprobePath), "ffprobe", envFFprobePath, lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func resolveOne(
	override, name, envName string,
	lookPath func(string) (string, error),
) (string, error) {
	if override != "" {
		info, err := os.Stat(override)
		if err != nil {
			return "", fmt.Errorf("%w: %s override %q: %v", ErrNotFound, name, override, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%w: %s override %q is a directory", ErrNotFound, name, override)
		}
		return override, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: install %s or set %s", ErrNotFound, name, envName)
	}
	return found, nil
}
