package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/mgpai22/capseek/internal/config"
	"github.com/mgpai22/capseek/internal/logging"
	"github.com/mgpai22/capseek/internal/search"
	"github.com/mgpai22/capseek/internal/subtitle"
	"github.com/mgpai22/capseek/internal/transcribe"
	"github.com/mgpai22/capseek/internal/youtube"
)

func TestMain(m *testing.M) {
	logger = logging.NewNop()
	cfg = config.Default()
	os.Exit(m.Run())
}

const sampleVTT = `WEBVTT
Kind: captions
Language: en

00:00:01.000 --> 00:00:02.000
hello world

00:00:03.000 --> 00:00:04.000
goodbye

00:00:05.000 --> 00:00:06.000
hello there
`

type stubSource struct {
	result youtube.Result
	calls  int
}

func (s *stubSource) Fetch(ctx context.Context, rawURL string) youtube.Result {
	s.calls++
	return s.result
}

func sampleMatches(t *testing.T) []search.Match {
	t.Helper()
	entries, err := subtitle.ParseVTT(strings.NewReader(sampleVTT))
	if err != nil {
		t.Fatalf("ParseVTT: %v", err)
	}
	matches, err := search.Rank("hello", entries)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	return matches
}

func TestWriteMatchesPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMatches(&buf, sampleMatches(t), searchOutput{}); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}
	if got, want := buf.String(), "1\n5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriteMatchesLinksAndLimit(t *testing.T) {
	var buf bytes.Buffer
	out := searchOutput{Links: true, Limit: 1, VideoID: "dQw4w9WgXcQ"}
	if err := writeMatches(&buf, sampleMatches(t), out); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}
	if got, want := buf.String(), "https://youtu.be/dQw4w9WgXcQ?t=1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWriteMatchesTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMatches(&buf, sampleMatches(t), searchOutput{Table: true}); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Start", "Seconds", "Score", "hello world", "hello there", "00:00:05.000"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "goodbye") {
		t.Errorf("table lists a non-matching cue:\n%s", got)
	}

	buf.Reset()
	if err := writeMatches(&buf, nil, searchOutput{Table: true}); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}
	if !strings.Contains(buf.String(), "No matches") {
		t.Errorf("empty table output = %q", buf.String())
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if got := renderTable(nil, [][]string{{"x"}}, nil); got != "" {
		t.Errorf("renderTable with no headers = %q, want empty", got)
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestLoadTrackURL(t *testing.T) {
	src := &stubSource{result: youtube.Result{
		VideoID:  "dQw4w9WgXcQ",
		Captions: sampleVTT,
		Kind:     youtube.KindAutomatic,
	}}

	track, err := loadTrackURL(context.Background(), src, "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("loadTrackURL: %v", err)
	}
	if track.VideoID != "dQw4w9WgXcQ" || track.Kind != youtube.KindAutomatic {
		t.Errorf("track = %+v", track)
	}
	if len(track.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(track.Entries))
	}
}

func TestLoadTrackURLReusesCachedCaptions(t *testing.T) {
	src := &stubSource{result: youtube.Result{VideoID: "dQw4w9WgXcQ", Captions: sampleVTT}}
	cached := youtube.NewCache(cfg.CacheSize, src, logger)

	for _, u := range []string{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"} {
		if _, err := loadTrackURL(context.Background(), cached, u); err != nil {
			t.Fatalf("loadTrackURL(%s): %v", u, err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source fetched %d times, want 1", src.calls)
	}
}

func TestLoadTrackURLWithoutCaptionsIsEmpty(t *testing.T) {
	src := &stubSource{result: youtube.Result{
		VideoID: "dQw4w9WgXcQ",
		Failure: youtube.FailureNoCaptions,
		Err:     youtube.ErrNoCaptions,
	}}

	track, err := loadTrackURL(context.Background(), src, "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("loadTrackURL returned error for a video without captions: %v", err)
	}
	if len(track.Entries) != 0 || track.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("track = %+v, want empty entries for dQw4w9WgXcQ", track)
	}

	matches, err := search.Rank("hello", track.Entries)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	var plain, table bytes.Buffer
	if err := writeMatches(&plain, matches, searchOutput{}); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}
	if plain.Len() != 0 {
		t.Errorf("plain output = %q, want nothing", plain.String())
	}
	if err := writeMatches(&table, matches, searchOutput{Table: true}); err != nil {
		t.Fatalf("writeMatches: %v", err)
	}
	if !strings.Contains(table.String(), "No matches") {
		t.Errorf("table output = %q", table.String())
	}
	if got := search.Corpus(track.Entries); got != "" {
		t.Errorf("corpus = %q, want empty", got)
	}
}

func TestLoadTrackFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.vtt")
	if err := os.WriteFile(path, []byte(sampleVTT), 0644); err != nil {
		t.Fatal(err)
	}

	track, err := loadTrackFile(path)
	if err != nil {
		t.Fatalf("loadTrackFile: %v", err)
	}
	if track.VideoID != "" {
		t.Errorf("file track should carry no video id, got %q", track.VideoID)
	}

	got := search.Corpus(track.Entries)
	if want := "hello world goodbye hello there"; got != want {
		t.Errorf("corpus = %q, want %q", got, want)
	}
}

func TestWriteFetchResult(t *testing.T) {
	result := youtube.Result{Captions: sampleVTT, Kind: youtube.KindManual}

	var stdout, stderr bytes.Buffer
	if err := writeFetchResult(result, "", &stdout, &stderr); err != nil {
		t.Fatalf("writeFetchResult: %v", err)
	}
	if stdout.String() != sampleVTT {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "kind: manual") {
		t.Errorf("stderr = %q", stderr.String())
	}

	path := filepath.Join(t.TempDir(), "out", "captions.vtt")
	stdout.Reset()
	if err := writeFetchResult(result, path, &stdout, &stderr); err != nil {
		t.Fatalf("writeFetchResult to file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleVTT {
		t.Errorf("file contents = %q", data)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should stay empty when writing a file, got %q", stdout.String())
	}

	failed := youtube.Result{Failure: youtube.FailureNetwork, Err: errors.New("dial tcp: timeout")}
	if err := writeFetchResult(failed, "", &stdout, &stderr); err == nil {
		t.Error("expected error for failed fetch")
	}
}

func TestVideoIDCommand(t *testing.T) {
	configFlag := "--config=" + filepath.Join(t.TempDir(), "missing.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	rootCmd.SetArgs([]string{"videoid", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", configFlag})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("videoid: %v", err)
	}
	if got := out.String(); got != "dQw4w9WgXcQ\n" {
		t.Errorf("output = %q", got)
	}
	if _, ok := captionSource.(*youtube.Cache); !ok {
		t.Errorf("caption source = %T, want one shared *youtube.Cache", captionSource)
	}

	rootCmd.SetArgs([]string{"videoid", "https://vimeo.com/123", configFlag})
	if err := rootCmd.Execute(); !errors.Is(err, errNoVideoID) {
		t.Errorf("error = %v, want errNoVideoID", err)
	}
}

func newTranscribeTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "transcribe"}
	cmd.Flags().StringP("output", "o", "", "")
	addTranscribeFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return cmd
}

func TestResolveTranscribeSettings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "")

	got, err := resolveTranscribeSettings(newTranscribeTestCmd(t), "media/talk.mp4")
	if err != nil {
		t.Fatalf("resolveTranscribeSettings: %v", err)
	}

	want := &transcribeSettings{
		Provider:      transcribe.ProviderGemini,
		APIKey:        "gem-key",
		Format:        subtitle.FormatVTT,
		ChunkDuration: time.Duration(cfg.Transcribe.ChunkMinutes) * time.Minute,
		Concurrency:   cfg.Transcribe.Concurrency,
		OutputPath:    "media/talk.vtt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveTranscribeSettingsFlags(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cmd := newTranscribeTestCmd(t,
		"--provider", "OpenAI",
		"--api-key", "sk-flag",
		"--format", "srt",
		"-d", "2",
		"--concurrency", "5",
		"-o", "out.srt",
	)
	got, err := resolveTranscribeSettings(cmd, "talk.mp3")
	if err != nil {
		t.Fatalf("resolveTranscribeSettings: %v", err)
	}
	if got.Provider != transcribe.ProviderOpenAI || got.APIKey != "sk-flag" {
		t.Errorf("provider/key = %q/%q", got.Provider, got.APIKey)
	}
	if got.Format != subtitle.FormatSRT || got.OutputPath != "out.srt" {
		t.Errorf("format/output = %q/%q", got.Format, got.OutputPath)
	}
	if got.ChunkDuration.Minutes() != 2 || got.Concurrency != 5 {
		t.Errorf("chunking = %v x %d", got.ChunkDuration, got.Concurrency)
	}
}

func TestResolveTranscribeSettingsErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing key", nil, "GEMINI_API_KEY"},
		{"bad provider", []string{"--provider", "whisper-local", "-k", "x"}, "unsupported provider"},
		{"bad format", []string{"--format", "ass", "-k", "x"}, "unsupported format"},
		{"negative chunk", []string{"-d=-1", "-k", "x"}, "chunk duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveTranscribeSettings(newTranscribeTestCmd(t, tt.args...), "talk.mp3")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
