package subtitle

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name  string
		words string
		n     int
		want  []string
	}{
		{"single group", "one two three", 1, []string{"one two three"}},
		{"balanced halves", "aaaa bbbb cccc dddd", 2, []string{"aaaa bbbb", "cccc dddd"}},
		{"one word each", "a b c", 3, []string{"a", "b", "c"}},
		{"long word first", "extraordinarily a b c", 2, []string{"extraordinarily", "a b c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitWords(strings.Fields(tt.words), tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("splitWords mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratorWrapsLongLines(t *testing.T) {
	g := NewDefaultGenerator()
	text := "the quick brown fox jumps over the lazy dog and keeps on running"

	got := g.wrap(text)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("wrap produced %d lines: %q", len(lines), got)
	}
	if strings.Join(lines, " ") != text {
		t.Errorf("wrap lost text: %q", got)
	}
	if g.wrap("short") != "short" {
		t.Error("short text should not wrap")
	}
}

func TestGeneratorStretchesShortCues(t *testing.T) {
	g := NewDefaultGenerator()
	sub, err := g.Generate([]Segment{
		{StartTime: 0, EndTime: 200 * time.Millisecond, Text: "hi"},
		{StartTime: 500 * time.Millisecond, EndTime: 600 * time.Millisecond, Text: "there"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []Entry{
		{Index: 1, Start: "00:00:00.000", End: "00:00:00.500", Text: "hi"},
		{Index: 2, Start: "00:00:00.500", End: "00:00:01.500", Text: "there"},
	}
	if diff := cmp.Diff(want, sub.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorEmpty(t *testing.T) {
	sub, err := NewDefaultGenerator().Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sub.Entries) != 0 || sub.Format != string(FormatVTT) {
		t.Errorf("unexpected subtitle %+v", sub)
	}
}
