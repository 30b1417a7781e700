package youtube

import (
	"context"
	"testing"
)

// countingSource returns a fixed result and counts calls
type countingSource struct {
	result Result
	calls  int
}

func (s *countingSource) Fetch(ctx context.Context, rawURL string) Result {
	s.calls++
	r := s.result
	r.VideoID = VideoID(rawURL)
	return r
}

func TestCacheSharesEntriesAcrossURLShapes(t *testing.T) {
	source := &countingSource{result: Result{Captions: sampleVTT, Kind: KindAutomatic}}
	cache := NewCache(10, source, nil)
	ctx := context.Background()

	first := cache.Fetch(ctx, "https://youtu.be/abc")
	second := cache.Fetch(ctx, "https://www.youtube.com/watch?v=abc")
	third := cache.Fetch(ctx, "https://www.youtube.com/embed/abc")

	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}
	if first != second || second != third {
		t.Errorf("cached results differ: %+v %+v %+v", first, second, third)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	source := &countingSource{result: Result{Captions: sampleVTT}}
	cache := NewCache(2, source, nil)
	ctx := context.Background()

	cache.Fetch(ctx, "https://youtu.be/a")
	cache.Fetch(ctx, "https://youtu.be/b")
	cache.Fetch(ctx, "https://youtu.be/a") // a is now most recent
	cache.Fetch(ctx, "https://youtu.be/c") // evicts b

	if cache.Len() != 2 {
		t.Errorf("Len = %d, want 2", cache.Len())
	}

	calls := source.calls
	cache.Fetch(ctx, "https://youtu.be/a")
	if source.calls != calls {
		t.Error("a should still be cached")
	}
	cache.Fetch(ctx, "https://youtu.be/b")
	if source.calls != calls+1 {
		t.Error("b should have been evicted")
	}
}

func TestCacheSkipsTransientFailures(t *testing.T) {
	source := &countingSource{result: Result{Failure: FailureNetwork}}
	cache := NewCache(10, source, nil)
	ctx := context.Background()

	cache.Fetch(ctx, "https://youtu.be/abc")
	cache.Fetch(ctx, "https://youtu.be/abc")

	if source.calls != 2 {
		t.Errorf("source called %d times, want 2", source.calls)
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}

func TestCacheKeepsNoCaptionsAnswer(t *testing.T) {
	source := &countingSource{result: Result{Failure: FailureNoCaptions}}
	cache := NewCache(10, source, nil)
	ctx := context.Background()

	cache.Fetch(ctx, "https://youtu.be/abc")
	cache.Fetch(ctx, "https://youtu.be/abc")

	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}
}

func TestCacheDisabled(t *testing.T) {
	source := &countingSource{result: Result{Captions: sampleVTT}}
	cache := NewCache(0, source, nil)

	cache.Fetch(context.Background(), "https://youtu.be/abc")
	cache.Fetch(context.Background(), "https://youtu.be/abc")

	if source.calls != 2 {
		t.Errorf("source called %d times, want 2", source.calls)
	}
}
