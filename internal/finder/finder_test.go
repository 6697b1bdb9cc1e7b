package finder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/detectcache"
	"chapterize/internal/logging"
	"chapterize/internal/silence"
)

type fakeDetector struct {
	intervals []silence.Interval
	err       error
	calls     int
}

func (d *fakeDetector) DetectSilences(_ context.Context, _ string, _, _ float64) ([]silence.Interval, error) {
	d.calls++
	return d.intervals, d.err
}

type memoryCache struct {
	entries map[detectcache.Key][]silence.Interval
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[detectcache.Key][]silence.Interval{}}
}

func (c *memoryCache) Lookup(_ context.Context, key detectcache.Key) ([]silence.Interval, bool, error) {
	intervals, ok := c.entries[key]
	return intervals, ok, nil
}

func (c *memoryCache) Store(_ context.Context, key detectcache.Key, intervals []silence.Interval) error {
	c.entries[key] = intervals
	return nil
}

func testSource(t *testing.T) string {
	t.Helper()
	source := filepath.Join(t.TempDir(), "book.mp3")
	if err := os.WriteFile(source, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return source
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestRunWritesBoundaries(t *testing.T) {
	source := testSource(t)
	detector := &fakeDetector{intervals: []silence.Interval{
		{Start: 0.5, End: 2.1},                        // opening silence
		{Start: 300, End: 302}, {Start: 302.5, End: 304}, // chapter boundary
		{Start: 500, End: 501.6},                      // stray noise, filtered
	}}

	f := New(testConfig(), logging.NewNop(), detector, nil, nil)
	boundaries, err := f.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d: %+v", len(boundaries), boundaries)
	}
	if boundaries[0].Start != 0 {
		t.Fatalf("opening boundary should start at 0: %+v", boundaries[0])
	}
	if boundaries[1].Start != 302 {
		t.Fatalf("second boundary should start at first interval end: %+v", boundaries[1])
	}

	data, err := os.ReadFile(chapters.FilePath(source))
	if err != nil {
		t.Fatalf("read annotation: %v", err)
	}
	text := string(data)
	if strings.Count(text, "CHAPTER") != 2 {
		t.Fatalf("expected 2 records:\n%s", text)
	}
	if !strings.Contains(text, "CMD: ffplay") {
		t.Fatalf("preview command missing:\n%s", text)
	}
	if !strings.Contains(text, "START: 302") {
		t.Fatalf("start offset missing:\n%s", text)
	}
}

func TestRunPreservesNamesAcrossReruns(t *testing.T) {
	source := testSource(t)
	detector := &fakeDetector{intervals: []silence.Interval{
		{Start: 300, End: 302}, {Start: 302.5, End: 304},
	}}

	f := New(testConfig(), logging.NewNop(), detector, nil, nil)
	if _, err := f.Run(context.Background(), source); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Simulate the reviewer naming the boundary.
	data, err := os.ReadFile(chapters.FilePath(source))
	if err != nil {
		t.Fatalf("read annotation: %v", err)
	}
	edited := strings.Replace(string(data), "NAME: \n", "NAME: the long road\n", 1)
	if edited == string(data) {
		t.Fatalf("expected an empty NAME line to edit:\n%s", data)
	}
	if err := os.WriteFile(chapters.FilePath(source), []byte(edited), 0o644); err != nil {
		t.Fatalf("write edited annotation: %v", err)
	}

	boundaries, err := f.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(boundaries) != 1 || boundaries[0].Name != "the long road" {
		t.Fatalf("name not preserved: %+v", boundaries)
	}
}

func TestRunUsesDetectionCache(t *testing.T) {
	source := testSource(t)
	detector := &fakeDetector{intervals: []silence.Interval{
		{Start: 100, End: 102}, {Start: 102.5, End: 105},
	}}
	cache := newMemoryCache()

	f := New(testConfig(), logging.NewNop(), detector, cache, nil)
	if _, err := f.Run(context.Background(), source); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := f.Run(context.Background(), source); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if detector.calls != 1 {
		t.Fatalf("expected a single detector invocation, got %d", detector.calls)
	}
}

func TestRunNoSilences(t *testing.T) {
	source := testSource(t)
	f := New(testConfig(), logging.NewNop(), &fakeDetector{}, nil, nil)

	boundaries, err := f.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(boundaries) != 0 {
		t.Fatalf("expected no boundaries: %+v", boundaries)
	}
	data, err := os.ReadFile(chapters.FilePath(source))
	if err != nil {
		t.Fatalf("annotation file should still be written: %v", err)
	}
	if strings.Contains(string(data), "CHAPTER") {
		t.Fatalf("annotation should be empty:\n%s", data)
	}
}

func TestRunDetectorFailureIsFatal(t *testing.T) {
	source := testSource(t)
	boom := errors.New("decode error")
	f := New(testConfig(), logging.NewNop(), &fakeDetector{err: boom}, nil, nil)

	if _, err := f.Run(context.Background(), source); !errors.Is(err, boom) {
		t.Fatalf("detector failure should propagate, got %v", err)
	}
}
