package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/services"
)

// fakeRunner records commands and creates each command's output file so the
// temporary cleanup path has something to remove.
type fakeRunner struct {
	commands []ffmpeg.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd ffmpeg.Command) error {
	f.commands = append(f.commands, cmd)
	output := cmd.Args[len(cmd.Args)-1]
	return os.WriteFile(output, nil, 0o644)
}

func writeAnnotation(t *testing.T, source, content string) {
	t.Helper()
	if err := os.WriteFile(chapters.FilePath(source), []byte(content), 0o644); err != nil {
		t.Fatalf("write annotation: %v", err)
	}
}

func newTestSplitter(t *testing.T) *Splitter {
	t.Helper()
	cfg := config.Default()
	return New(&cfg, logging.NewNop())
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read script %s: %v", path, err)
	}
	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestRunRecordsCommands(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	outDir := filepath.Join(dir, "out")

	writeAnnotation(t, a, "CHAPTER\nNAME: intro\nSTART: 10.5\nEND\n\nCHAPTER\nNAME: middle\nSTART: 100\nEND\n")
	writeAnnotation(t, b, "CHAPTER\nNAME: ending\nSTART: 30\nEND\n")

	s := newTestSplitter(t)
	prefix := filepath.Join(dir, "book")
	results, err := s.Run(context.Background(), []string{a, b}, Options{
		OutputDir:      outDir,
		Title:          "Book",
		CommandsPrefix: prefix,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(results))
	}

	tmp0 := filepath.Join(outDir, "ch01-middle-tmp0.mp3")
	tmp1 := filepath.Join(outDir, "ch01-middle-tmp1.mp3")
	wantCut := []string{
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-metadata' 'title=Book ch0 - Intro' '-metadata' 'track=1' '-loglevel' 'quiet' '-c' 'copy' '-ss' '10.5' '-t' '89.5' '%s'",
			a, filepath.Join(outDir, "ch00-intro.mp3")),
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-loglevel' 'quiet' '-c' 'copy' '-ss' '100' '%s'", a, tmp0),
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-loglevel' 'quiet' '-c' 'copy' '-t' '30' '%s'", b, tmp1),
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-metadata' 'title=Book ch2 - Ending' '-metadata' 'track=3' '-loglevel' 'quiet' '-c' 'copy' '-ss' '30' '%s'",
			b, filepath.Join(outDir, "ch02-ending.mp3")),
	}
	gotCut := readLines(t, prefix+"-1-cut")
	if len(gotCut) != len(wantCut) {
		t.Fatalf("cut script has %d lines, want %d:\n%s", len(gotCut), len(wantCut), strings.Join(gotCut, "\n"))
	}
	for i := range wantCut {
		if gotCut[i] != wantCut[i] {
			t.Errorf("cut line %d:\n got %s\nwant %s", i, gotCut[i], wantCut[i])
		}
	}

	wantConcat := []string{
		fmt.Sprintf("ffmpeg '-y' '-i' 'concat:%s|%s' '-metadata' 'title=Book ch1 - Middle' '-metadata' 'track=2' '-c' 'copy' '-loglevel' 'quiet' '%s'",
			tmp0, tmp1, filepath.Join(outDir, "ch01-middle.mp3")),
	}
	gotConcat := readLines(t, prefix+"-2-concat")
	if len(gotConcat) != 1 || gotConcat[0] != wantConcat[0] {
		t.Errorf("concat script:\n got %s\nwant %s", strings.Join(gotConcat, "\n"), wantConcat[0])
	}

	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Errorf("dry run should not create the output directory")
	}
}

func TestRunRecordsSpanningPreambleCuts(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	outDir := filepath.Join(dir, "out")

	writeAnnotation(t, a, "")
	writeAnnotation(t, b, "CHAPTER\nNAME: one\nSTART: 20\nEND\n")

	s := newTestSplitter(t)
	prefix := filepath.Join(dir, "book")
	results, err := s.Run(context.Background(), []string{a, b}, Options{
		OutputDir:      outDir,
		Title:          "Book",
		CommandsPrefix: prefix,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "one" {
		t.Fatalf("unexpected results: %+v", results)
	}

	wantCut := []string{
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-loglevel' 'quiet' '-c' 'copy' '%s'",
			a, filepath.Join(outDir, "preamble-tmp0.mp3")),
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-loglevel' 'quiet' '-c' 'copy' '-t' '20' '%s'",
			b, filepath.Join(outDir, "preamble-tmp1.mp3")),
		fmt.Sprintf("ffmpeg '-y' '-i' '%s' '-metadata' 'title=Book ch0 - One' '-metadata' 'track=1' '-loglevel' 'quiet' '-c' 'copy' '-ss' '20' '%s'",
			b, filepath.Join(outDir, "ch00-one.mp3")),
	}
	gotCut := readLines(t, prefix+"-1-cut")
	if len(gotCut) != len(wantCut) {
		t.Fatalf("cut script has %d lines, want %d:\n%s", len(gotCut), len(wantCut), strings.Join(gotCut, "\n"))
	}
	for i := range wantCut {
		if gotCut[i] != wantCut[i] {
			t.Errorf("cut line %d:\n got %s\nwant %s", i, gotCut[i], wantCut[i])
		}
	}
	if lines := readLines(t, prefix+"-2-concat"); len(lines) != 0 {
		t.Errorf("concat script should be empty, got:\n%s", strings.Join(lines, "\n"))
	}
}

func TestRunExtractsAndRemovesTemporaries(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	outDir := filepath.Join(dir, "out")

	writeAnnotation(t, a, "CHAPTER\nNAME: middle\nSTART: 100\nEND\n")
	writeAnnotation(t, b, "CHAPTER\nNAME: ending\nSTART: 30\nEND\n")

	s := newTestSplitter(t)
	runner := &fakeRunner{}
	s.execRunner = runner

	results, err := s.Run(context.Background(), []string{a, b}, Options{OutputDir: outDir})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(results))
	}

	for _, name := range []string{"ch00-middle.mp3", "ch01-ending.mp3"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
	for _, name := range []string{"ch00-middle-tmp0.mp3", "ch00-middle-tmp1.mp3"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); !os.IsNotExist(err) {
			t.Errorf("temporary %s should have been removed", name)
		}
	}

	// one cut for middle's first segment, one for its second, the join,
	// then ending's single cut
	if len(runner.commands) != 4 {
		t.Fatalf("expected 4 commands, got %d", len(runner.commands))
	}
	if got := runner.commands[2].Args[2]; !strings.HasPrefix(got, "concat:") {
		t.Errorf("third command should join the temporaries, got input %q", got)
	}
}

func TestRunKeepsPreambleWhenRequested(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	outDir := filepath.Join(dir, "out")

	writeAnnotation(t, a, "CHAPTER\nNAME: first\nSTART: 10\nEND\n")

	s := newTestSplitter(t)
	runner := &fakeRunner{}
	s.execRunner = runner

	results, err := s.Run(context.Background(), []string{a}, Options{OutputDir: outDir, KeepPreamble: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(results))
	}
	if results[0].Name != "preamble" || results[0].Number != 0 {
		t.Errorf("unexpected first chapter: %+v", results[0])
	}
	for _, name := range []string{"ch00-preamble.mp3", "ch01-first.mp3"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
}

func TestRunFailsWithoutAnnotation(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")

	s := newTestSplitter(t)
	_, err := s.Run(context.Background(), []string{a}, Options{OutputDir: filepath.Join(dir, "out")})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunRefusesLockedOutputDir(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	outDir := filepath.Join(dir, "out")

	writeAnnotation(t, a, "CHAPTER\nNAME: first\nSTART: 10\nEND\n")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(outDir, ".chapterize.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	s := newTestSplitter(t)
	s.execRunner = &fakeRunner{}
	_, err = s.Run(context.Background(), []string{a}, Options{OutputDir: outDir})
	if err == nil || !strings.Contains(err.Error(), "another split") {
		t.Fatalf("expected lock contention error, got %v", err)
	}
}
