package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"chapterize/internal/assembly"
	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/services"
)

// Options controls one split run.
type Options struct {
	// OutputDir receives the chapter files (or is referenced by recorded
	// commands in dry-run mode).
	OutputDir string
	// Title is the album title embedded in chapter metadata.
	Title string
	// Extension overrides the output extension; empty derives it from the
	// first source file.
	Extension string
	// KeepPreamble numbers the audio before the first annotation as a
	// regular output chapter instead of discarding it.
	KeepPreamble bool
	// CommandsPrefix switches the run to dry-run mode: cut and join
	// commands are recorded to <prefix>-1-cut and <prefix>-2-concat and
	// no audio I/O happens.
	CommandsPrefix string
}

// Result summarizes one emitted chapter for display.
type Result struct {
	Number   int
	Name     string
	File     string
	Segments int
}

// Splitter runs the split pass.
type Splitter struct {
	cfg    *config.Config
	logger *slog.Logger
	client *ffmpeg.Client

	// execRunner performs in-process invocations; replaced in tests.
	execRunner ffmpeg.Runner
}

// New constructs a Splitter.
func New(cfg *config.Config, logger *slog.Logger) *Splitter {
	return &Splitter{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "splitter"),
		client:     ffmpeg.NewClient(cfg.FFmpeg.Binary),
		execRunner: ffmpeg.ExecRunner{},
	}
}

// Run splits the given sources, in order, into per-chapter files.
func (s *Splitter) Run(ctx context.Context, sources []string, opts Options) ([]Result, error) {
	logger := logging.WithContext(ctx, s.logger)

	files := make([]assembly.FileChapters, 0, len(sources))
	for _, source := range sources {
		loaded, err := chapters.LoadFile(source)
		if err != nil {
			return nil, err
		}
		logger.Debug("annotations loaded",
			logging.String("source", source),
			logging.Int("chapters", len(loaded)),
		)
		files = append(files, assembly.FileChapters{Source: source, Chapters: loaded})
	}

	outputs := assembly.Assemble(files)
	numbered := assembly.Number(outputs, opts.KeepPreamble)

	ext := s.outputExtension(opts, sources)
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = s.cfg.Split.Title
	}

	if opts.CommandsPrefix != "" {
		results, err := s.record(ctx, outputs, numbered, opts, ext, title)
		if err != nil {
			return nil, err
		}
		logger.Info("commands recorded",
			logging.String("cut_script", opts.CommandsPrefix+"-1-cut"),
			logging.String("concat_script", opts.CommandsPrefix+"-2-concat"),
			logging.Int("chapters", len(results)),
		)
		return results, nil
	}

	results, err := s.extract(ctx, logger, outputs, numbered, opts, ext, title)
	if err != nil {
		return nil, err
	}
	logger.Info("split complete",
		logging.String("output_dir", opts.OutputDir),
		logging.Int("chapters", len(results)),
	)
	return results, nil
}

// outputExtension picks the container extension for outputs and temporaries.
// Stream copy cannot change containers, so the source extension is the only
// safe default.
func (s *Splitter) outputExtension(opts Options, sources []string) string {
	if ext := strings.TrimSpace(opts.Extension); ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext
	}
	if s.cfg.Split.Extension != "" {
		return s.cfg.Split.Extension
	}
	if len(sources) > 0 {
		if ext := filepath.Ext(sources[0]); ext != "" {
			return ext
		}
	}
	return ".mp3"
}

// extract performs the cuts and joins in process, guarding the output
// directory against concurrent runs.
func (s *Splitter) extract(ctx context.Context, logger *slog.Logger, outputs []assembly.OutputChapter, numbered []assembly.Numbered, opts Options, ext, title string) ([]Result, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(opts.OutputDir, ".chapterize.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "split", "lock",
			fmt.Sprintf("another split is writing to %s", opts.OutputDir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	if err := s.preambleWork(ctx, outputs, opts, ext, s.execRunner, true); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(numbered))
	for _, chapter := range numbered {
		outPath := filepath.Join(opts.OutputDir, chapter.FileName(ext))
		metadata := chapterMetadata(chapter, title)

		if len(chapter.Segments) == 1 {
			logger.Info("writing chapter", logging.String("file", chapter.FileName(ext)))
			segment := chapter.Segments[0]
			cmd := s.client.CutCommand(segment.Source, segment.Start, segment.Duration, outPath, metadata)
			if err := s.execRunner.Run(ctx, cmd); err != nil {
				return nil, err
			}
		} else {
			tempPaths := make([]string, 0, len(chapter.Segments))
			for i, segment := range chapter.Segments {
				tempPath := filepath.Join(opts.OutputDir, chapter.TempFileName(i, ext))
				cmd := s.client.CutCommand(segment.Source, segment.Start, segment.Duration, tempPath, nil)
				if err := s.execRunner.Run(ctx, cmd); err != nil {
					return nil, err
				}
				tempPaths = append(tempPaths, tempPath)
			}
			logger.Info("joining chapter",
				logging.String("file", chapter.FileName(ext)),
				logging.Int("segments", len(chapter.Segments)),
			)
			if err := s.execRunner.Run(ctx, s.client.ConcatCommand(tempPaths, outPath, metadata)); err != nil {
				return nil, err
			}
			for _, tempPath := range tempPaths {
				if err := os.Remove(tempPath); err != nil {
					return nil, fmt.Errorf("remove temporary %s: %w", tempPath, err)
				}
			}
		}

		results = append(results, Result{
			Number:   chapter.Number,
			Name:     chapter.Name,
			File:     outPath,
			Segments: len(chapter.Segments),
		})
	}
	return results, nil
}

// record writes the equivalent shell commands to the two phase scripts
// instead of touching any audio.
func (s *Splitter) record(ctx context.Context, outputs []assembly.OutputChapter, numbered []assembly.Numbered, opts Options, ext, title string) ([]Result, error) {
	cutFile, err := os.Create(opts.CommandsPrefix + "-1-cut")
	if err != nil {
		return nil, fmt.Errorf("create cut script: %w", err)
	}
	defer cutFile.Close()
	concatFile, err := os.Create(opts.CommandsPrefix + "-2-concat")
	if err != nil {
		return nil, fmt.Errorf("create concat script: %w", err)
	}
	defer concatFile.Close()

	cutRunner := ffmpeg.NewScriptRunner(cutFile)
	concatRunner := ffmpeg.NewScriptRunner(concatFile)

	if err := s.preambleWork(ctx, outputs, opts, ext, cutRunner, false); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(numbered))
	for _, chapter := range numbered {
		outPath := filepath.Join(opts.OutputDir, chapter.FileName(ext))
		metadata := chapterMetadata(chapter, title)

		if len(chapter.Segments) == 1 {
			segment := chapter.Segments[0]
			cmd := s.client.CutCommand(segment.Source, segment.Start, segment.Duration, outPath, metadata)
			if err := cutRunner.Run(ctx, cmd); err != nil {
				return nil, err
			}
		} else {
			tempPaths := make([]string, 0, len(chapter.Segments))
			for i, segment := range chapter.Segments {
				tempPath := filepath.Join(opts.OutputDir, chapter.TempFileName(i, ext))
				cmd := s.client.CutCommand(segment.Source, segment.Start, segment.Duration, tempPath, nil)
				if err := cutRunner.Run(ctx, cmd); err != nil {
					return nil, err
				}
				tempPaths = append(tempPaths, tempPath)
			}
			if err := concatRunner.Run(ctx, s.client.ConcatCommand(tempPaths, outPath, metadata)); err != nil {
				return nil, err
			}
		}

		results = append(results, Result{
			Number:   chapter.Number,
			Name:     chapter.Name,
			File:     outPath,
			Segments: len(chapter.Segments),
		})
	}

	if err := cutRunner.Flush(); err != nil {
		return nil, err
	}
	if err := concatRunner.Flush(); err != nil {
		return nil, err
	}
	return results, nil
}

// preambleWork issues the cut commands for a dropped multi-segment preamble.
// The audio before the first annotation is discarded from the numbered
// output, but when it spans source files its per-file extraction still runs
// as intermediate work; removeTemps cleans up after an in-process run.
func (s *Splitter) preambleWork(ctx context.Context, outputs []assembly.OutputChapter, opts Options, ext string, cutRunner ffmpeg.Runner, removeTemps bool) error {
	if opts.KeepPreamble || len(outputs) == 0 {
		return nil
	}
	preamble := outputs[0]
	if len(preamble.Segments) < 2 {
		return nil
	}

	tempPaths := make([]string, 0, len(preamble.Segments))
	for i, segment := range preamble.Segments {
		tempPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s-tmp%d%s", assembly.PreambleName, i, ext))
		cmd := s.client.CutCommand(segment.Source, segment.Start, segment.Duration, tempPath, nil)
		if err := cutRunner.Run(ctx, cmd); err != nil {
			return err
		}
		tempPaths = append(tempPaths, tempPath)
	}
	if removeTemps {
		for _, tempPath := range tempPaths {
			if err := os.Remove(tempPath); err != nil {
				return fmt.Errorf("remove temporary %s: %w", tempPath, err)
			}
		}
	}
	return nil
}

func chapterMetadata(chapter assembly.Numbered, title string) []ffmpeg.Metadata {
	return []ffmpeg.Metadata{
		{Key: "title", Value: chapter.DisplayTitle(title)},
		{Key: "track", Value: strconv.Itoa(chapter.Track())},
	}
}
