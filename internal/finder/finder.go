package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/detectcache"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffmpeg"
	"chapterize/internal/media/ffprobe"
	"chapterize/internal/services"
	"chapterize/internal/silence"
)

// Padding applied on both sides of a boundary region in the generated
// preview command, so the reviewer hears a sliver of the surrounding speech.
const previewPadding = 0.1

// Detector produces silence intervals for a source file.
type Detector interface {
	DetectSilences(ctx context.Context, path string, minDuration, noiseFloor float64) ([]silence.Interval, error)
}

// Cache reuses detection results across runs. Implementations may be nil-free
// no-ops; the finder treats cache failures as advisory.
type Cache interface {
	Lookup(ctx context.Context, key detectcache.Key) ([]silence.Interval, bool, error)
	Store(ctx context.Context, key detectcache.Key, intervals []silence.Interval) error
}

// ProbeFunc inspects a media file; wired to ffprobe.Inspect in production.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Boundary summarizes one detected chapter boundary for display.
type Boundary struct {
	Start     float64
	Duration  float64
	Name      string
	Intervals int
}

// Finder runs the boundary-detection pass.
type Finder struct {
	cfg      *config.Config
	logger   *slog.Logger
	detector Detector
	cache    Cache
	probe    ProbeFunc
}

// New constructs a Finder. cache and probe may be nil to disable caching and
// input inspection.
func New(cfg *config.Config, logger *slog.Logger, detector Detector, cache Cache, probe ProbeFunc) *Finder {
	return &Finder{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "finder"),
		detector: detector,
		cache:    cache,
		probe:    probe,
	}
}

// Run detects chapter boundaries in input and rewrites its annotation file.
// Names previously entered for unchanged start offsets are preserved; every
// other field is regenerated. The returned boundaries are in file order.
func (f *Finder) Run(ctx context.Context, input string) ([]Boundary, error) {
	ctx = services.WithSource(ctx, input)
	logger := logging.WithContext(ctx, f.logger)

	if f.probe != nil {
		probed, err := f.probe(ctx, f.cfg.FFmpeg.FFprobeBinary, input)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "find", "probe", input, err)
		}
		if probed.AudioStreamCount() == 0 {
			return nil, services.Wrap(services.ErrValidation, "find", "probe",
				fmt.Sprintf("%s has no audio streams", input), nil)
		}
		logger.Debug("input probed",
			logging.Float64("duration_seconds", probed.DurationSeconds()),
			logging.Int("audio_streams", probed.AudioStreamCount()),
		)
	}

	intervals, err := f.detect(ctx, logger, input)
	if err != nil {
		return nil, err
	}

	groups := silence.GroupIntervals(intervals, f.cfg.Silence.GapThreshold)
	candidates := silence.Candidates(groups, f.cfg.Silence.MaxChapterHeader)
	if len(candidates) == 0 {
		logger.Warn("no chapter boundaries detected",
			logging.Int("silences", len(intervals)),
		)
	}

	previous, err := loadPreviousNames(input)
	if err != nil {
		return nil, err
	}

	records := make([]chapters.Record, 0, len(candidates))
	boundaries := make([]Boundary, 0, len(candidates))
	for _, group := range candidates {
		previewStart := math.Max(0, group.Start()-previewPadding)
		record := chapters.Record{
			Preview: ffmpeg.PreviewCommand(f.cfg.FFmpeg.FFplayBinary, input,
				previewStart, group.Duration()+2*previewPadding),
			Name:      previous[group.Start()],
			Start:     group.Start(),
			Intervals: group.Intervals,
		}
		records = append(records, record)
		boundaries = append(boundaries, Boundary{
			Start:     group.Start(),
			Duration:  group.Duration(),
			Name:      record.Name,
			Intervals: len(group.Intervals),
		})
	}

	if err := chapters.WriteFile(input, records); err != nil {
		return nil, err
	}

	logger.Info("annotation file written",
		logging.String("file", chapters.FilePath(input)),
		logging.Int("boundaries", len(records)),
		logging.Int("named", len(previous)),
	)
	return boundaries, nil
}

func (f *Finder) detect(ctx context.Context, logger *slog.Logger, input string) ([]silence.Interval, error) {
	minDuration := f.cfg.Silence.MinDuration
	noiseFloor := f.cfg.Silence.NoiseFloor

	var key detectcache.Key
	useCache := false
	if f.cache != nil {
		k, err := detectcache.KeyFor(input, minDuration, noiseFloor)
		if err == nil {
			key = k
			useCache = true
			if cached, ok, lookupErr := f.cache.Lookup(ctx, key); lookupErr != nil {
				logger.Warn("detection cache lookup failed", logging.Error(lookupErr))
			} else if ok {
				logger.Debug("detection cache hit", logging.Int("silences", len(cached)))
				return cached, nil
			}
		}
	}

	intervals, err := f.detector.DetectSilences(ctx, input, minDuration, noiseFloor)
	if err != nil {
		return nil, err
	}
	logger.Debug("silences detected", logging.Int("silences", len(intervals)))

	if useCache {
		if err := f.cache.Store(ctx, key, intervals); err != nil {
			logger.Warn("detection cache store failed", logging.Error(err))
		}
	}
	return intervals, nil
}

// loadPreviousNames maps start offsets to names from an earlier annotation
// file for the same source. A missing file simply means a first run.
func loadPreviousNames(input string) (map[float64]string, error) {
	existing, err := chapters.LoadFile(input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return map[float64]string{}, nil
		}
		return nil, err
	}
	names := make(map[float64]string, len(existing))
	for _, chapter := range existing {
		names[chapter.Start] = chapter.Name
	}
	return names, nil
}
