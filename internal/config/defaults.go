package config

const (
	defaultOutputDir        = "."
	defaultLogDir           = "~/.local/share/chapterize/logs"
	defaultCacheDir         = "~/.cache/chapterize"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultFFplayBinary     = "ffplay"
	defaultMinDuration      = 1.5
	defaultNoiseFloor       = 0.001
	defaultGapThreshold     = 2.0
	defaultMaxChapterHeader = 2.0
	defaultTitle            = "Audiobook"
	defaultCachePath        = "~/.cache/chapterize/detections.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			CacheDir:  defaultCacheDir,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			FFplayBinary:  defaultFFplayBinary,
		},
		Silence: Silence{
			MinDuration:      defaultMinDuration,
			NoiseFloor:       defaultNoiseFloor,
			GapThreshold:     defaultGapThreshold,
			MaxChapterHeader: defaultMaxChapterHeader,
		},
		Split: Split{
			Title: defaultTitle,
		},
		DetectionCache: DetectionCache{
			Enabled: true,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
