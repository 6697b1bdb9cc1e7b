package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBinaries()
	c.normalizeSplit()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.DetectionCache.Path) == "" {
		c.DetectionCache.Path = defaultCachePath
	}
	if c.DetectionCache.Path, err = expandPath(c.DetectionCache.Path); err != nil {
		return fmt.Errorf("detection_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBinaries() {
	if strings.TrimSpace(c.FFmpeg.Binary) == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.FFmpeg.FFplayBinary) == "" {
		c.FFmpeg.FFplayBinary = defaultFFplayBinary
	}
}

func (c *Config) normalizeSplit() {
	c.Split.Title = strings.TrimSpace(c.Split.Title)
	if c.Split.Title == "" {
		c.Split.Title = defaultTitle
	}
	ext := strings.TrimSpace(c.Split.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Split.Extension = ext
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
