package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSilence(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSilence() error {
	if c.Silence.MinDuration <= 0 {
		return errors.New("silence.min_duration must be positive")
	}
	if c.Silence.NoiseFloor <= 0 || c.Silence.NoiseFloor > 1 {
		return errors.New("silence.noise_floor must be in (0, 1]")
	}
	if c.Silence.GapThreshold <= 0 {
		return errors.New("silence.gap_threshold must be positive")
	}
	if c.Silence.MaxChapterHeader <= 0 {
		return errors.New("silence.max_chapter_header must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
