// Package ffprobe provides a typed wrapper around ffprobe JSON output,
// used to report source duration and verify inputs are audio before
// detection runs.
package ffprobe
