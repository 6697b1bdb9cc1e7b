// Package services defines shared utilities consumed by the find and split
// pipelines and the external ffmpeg integrations.
//
// Key responsibilities:
//   - Context helpers that stamp the active pass, source file, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification consistent across the pipelines.
package services
