// Package textutil provides text normalization helpers for chapter names:
// filesystem-safe tokens for output filenames and title casing for track
// metadata.
package textutil
