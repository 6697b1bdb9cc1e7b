// Package main hosts the chapterize CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the two passes of the tool: "find"
// detects silence-based chapter boundaries and writes annotation files for
// review, "split" extracts the named chapters into per-chapter audio files.
// Configuration scaffolding and dependency checks live alongside them. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
