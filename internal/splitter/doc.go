// Package splitter implements the split pass: it loads each source file's
// annotations, assembles the output chapter plan, and extracts the chapters
// via stream-copy cuts and lossless joins. A run either executes ffmpeg
// directly or records the equivalent commands to script files.
package splitter
