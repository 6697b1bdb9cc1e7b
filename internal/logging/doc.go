// Package logging constructs the slog loggers used across chapterize.
//
// Two output formats are supported: a human-oriented console handler that
// colors levels when attached to a terminal, and a JSON handler for log
// files. Context helpers stamp the active pass, source file, and run
// correlation ID onto every record.
package logging
