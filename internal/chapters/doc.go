// Package chapters reads and writes the sidecar annotation files that record
// detected chapter boundaries (<source>-chapters.txt).
//
// The format is line oriented UTF-8: records are delimited by CHAPTER and END
// lines, and each record is a sequence of "Key: value" lines with
// case-insensitive keys. START (seconds) is required; NAME is the only field
// a human edits between runs. Everything else in a record (the playback
// preview command, raw interval dumps) is informational and regenerated by
// the find pass, so unknown keys are ignored on load.
package chapters
