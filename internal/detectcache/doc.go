// Package detectcache persists silencedetect results between find runs.
//
// Scanning a multi-hour audiobook is by far the slowest step of the find
// pass, and the pass is typically re-run several times while a reviewer
// fills in chapter names. Results are keyed by the source file's path, size,
// and modification time together with the detection thresholds, so any
// change to the audio or the configuration misses the cache.
package detectcache
