package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"chapterize/internal/silence"
)

var (
	silenceStartRE = regexp.MustCompile(`\[silencedetect [^\]]*\] silence_start: ([0-9.]+)`)
	silenceEndRE   = regexp.MustCompile(`\[silencedetect [^\]]*\] silence_end: ([0-9.]+)`)
)

// parseSilences extracts silence intervals from ffmpeg silencedetect
// diagnostics. The filter logs a silence_start line followed by a matching
// silence_end line per interval; a trailing silence_start with no end (file
// ends inside silence) is discarded.
func parseSilences(output []byte) ([]silence.Interval, error) {
	var (
		intervals []silence.Interval
		start     float64
		open      bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := silenceStartRE.FindStringSubmatch(line); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse silence_start %q: %w", m[1], err)
			}
			start = value
			open = true
			continue
		}
		if m := silenceEndRE.FindStringSubmatch(line); m != nil && open {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse silence_end %q: %w", m[1], err)
			}
			intervals = append(intervals, silence.Interval{Start: start, End: value})
			open = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan silencedetect output: %w", err)
	}
	return intervals, nil
}

func combinedOutput(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec
	return c.CombinedOutput()
}
