package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"chapterize/internal/services"
	"chapterize/internal/silence"
)

// Metadata is one ordered key/value pair passed to ffmpeg as -metadata.
type Metadata struct {
	Key   string
	Value string
}

// Client builds ffmpeg invocations against a configured binary.
type Client struct {
	binary string
}

// NewClient returns a client for the given ffmpeg binary, defaulting to
// "ffmpeg" from PATH.
func NewClient(binary string) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Client{binary: binary}
}

// DetectSilences runs the silencedetect filter over path and parses the
// detected intervals from ffmpeg's diagnostic output. minDuration is the
// shortest silence reported, in seconds; noiseFloor is the amplitude
// threshold below which audio counts as silent. Detection always executes in
// process; only the cut and concat phases honor a recording Runner.
func (c *Client) DetectSilences(ctx context.Context, path string, minDuration, noiseFloor float64) ([]silence.Interval, error) {
	cmd := Command{
		Binary: c.binary,
		Args: []string{
			"-hide_banner",
			"-i", path,
			"-af", fmt.Sprintf("silencedetect=d=%s:noise=%s", formatSeconds(minDuration), formatSeconds(noiseFloor)),
			"-f", "null", "-",
		},
	}

	output, err := combinedOutput(ctx, cmd)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "find", "silencedetect",
			strings.TrimSpace(string(output)), err)
	}
	return parseSilences(output)
}

// CutCommand builds a stream-copy extraction of one segment. A nil start
// cuts from the beginning of the file; a nil duration cuts to its end.
// Metadata pairs are applied in order.
func (c *Client) CutCommand(source string, start, duration *float64, output string, metadata []Metadata) Command {
	args := []string{"-y", "-i", source}
	args = append(args, metadataArgs(metadata)...)
	args = append(args, "-loglevel", "quiet", "-c", "copy")
	if start != nil {
		args = append(args, "-ss", formatSeconds(*start))
	}
	if duration != nil {
		args = append(args, "-t", formatSeconds(*duration))
	}
	args = append(args, output)
	return Command{Binary: c.binary, Args: args}
}

// ConcatCommand builds a lossless stream-level join of same-format inputs,
// in order, using the concat protocol.
func (c *Client) ConcatCommand(sources []string, output string, metadata []Metadata) Command {
	args := []string{"-y", "-i", "concat:" + strings.Join(sources, "|")}
	args = append(args, metadataArgs(metadata)...)
	args = append(args, "-c", "copy", "-loglevel", "quiet", output)
	return Command{Binary: c.binary, Args: args}
}

func metadataArgs(metadata []Metadata) []string {
	args := make([]string, 0, len(metadata)*2)
	for _, m := range metadata {
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", m.Key, m.Value))
	}
	return args
}

// PreviewCommand renders an ffplay command line that plays the boundary
// region [start, start+duration) for manual review.
func PreviewCommand(binary, input string, start, duration float64) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffplay"
	}
	return fmt.Sprintf("%s -i %q -ss %.2f -t %.2f -autoexit -loglevel quiet",
		binary, input, start, duration)
}
