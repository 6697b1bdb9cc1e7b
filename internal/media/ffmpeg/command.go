package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"chapterize/internal/services"
)

// Command is a fully resolved external invocation.
type Command struct {
	Binary string
	Args   []string
}

// Shell renders the command as a single shell line with every argument
// single-quoted, suitable for the recorded command scripts.
func (c Command) Shell() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Binary)
	for _, arg := range c.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// Runner is the execution target chosen once per run: commands either run in
// process or are recorded as script lines.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner invokes commands synchronously, failing on any non-zero exit
// with the tool's diagnostic output preserved.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec
	if output, err := c.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", cmd.Binary,
			strings.TrimSpace(string(output)), err)
	}
	return nil
}

// ScriptRunner records commands as shell lines instead of running them.
type ScriptRunner struct {
	w *bufio.Writer
}

// NewScriptRunner wraps w as a command recording target.
func NewScriptRunner(w io.Writer) *ScriptRunner {
	return &ScriptRunner{w: bufio.NewWriter(w)}
}

func (s *ScriptRunner) Run(_ context.Context, cmd Command) error {
	if _, err := s.w.WriteString(cmd.Shell() + "\n"); err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// Flush writes any buffered script lines through to the underlying writer.
func (s *ScriptRunner) Flush() error {
	return s.w.Flush()
}

// formatSeconds renders a float seconds value for a command line without
// losing precision.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
