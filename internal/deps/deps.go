// Package deps reports the availability of the external binaries chapterize
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"chapterize/internal/config"
)

// Requirement defines an external dependency chapterize relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external binaries for the configured toolchain.
// ffplay is optional: it only powers the preview commands written into
// annotation files.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpeg.Binary, Description: "Silence detection, cutting, and concatenation"},
		{Name: "FFprobe", Command: cfg.FFmpeg.FFprobeBinary, Description: "Input inspection"},
		{Name: "FFplay", Command: cfg.FFmpeg.FFplayBinary, Description: "Boundary preview playback", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
