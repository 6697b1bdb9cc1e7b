package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a non-zero exit or I/O failure from ffmpeg,
	// ffprobe, or another external binary. Always fatal; the tool's own
	// diagnostic output is carried verbatim in the wrapped error.
	ErrExternalTool = errors.New("external tool error")
	// ErrValidation marks malformed user input, such as an annotation
	// block missing its start offset.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration values.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a missing required file, such as the annotation
	// sidecar for a requested source.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes pass context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, pass, operation, message string, err error) error {
	detail := buildDetail(pass, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(pass, operation, message string) string {
	parts := make([]string, 0, 3)
	if pass = strings.TrimSpace(pass); pass != "" {
		parts = append(parts, pass)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
