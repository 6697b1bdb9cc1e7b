package chapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chapterize/internal/services"
)

// SpuriousName is the sentinel a reviewer writes into the NAME field to mark
// a detected boundary as a false positive. Records carrying it are discarded.
const SpuriousName = "*spurious*"

const (
	recordStart = "CHAPTER"
	recordEnd   = "END"
)

// Chapter is one named boundary parsed from an annotation file.
type Chapter struct {
	Source string
	Name   string
	Start  float64
}

// FilePath returns the annotation file path for a source audio file.
func FilePath(source string) string {
	return source + "-chapters.txt"
}

// Load parses the annotation records for source from r. Records with an
// empty or sentinel name are dropped; a record missing its START key is a
// hard error. Chapters are returned in file order.
func Load(r io.Reader, source string) ([]Chapter, error) {
	var (
		result []Chapter
		lines  []string
		record int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case recordStart:
			record++
			lines = lines[:0]
		case recordEnd:
			chapter, ok, err := fromLines(lines, source)
			if err != nil {
				return nil, services.Wrap(services.ErrValidation, "chapters", "load",
					fmt.Sprintf("%s record %d", FilePath(source), record), err)
			}
			if ok {
				result = append(result, chapter)
			}
		default:
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	return result, nil
}

// LoadFile opens and parses the annotation file for source. A missing file
// is reported with the ErrNotFound marker.
func LoadFile(source string) ([]Chapter, error) {
	f, err := os.Open(FilePath(source))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "chapters", "load", FilePath(source), err)
		}
		return nil, fmt.Errorf("open annotation: %w", err)
	}
	defer f.Close()
	return Load(f, source)
}

// fromLines builds a Chapter from one record's key/value lines. The second
// return value is false when the record is deliberately skipped.
func fromLines(lines []string, source string) (Chapter, bool, error) {
	var (
		name     string
		start    float64
		hasStart bool
	)
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			// Raw interval dumps and other free-form lines.
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			name = value
		case "start":
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Chapter{}, false, fmt.Errorf("parse start %q: %w", value, err)
			}
			start = parsed
			hasStart = true
		}
	}
	if !hasStart {
		return Chapter{}, false, fmt.Errorf("missing start offset")
	}
	if name == "" || name == SpuriousName {
		return Chapter{}, false, nil
	}
	return Chapter{Source: source, Name: name, Start: start}, true, nil
}

// FormatOffset renders a start offset the way annotation files store it.
// The shortest representation that round-trips through ParseFloat is used,
// so rewriting a file preserves exact start matching.
func FormatOffset(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
