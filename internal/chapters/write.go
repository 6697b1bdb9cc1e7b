package chapters

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"chapterize/internal/silence"
)

// Record is one boundary entry destined for an annotation file. Preview is a
// ready-to-run playback command bracketing the boundary region for manual
// review; Intervals are the raw detections behind the boundary.
type Record struct {
	Preview   string
	Name      string
	Start     float64
	Intervals []silence.Interval
}

// Write emits annotation records in order. The output fully replaces any
// previous file contents: names carried into records survive, everything
// else is regenerated.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, record := range records {
		fmt.Fprintln(bw, recordStart)
		if record.Preview != "" {
			fmt.Fprintf(bw, "CMD: %s\n", record.Preview)
		}
		fmt.Fprintf(bw, "NAME: %s\n", record.Name)
		fmt.Fprintf(bw, "START: %s\n", FormatOffset(record.Start))
		for _, interval := range record.Intervals {
			fmt.Fprintf(bw, "%s ... %s\n", FormatOffset(interval.Start), FormatOffset(interval.End))
		}
		fmt.Fprintln(bw, recordEnd)
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteFile replaces the annotation file for source.
func WriteFile(source string, records []Record) error {
	f, err := os.Create(FilePath(source))
	if err != nil {
		return fmt.Errorf("create annotation: %w", err)
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
