package assembly

import (
	"fmt"

	"chapterize/internal/chapters"
	"chapterize/internal/textutil"
)

// PreambleName labels audio that precedes the first named chapter.
const PreambleName = "preamble"

// Segment is a slice of one source file. A nil Start means "from the
// beginning of the file"; a nil Duration means "to the end of the file".
type Segment struct {
	Source   string
	Start    *float64
	Duration *float64
}

// OutputChapter is one assembled chapter, made of one or more segments in
// cut-and-join order.
type OutputChapter struct {
	Name     string
	Segments []Segment
}

// FileChapters pairs a source file with its annotated chapters, ordered by
// start offset.
type FileChapters struct {
	Source   string
	Chapters []chapters.Chapter
}

// Assemble folds the per-file chapter lists into output chapters, threading
// the currently open chapter across file boundaries. The first emitted
// chapter is always the preamble covering audio before the first annotation;
// callers decide whether to keep it (see Number).
//
// A file with no chapters belongs entirely to whatever chapter is open. A
// file with chapters closes the open chapter at its first annotation, emits
// a single-segment chapter per consecutive annotation pair, and reopens the
// accumulator at the last annotation with an open-ended duration.
func Assemble(files []FileChapters) []OutputChapter {
	var outputs []OutputChapter
	open := OutputChapter{Name: PreambleName}

	for _, file := range files {
		if len(file.Chapters) == 0 {
			open.Segments = append(open.Segments, Segment{Source: file.Source})
			continue
		}

		first := file.Chapters[0]
		if first.Start > 0 {
			duration := first.Start
			open.Segments = append(open.Segments, Segment{Source: file.Source, Duration: &duration})
		}
		outputs = append(outputs, open)

		for i := 0; i < len(file.Chapters)-1; i++ {
			chapter := file.Chapters[i]
			start := chapter.Start
			duration := file.Chapters[i+1].Start - chapter.Start
			outputs = append(outputs, OutputChapter{
				Name:     chapter.Name,
				Segments: []Segment{{Source: file.Source, Start: &start, Duration: &duration}},
			})
		}

		last := file.Chapters[len(file.Chapters)-1]
		start := last.Start
		open = OutputChapter{
			Name:     last.Name,
			Segments: []Segment{{Source: file.Source, Start: &start}},
		}
	}

	return append(outputs, open)
}

// Numbered is an output chapter that survived preamble filtering, carrying
// its final sequence number.
type Numbered struct {
	Number int
	OutputChapter
}

// Number assigns sequential numbers, starting at zero, to the chapters that
// make it into the final output. The leading preamble is dropped unless
// keepPreamble is set; chapters with no segments never produce output.
func Number(outputs []OutputChapter, keepPreamble bool) []Numbered {
	if len(outputs) == 0 {
		return nil
	}
	if !keepPreamble {
		outputs = outputs[1:]
	}
	numbered := make([]Numbered, 0, len(outputs))
	for _, output := range outputs {
		if len(output.Segments) == 0 {
			continue
		}
		numbered = append(numbered, Numbered{Number: len(numbered), OutputChapter: output})
	}
	return numbered
}

// FileName returns the output filename stem for a numbered chapter, e.g.
// "ch03-the long road.mp3".
func (n Numbered) FileName(ext string) string {
	return fmt.Sprintf("ch%02d-%s%s", n.Number, textutil.SanitizeFileName(n.Name), ext)
}

// TempFileName returns the deterministic per-chapter temporary name for the
// i-th segment cut, namespaced by the chapter so parallel cuts cannot
// collide.
func (n Numbered) TempFileName(i int, ext string) string {
	return fmt.Sprintf("ch%02d-%s-tmp%d%s", n.Number, textutil.SanitizeFileName(n.Name), i, ext)
}

// DisplayTitle renders the track title carried in output metadata.
func (n Numbered) DisplayTitle(album string) string {
	return fmt.Sprintf("%s ch%d - %s", album, n.Number, textutil.TitleCase(n.Name))
}

// Track returns the 1-based track metadata value.
func (n Numbered) Track() int {
	return n.Number + 1
}
