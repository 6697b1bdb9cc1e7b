// Package finder implements the boundary-detection pass: it detects
// silences in one source file, groups them into boundary candidates, and
// rewrites the annotation file while carrying over any chapter names a
// reviewer has already entered.
package finder
