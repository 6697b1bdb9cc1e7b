// Package assembly turns per-file chapter annotations into an ordered plan of
// output chapters. A chapter may span a file boundary, in which case it is
// composed of several segments cut from consecutive source files.
package assembly
