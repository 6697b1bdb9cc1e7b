// Package silence models detected silence intervals and groups consecutive
// intervals into candidate chapter-boundary regions.
package silence
