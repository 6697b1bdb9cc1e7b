package silence

// Interval is a single detected stretch of silence, in seconds from the start
// of the source file. Start is strictly less than End. The detector emits
// intervals in chronological, non-overlapping order.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Group is a non-empty run of consecutive intervals judged to belong to the
// same chapter-boundary region.
type Group struct {
	Intervals []Interval
}

// Start returns the position where the chapter following this boundary
// begins. A singleton group is treated as silence before the first chapter,
// so the chapter starts at time zero; otherwise the chapter starts where the
// group's first silence ends.
func (g Group) Start() float64 {
	if len(g.Intervals) == 1 {
		return 0
	}
	return g.Intervals[0].End
}

// End returns the start of the group's last interval.
func (g Group) End() float64 {
	return g.Intervals[len(g.Intervals)-1].Start
}

// Duration returns the span of the boundary region in seconds.
func (g Group) Duration() float64 {
	return g.End() - g.Start()
}

// GroupIntervals partitions intervals, in order, into boundary-region groups.
// A new group starts whenever the gap between an interval's start and the
// previous interval's end reaches gapThreshold seconds; the comparison is
// inclusive, so a gap of exactly gapThreshold splits. Every interval lands in
// exactly one group and concatenating the groups reproduces the input.
//
// An empty input yields an empty slice, not a single empty group.
func GroupIntervals(intervals []Interval, gapThreshold float64) []Group {
	if len(intervals) == 0 {
		return nil
	}

	groups := make([]Group, 0, len(intervals))
	current := []Interval{intervals[0]}
	for _, interval := range intervals[1:] {
		prev := current[len(current)-1]
		if interval.Start-prev.End >= gapThreshold {
			groups = append(groups, Group{Intervals: current})
			current = []Interval{interval}
			continue
		}
		current = append(current, interval)
	}
	return append(groups, Group{Intervals: current})
}

// Candidates filters groups to chapter-boundary candidates. A group
// qualifies when it contains more than one interval, or when its single
// interval starts within headerThreshold seconds of time zero (an opening
// silence before the first chapter). Stray isolated silences elsewhere are
// rejected as noise.
func Candidates(groups []Group, headerThreshold float64) []Group {
	kept := make([]Group, 0, len(groups))
	for _, group := range groups {
		if len(group.Intervals) > 1 || group.Intervals[0].Start < headerThreshold {
			kept = append(kept, group)
		}
	}
	return kept
}
