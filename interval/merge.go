package interval

// Interval is a (start, end) pair on a single chromosome.  Whether the ends
// are open or closed is up to the caller.
type Interval struct {
	Start PosType
	End   PosType
}

// IsSorted reports whether intervals are in nondecreasing order of Start.
func IsSorted(intervals []Interval) bool {
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start < intervals[i-1].Start {
			return false
		}
	}
	return true
}

// Merge collapses a Start-sorted interval list: two intervals end up in the
// same output interval iff they are connected by a chain of consecutive
// entries with next.Start - current.End <= gap, where current.End is the end
// of the running merged interval.  The result has strictly increasing starts
// and any two neighbors are more than gap apart, so merging it again with the
// same gap is a no-op.
//
// The input is not modified.  Sorting is the caller's responsibility.
func Merge(intervals []Interval, gap PosType) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	merged := make([]Interval, 0, len(intervals))
	open := intervals[0]
	for _, next := range intervals[1:] {
		if next.Start-open.End <= gap {
			if next.End > open.End {
				open.End = next.End
			}
			continue
		}
		merged = append(merged, open)
		open = next
	}
	return append(merged, open)
}

// Shift returns a copy of intervals with delta added to both ends.
func Shift(intervals []Interval, delta PosType) []Interval {
	if intervals == nil {
		return nil
	}
	shifted := make([]Interval, len(intervals))
	for i, iv := range intervals {
		shifted[i] = Interval{Start: iv.Start + delta, End: iv.End + delta}
	}
	return shifted
}
