package interval

// Cursor supports membership queries of nondecreasing positions against a
// sorted list of left-closed right-open intervals.  It only moves forward, so
// a full pass over n positions and m intervals costs O(n + m).
//
// For example, given the intervals
//   [10, 20)
//   [30, 50)
// the queries 5, 15, 20, 35, 61, 40 return
//   false true false true false false.
// The last query returns false because the cursor has already moved past
// every interval; there is no backtracking.
type Cursor struct {
	intervals []Interval
	idx       int
}

// NewCursor returns a Cursor positioned on the first interval.
func NewCursor(intervals []Interval) Cursor {
	return Cursor{intervals: intervals}
}

// Contains advances past every interval whose end is <= pos, then reports
// whether pos lies in the current interval.
func (c *Cursor) Contains(pos PosType) bool {
	for c.idx < len(c.intervals) && pos >= c.intervals[c.idx].End {
		c.idx++
	}
	if c.Finished() {
		return false
	}
	return pos >= c.intervals[c.idx].Start
}

// Finished returns whether we're past all the intervals.
func (c *Cursor) Finished() bool {
	return c.idx >= len(c.intervals)
}
