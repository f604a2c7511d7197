package interval

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func ivs(pairs ...PosType) []Interval {
	result := make([]Interval, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		result = append(result, Interval{Start: pairs[i], End: pairs[i+1]})
	}
	return result
}

func TestMerge(t *testing.T) {
	input := ivs(100, 105, 104, 115, 116, 120, 125, 140, 160, 180)
	tests := []struct {
		gap  PosType
		want []Interval
	}{
		{0, ivs(100, 115, 116, 120, 125, 140, 160, 180)},
		{1, ivs(100, 120, 125, 140, 160, 180)},
		{5, ivs(100, 140, 160, 180)},
		{20, ivs(100, 180)},
	}
	for _, tt := range tests {
		got := Merge(input, tt.gap)
		expect.EQ(t, got, tt.want, "gap %d", tt.gap)
		// Merging the result again must not change it.
		expect.EQ(t, Merge(got, tt.gap), got, "gap %d (idempotence)", tt.gap)
	}
	// The input slice is left alone.
	expect.EQ(t, input, ivs(100, 105, 104, 115, 116, 120, 125, 140, 160, 180))
}

func TestMergeChainedPairs(t *testing.T) {
	expect.EQ(t, Merge(ivs(100, 105, 104, 115, 116, 120), 0), ivs(100, 115, 116, 120))
	expect.EQ(t, Merge(ivs(100, 105, 104, 115, 116, 120), 1), ivs(100, 120))
}

func TestMergeLast(t *testing.T) {
	// The final interval must be folded into the open one, not appended.
	expect.EQ(t, Merge(ivs(100, 105, 106, 115, 114, 120), 0), ivs(100, 105, 106, 120))
}

func TestMergeContained(t *testing.T) {
	// A contained interval must not shrink the running end.
	expect.EQ(t, Merge(ivs(10, 100, 20, 30, 99, 101), 0), ivs(10, 101))
}

func TestMergeEmpty(t *testing.T) {
	expect.EQ(t, len(Merge(nil, 3)), 0)
	expect.EQ(t, Merge(ivs(1, 2), 3), ivs(1, 2))
}

func TestIsSorted(t *testing.T) {
	expect.True(t, IsSorted(nil))
	expect.True(t, IsSorted(ivs(1, 5, 1, 3, 4, 10)))
	expect.False(t, IsSorted(ivs(4, 5, 1, 3)))
}

func TestShift(t *testing.T) {
	expect.EQ(t, Shift(ivs(10, 20, 30, 50), 1), ivs(11, 21, 31, 51))
	expect.True(t, Shift(nil, 1) == nil)
	expect.EQ(t, len(Shift([]Interval{}, 1)), 0)
}
