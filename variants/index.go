package variants

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/archaic/interval"
)

// siteRef orders the sites of a ModernTable by (chrom, pos, row).  The row
// index keeps duplicate positions distinct in the tree.
type siteRef struct {
	chrom int32
	pos   interval.PosType
	row   int
}

// Compare implements llrb.Comparable.
func (s siteRef) Compare(c llrb.Comparable) int {
	s2 := c.(siteRef)
	if s.chrom != s2.chrom {
		if s.chrom < s2.chrom {
			return -1
		}
		return 1
	}
	if s.pos != s2.pos {
		if s.pos < s2.pos {
			return -1
		}
		return 1
	}
	return s.row - s2.row
}

// positionIndex answers "which rows lie on chrom within (start, end]" in
// O(log n + k).
type positionIndex struct {
	tree llrb.Tree
}

func newPositionIndex(sites []VariantKey) *positionIndex {
	idx := &positionIndex{}
	for row, k := range sites {
		idx.tree.Insert(siteRef{chrom: k.Chrom, pos: k.Pos, row: row})
	}
	return idx
}

// do calls fn for every row on chrom with start < pos <= end, in
// (pos, row) order.  Iteration stops early if fn returns true.
func (idx *positionIndex) do(chrom int32, start, end interval.PosType, fn func(row int) (done bool)) {
	if end <= start {
		return
	}
	from := siteRef{chrom: chrom, pos: start + 1}
	to := siteRef{chrom: chrom, pos: end + 1}
	idx.tree.DoRange(func(c llrb.Comparable) bool {
		return fn(c.(siteRef).row)
	}, from, to)
}
