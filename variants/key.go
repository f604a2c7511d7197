// Package variants builds the in-memory genotype tables compared by the
// matcher: a modern table of phased per-haplotype calls accumulated across
// any number of VCF files, and single-sample archaic tables keyed by site.
package variants

import (
	"fmt"

	"github.com/grailbio/archaic/interval"
)

// VariantKey identifies a biallelic SNP.  Two keys refer to the same site
// iff all four fields are equal.
type VariantKey struct {
	Chrom int32
	Pos   interval.PosType
	Ref   byte
	Alt   byte
}

func (k VariantKey) String() string {
	return fmt.Sprintf("%d:%d:%c>%c", k.Chrom, k.Pos, k.Ref, k.Alt)
}

func newKey(chrom int32, pos interval.PosType, ref, alt []byte) VariantKey {
	return VariantKey{Chrom: chrom, Pos: pos, Ref: ref[0], Alt: alt[0]}
}
