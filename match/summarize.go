package match

import (
	"bytes"
	"strconv"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/archaic/variants"
	"github.com/grailbio/base/tsv"
	"github.com/shopspring/decimal"
)

// FractionDigits is the number of decimal digits kept in a match fraction.
const FractionDigits = 6

// Region is a summary query: one BED interval, read as (Start, End], for one
// haplotype of one individual.
type Region struct {
	interval.Entry
	// Haplotype is 1 or 2.
	Haplotype  int
	Individual string
}

// ArchaicMatch holds the statistics of a region against one archaic table.
// Counts are kept in half units so that the normalization of the diploid
// archaic dosage by 2 stays exact.
type ArchaicMatch struct {
	// VariantsHalf is twice the archaic variant count.
	VariantsHalf int64
	// MatchesHalf is twice the match count.
	MatchesHalf int64
	// Fraction is the match count divided by the number of sites, rounded to
	// FractionDigits (half to even).  It is only meaningful if Defined.
	Fraction decimal.Decimal
	// Defined is false when the region had no sites.
	Defined bool
}

// SummaryRecord is the result of Summarize.
type SummaryRecord struct {
	Region
	// Sites is the number of modern sites with a non-missing call in the
	// region.
	Sites int
	// Variants is the sum of the modern dosages over those sites.
	Variants int
	// Archaic has one entry per archaic table, in the order they were passed
	// to Summarize.
	Archaic []ArchaicMatch
}

// Summarize computes match statistics of one haplotype of one individual
// within a region.
//
// A modern site is selected iff it lies on region.Chrom with
// Start < pos <= End and its call for the haplotype is not missing.  Each
// archaic table is left-joined on VariantKey; sites absent from a table
// count as archaic dosage 0.  On sites where the archaic table flipped
// polarity, the modern dosage is flipped too (1 - d) so that matches count
// shared derived alleles.
//
// An individual not in the modern table yields a record with no sites.
func Summarize(region Region, modern *variants.ModernTable, archaic ...*variants.ArchaicTable) SummaryRecord {
	rec := SummaryRecord{Region: region, Archaic: make([]ArchaicMatch, len(archaic))}
	indiv, ok := modern.IndividualIndex(region.Individual)
	if ok {
		modern.SitesInRange(region.Chrom, region.Start, region.End, func(row int) bool {
			d := modern.Call(indiv, row).Haplotype(region.Haplotype)
			if d == vcf.Missing {
				return false
			}
			rec.Sites++
			rec.Variants += int(d)
			key := modern.Site(row)
			for i, a := range archaic {
				arow, found := a.Lookup(key)
				if !found {
					continue
				}
				m := &rec.Archaic[i]
				m.VariantsHalf += int64(arow.Dosage)
				md := d
				if arow.Flipped {
					md = 1 - d
				}
				m.MatchesHalf += int64(arow.Dosage) * int64(md)
			}
			return false
		})
	}
	if rec.Sites > 0 {
		denom := decimal.New(2*int64(rec.Sites), 0)
		for i := range rec.Archaic {
			m := &rec.Archaic[i]
			m.Fraction = decimal.New(m.MatchesHalf, 0).Div(denom).RoundBank(FractionDigits)
			m.Defined = true
		}
	}
	return rec
}

// appendHalf renders a half-unit count the way a float would print: "3.0",
// "1.5".
func appendHalf(buf []byte, half int64) []byte {
	buf = strconv.AppendInt(buf, half/2, 10)
	if half%2 == 0 {
		return append(buf, ".0"...)
	}
	return append(buf, ".5"...)
}

// appendFraction renders d in fixed notation with at least one fractional
// digit: "0.0", "0.2", "1.0", "0.333333".
func appendFraction(buf []byte, d decimal.Decimal) []byte {
	s := d.String()
	buf = append(buf, s...)
	if d.Equal(d.Truncate(0)) {
		buf = append(buf, ".0"...)
	}
	return buf
}

// Write appends the record as one line to w:
//
//   chrom start end sites variants [archaic_variants matches fraction]...
//
// where an undefined fraction is written as "nan".
func (r *SummaryRecord) Write(w *tsv.Writer) error {
	var buf [32]byte
	w.WriteInt64(int64(r.Chrom))
	w.WriteInt64(int64(r.Start))
	w.WriteInt64(int64(r.End))
	w.WriteInt64(int64(r.Sites))
	w.WriteInt64(int64(r.Variants))
	for _, m := range r.Archaic {
		w.WriteBytes(appendHalf(buf[:0], m.VariantsHalf))
		w.WriteBytes(appendHalf(buf[:0], m.MatchesHalf))
		if m.Defined {
			w.WriteBytes(appendFraction(buf[:0], m.Fraction))
		} else {
			w.WriteString("nan")
		}
	}
	return w.EndLine()
}

// Format returns the line written by Write, including the newline.
func (r *SummaryRecord) Format() string {
	var b bytes.Buffer
	w := tsv.NewWriter(&b)
	if err := r.Write(w); err != nil {
		panic(err)
	}
	if err := w.Flush(); err != nil {
		panic(err)
	}
	return b.String()
}
