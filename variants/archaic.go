package variants

import (
	"io"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ArchaicOpts configures ImportArchaic.
type ArchaicOpts struct {
	// Polarize recodes each site so that dosage counts derived alleles, using
	// the ancestral allele annotated in INFO.  Sites without the annotation
	// are dropped.
	Polarize bool
	// AncestralKey is the INFO key holding the ancestral allele.
	AncestralKey string
}

// DefaultArchaicOpts is the default ImportArchaic configuration.
var DefaultArchaicOpts = ArchaicOpts{AncestralKey: "AA"}

// ArchaicRow is the genotype of the archaic sample at one site.
type ArchaicRow struct {
	Key VariantKey
	// Dosage is 0, 1 or 2.
	Dosage vcf.Dosage
	// Flipped is set when polarization found the ancestral allele to be ALT,
	// i.e. REF is the derived allele at this site.
	Flipped bool
}

// ArchaicStats counts what ImportArchaic did with each body line.
type ArchaicStats struct {
	Sites       int
	NonSNP      int
	Duplicate   int
	NoAncestral int
	// Flipped counts sites whose ancestral allele was ALT.
	Flipped int
	// Unpolarized counts sites whose ancestral allele was neither REF nor ALT.
	Unpolarized int
}

// ArchaicTable holds the single-sample calls of one archaic genome, indexed
// by VariantKey.
type ArchaicTable struct {
	Name  string
	Stats ArchaicStats
	rows  []ArchaicRow
	index map[VariantKey]int
}

// Len returns the number of sites.
func (t *ArchaicTable) Len() int { return len(t.rows) }

// Rows returns the sites in input order.
func (t *ArchaicTable) Rows() []ArchaicRow { return t.rows }

// Lookup finds the row for key.  If the input listed a key more than once,
// the first occurrence wins.
func (t *ArchaicTable) Lookup(key VariantKey) (ArchaicRow, bool) {
	i, ok := t.index[key]
	if !ok {
		return ArchaicRow{}, false
	}
	return t.rows[i], true
}

func (t *ArchaicTable) add(row ArchaicRow) {
	if _, ok := t.index[row.Key]; ok {
		t.Stats.Duplicate++
		return
	}
	t.index[row.Key] = len(t.rows)
	t.rows = append(t.rows, row)
	t.Stats.Sites++
}

// upper maps an ASCII letter to upper case.
func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// polarize applies ancestral-allele correction to dosage d.  It returns
// ok=false when the site carries no annotation.
func polarize(site vcf.Site, d vcf.Dosage, key string) (dosage vcf.Dosage, flipped, unpolarized, ok bool) {
	aa, found := vcf.LookupInfo(site.Info, key)
	if !found || len(aa) == 0 {
		return 0, false, false, false
	}
	a := upper(aa[0])
	switch {
	case a == upper(site.Ref[0]):
		return d, false, false, true
	case a == upper(site.Alt[0]):
		return 2 - d, true, false, true
	}
	return 0, false, true, true
}

// ImportArchaic reads a single-sample VCF from r.  The header is optional
// and '#' lines are ignored; the genotype is taken from the first sample
// column.  Only biallelic SNP sites are kept.  name labels the table in
// logs.
func ImportArchaic(r io.Reader, name string, opts ArchaicOpts) (*ArchaicTable, error) {
	table := &ArchaicTable{Name: name, index: map[VariantKey]int{}}
	reader := vcf.NewReader(r)
	var fields [][]byte
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ImportArchaic %s", name)
		}
		if vcf.Kind(line) != vcf.Body {
			continue
		}
		line = vcf.TrimEOL(line)
		if len(line) == 0 {
			continue
		}
		lineNum := reader.LineNum()
		fields = vcf.SplitFields(fields, line)
		site, err := vcf.ParseSite(fields, lineNum)
		if err != nil {
			return nil, err
		}
		if !vcf.IsBiallelicSNP(site.Ref, site.Alt) {
			table.Stats.NonSNP++
			continue
		}
		if len(site.Samples) == 0 {
			return nil, &vcf.ParseError{Line: lineNum, Field: "FORMAT", Err: errors.New("no sample column")}
		}
		d, err := vcf.DecodeDiploidDosage(site.Samples[0])
		if err != nil {
			return nil, &vcf.ParseError{Line: lineNum, Field: "SAMPLE", Err: err}
		}
		row := ArchaicRow{Key: newKey(site.Chrom, site.Pos, site.Ref, site.Alt), Dosage: d}
		if opts.Polarize {
			var flipped, unpolarized, ok bool
			if row.Dosage, flipped, unpolarized, ok = polarize(site, d, opts.AncestralKey); !ok {
				table.Stats.NoAncestral++
				continue
			}
			row.Flipped = flipped
			if flipped {
				table.Stats.Flipped++
			}
			if unpolarized {
				table.Stats.Unpolarized++
			}
		}
		table.add(row)
	}
	log.Debug.Printf("ImportArchaic %s: %+v", name, table.Stats)
	return table, nil
}
