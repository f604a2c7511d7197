package variants

import (
	"io"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ModernOpts configures ImportModern.
type ModernOpts struct {
	// Individuals, if non-nil, restricts the import to these samples.  Every
	// name must appear in the file header.
	Individuals []string
	// CheckPhasing makes an unphased call a fatal *vcf.PhasingError.  When
	// false, unphased calls are kept with vcf.Missing dosage.
	CheckPhasing bool
}

// DefaultModernOpts is the default ImportModern configuration.
var DefaultModernOpts = ModernOpts{CheckPhasing: true}

// ModernRow is one (site, individual, haplotype) cell of a ModernTable.
type ModernRow struct {
	Key        VariantKey
	Individual string
	Haplotype  int
	Dosage     vcf.Dosage
}

// ModernTable accumulates phased calls of modern individuals over one or
// more ImportModern calls.  Storage is one column of calls per individual,
// one row per imported site, in input order.
//
// The zero value is not usable; call NewModernTable.
type ModernTable struct {
	individuals []string
	indivIdx    map[string]int
	sites       []VariantKey
	// calls[i][r] is the call of individuals[i] at sites[r].
	calls [][]vcf.Call
	index *positionIndex
}

// NewModernTable returns an empty table.
func NewModernTable() *ModernTable {
	return &ModernTable{indivIdx: map[string]int{}}
}

// Individuals lists the individuals in order of first appearance.
func (t *ModernTable) Individuals() []string { return t.individuals }

// Len returns the number of sites (rows).
func (t *ModernTable) Len() int { return len(t.sites) }

// Site returns the key of the given row.
func (t *ModernTable) Site(row int) VariantKey { return t.sites[row] }

// IndividualIndex returns the column of the named individual.
func (t *ModernTable) IndividualIndex(name string) (int, bool) {
	i, ok := t.indivIdx[name]
	return i, ok
}

// Call returns the call of individual column indiv at the given row.
func (t *ModernTable) Call(indiv, row int) vcf.Call { return t.calls[indiv][row] }

// Rows calls fn for every (site, individual, haplotype) cell in row order,
// then individual order, then haplotype.  Cells with missing dosage are
// included.  Iteration stops early if fn returns false.
func (t *ModernTable) Rows(fn func(ModernRow) bool) {
	for r, key := range t.sites {
		for i, name := range t.individuals {
			c := t.calls[i][r]
			if !fn(ModernRow{key, name, 1, c.H1}) || !fn(ModernRow{key, name, 2, c.H2}) {
				return
			}
		}
	}
}

// SitesInRange calls fn for every row on chrom with start < pos <= end,
// ordered by position.  Iteration stops early if fn returns true.
func (t *ModernTable) SitesInRange(chrom int32, start, end interval.PosType, fn func(row int) (done bool)) {
	if t.index == nil {
		t.index = newPositionIndex(t.sites)
	}
	t.index.do(chrom, start, end, fn)
}

// append merges one file's worth of columns into t.  Individuals new to t
// are backfilled with missing calls for the earlier rows; individuals of t
// absent from names get missing calls for the new rows.
func (t *ModernTable) append(names []string, sites []VariantKey, cols [][]vcf.Call) {
	oldLen := len(t.sites)
	t.sites = append(t.sites, sites...)
	seen := make([]bool, len(t.individuals))
	for j, name := range names {
		i, ok := t.indivIdx[name]
		if !ok {
			col := make([]vcf.Call, oldLen, len(t.sites))
			fillMissing(col)
			t.calls = append(t.calls, col)
			t.individuals = append(t.individuals, name)
			i = len(t.individuals) - 1
			t.indivIdx[name] = i
			seen = append(seen, true)
		} else {
			seen[i] = true
		}
		t.calls[i] = append(t.calls[i], cols[j]...)
	}
	for i, ok := range seen {
		if !ok {
			n := len(t.calls[i])
			t.calls[i] = append(t.calls[i], make([]vcf.Call, len(sites))...)
			fillMissing(t.calls[i][n:])
		}
	}
	t.index = nil
}

func fillMissing(calls []vcf.Call) {
	for i := range calls {
		calls[i] = vcf.Call{H1: vcf.Missing, H2: vcf.Missing}
	}
}

// ImportModern reads a multi-sample VCF from r and merges its biallelic SNP
// sites into acc.  Sites whose REF or ALT is longer than one character are
// skipped.  The merge is an outer join on individuals: importing files one by
// one yields the same table as importing their concatenation.
//
// On error acc is left unchanged.
func ImportModern(r io.Reader, acc *ModernTable, opts ModernOpts) error {
	var (
		reader = vcf.NewReader(r)
		// cols maps each kept column to its index in the sample list.
		cols       []int
		names      []string
		header     []string
		headerSeen bool
		sites      []VariantKey
		calls      [][]vcf.Call
		fields     [][]byte
		nSkipped   int
	)
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "ImportModern")
		}
		switch vcf.Kind(line) {
		case vcf.Metadata:
			continue
		case vcf.Header:
			if headerSeen {
				return &vcf.ParseError{Line: reader.LineNum(), Field: "#CHROM", Err: errors.New("duplicate header")}
			}
			headerSeen = true
			header = vcf.SampleNames(line)
			if names, cols, err = selectColumns(header, opts.Individuals); err != nil {
				return err
			}
			calls = make([][]vcf.Call, len(cols))
			continue
		}
		line = vcf.TrimEOL(line)
		if len(line) == 0 {
			continue
		}
		lineNum := reader.LineNum()
		if !headerSeen {
			return &vcf.ParseError{Line: lineNum, Field: "#CHROM", Err: errors.New("data line before header")}
		}
		fields = vcf.SplitFields(fields, line)
		site, err := vcf.ParseSite(fields, lineNum)
		if err != nil {
			return err
		}
		if !vcf.IsBiallelicSNP(site.Ref, site.Alt) {
			nSkipped++
			continue
		}
		if len(site.Samples) < len(header) {
			return &vcf.ParseError{Line: lineNum, Field: "FORMAT", Err: errors.Errorf("expect %d samples, found %d", len(header), len(site.Samples))}
		}
		for j, col := range cols {
			call, err := vcf.DecodeGenotype(site.Samples[col], opts.CheckPhasing)
			if err == vcf.ErrUnphased {
				return &vcf.PhasingError{Individual: names[j], Chrom: site.Chrom, Pos: site.Pos, Line: lineNum}
			}
			if err != nil {
				return &vcf.ParseError{Line: lineNum, Field: names[j], Err: err}
			}
			calls[j] = append(calls[j], call)
		}
		sites = append(sites, newKey(site.Chrom, site.Pos, site.Ref, site.Alt))
	}
	if !headerSeen {
		// Nothing but metadata (or nothing at all).
		if len(opts.Individuals) > 0 {
			return &vcf.MissingIndividualError{Individual: opts.Individuals[0]}
		}
		return nil
	}
	log.Debug.Printf("ImportModern: %d sites, %d individuals, %d non-SNP lines skipped", len(sites), len(names), nSkipped)
	acc.append(names, sites, calls)
	return nil
}

// selectColumns picks the sample columns to import, in header order.  With
// a nil allow-list every column is kept.  Repeated header names keep their
// first column.
func selectColumns(header, allow []string) (names []string, cols []int, err error) {
	var allowed map[string]bool
	if allow != nil {
		inHeader := make(map[string]bool, len(header))
		for _, name := range header {
			inHeader[name] = true
		}
		allowed = make(map[string]bool, len(allow))
		for _, name := range allow {
			if !inHeader[name] {
				return nil, nil, &vcf.MissingIndividualError{Individual: name}
			}
			allowed[name] = true
		}
	}
	seen := make(map[string]bool, len(header))
	for col, name := range header {
		if seen[name] || (allowed != nil && !allowed[name]) {
			continue
		}
		seen[name] = true
		names = append(names, name)
		cols = append(cols, col)
	}
	return names, cols, nil
}
