// Package vcf contains a minimal reader for the subset of VCF needed to
// compare phased genotypes: tab-separated lines with 9 fixed columns
// (CHROM POS ID REF ALT QUAL FILTER INFO FORMAT) followed by one column per
// sample.  Lines starting with "##" are metadata, the line starting with a
// single '#' is the header carrying the sample names.
//
// Only integer chromosome names and biallelic single-nucleotide sites are
// supported; callers skip everything else with IsBiallelicSNP.
package vcf

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/archaic/interval"
	"github.com/pkg/errors"
)

// Column indexes of the fixed fields.
const (
	ColChrom = iota
	ColPos
	ColID
	ColRef
	ColAlt
	ColQual
	ColFilter
	ColInfo
	ColFormat
	// NumFixedCols is the index of the first sample column.
	NumFixedCols
)

// LineKind classifies a VCF line.
type LineKind int

const (
	// Metadata is a "##" line.
	Metadata LineKind = iota
	// Header is a "#CHROM ..." line.
	Header
	// Body is a data line.  Blank lines are reported as Body with an empty
	// slice.
	Body
)

// Kind classifies line by its leading '#' markers.
func Kind(line []byte) LineKind {
	if len(line) > 0 && line[0] == '#' {
		if len(line) > 1 && line[1] == '#' {
			return Metadata
		}
		return Header
	}
	return Body
}

// Reader yields the lines of a VCF stream along with their 1-based line
// numbers.  Lines of any length are supported.
type Reader struct {
	r       *bufio.Reader
	lineNum int
	buf     []byte
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next line including its terminating newline, if
// present.  The returned slice is only valid until the following call.  Next
// returns io.EOF once the stream is exhausted.
func (r *Reader) Next() ([]byte, error) {
	r.buf = r.buf[:0]
	for {
		chunk, err := r.r.ReadSlice('\n')
		r.buf = append(r.buf, chunk...)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			if len(r.buf) == 0 {
				return nil, io.EOF
			}
			err = nil
		}
		if err != nil {
			return nil, err
		}
		r.lineNum++
		return r.buf, nil
	}
}

// LineNum returns the 1-based number of the line last returned by Next.
func (r *Reader) LineNum() int { return r.lineNum }

// TrimEOL removes a trailing "\n" or "\r\n".
func TrimEOL(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

// SplitFields splits a line (without its end-of-line) on tabs, appending the
// fields to dst[:0].  The fields alias line.
func SplitFields(dst [][]byte, line []byte) [][]byte {
	dst = dst[:0]
	for {
		i := bytes.IndexByte(line, '\t')
		if i < 0 {
			return append(dst, line)
		}
		dst = append(dst, line[:i])
		line = line[i+1:]
	}
}

// SampleNames returns the sample columns of a header line.
func SampleNames(header []byte) []string {
	fields := SplitFields(nil, TrimEOL(header))
	if len(fields) <= NumFixedCols {
		return nil
	}
	names := make([]string, 0, len(fields)-NumFixedCols)
	for _, f := range fields[NumFixedCols:] {
		names = append(names, string(f))
	}
	return names
}

// Site holds the columns of a body line that genotype comparison needs.
// Byte slices alias the line.
type Site struct {
	Chrom   int32
	Pos     interval.PosType
	Ref     []byte
	Alt     []byte
	Info    []byte
	Samples [][]byte
}

// ParseSite extracts a Site from the tab-split fields of a body line.
// lineNum is used for error reporting only.
func ParseSite(fields [][]byte, lineNum int) (Site, error) {
	if len(fields) < NumFixedCols {
		return Site{}, &ParseError{Line: lineNum, Field: "FORMAT", Err: errors.Errorf("expect at least %d columns, found %d", NumFixedCols, len(fields))}
	}
	chrom, err := strconv.ParseInt(gunsafe.BytesToString(fields[ColChrom]), 10, 32)
	if err != nil {
		return Site{}, &ParseError{Line: lineNum, Field: "CHROM", Err: errors.Wrapf(err, "chromosome %q", fields[ColChrom])}
	}
	pos, err := ParsePos(fields[ColPos])
	if err != nil {
		return Site{}, &ParseError{Line: lineNum, Field: "POS", Err: err}
	}
	return Site{
		Chrom:   int32(chrom),
		Pos:     pos,
		Ref:     fields[ColRef],
		Alt:     fields[ColAlt],
		Info:    fields[ColInfo],
		Samples: fields[NumFixedCols:],
	}, nil
}

// ParsePos parses a POS column.
func ParsePos(field []byte) (interval.PosType, error) {
	pos, err := strconv.ParseInt(gunsafe.BytesToString(field), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "position %q", field)
	}
	return interval.PosType(pos), nil
}

// IsBiallelicSNP reports whether both alleles are a single character.  A
// missing ALT ('.') counts as one character.
func IsBiallelicSNP(ref, alt []byte) bool {
	return len(ref) == 1 && len(alt) == 1
}
