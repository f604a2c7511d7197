// Package thin drops the lines of a position-sorted VCF stream that fall
// outside a set of regions, and optionally the sample columns of
// individuals not in an allow-list.  It is the streaming counterpart of
// package match: nothing is kept in memory beyond the region list and the
// current line.
package thin

import (
	"bytes"
	"fmt"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/interval"
)

// State is the position of a Filter in the stream.
type State int

const (
	// AwaitHeader is the state before the "#CHROM" line.
	AwaitHeader State = iota
	// FilterBody is the state after the "#CHROM" line.
	FilterBody
)

// LineError reports a malformed input line.
type LineError struct {
	// Line is the 1-based input line number.
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Filter decides, line by line, what to emit for a VCF stream.
//
// Metadata ("##") lines are passed through.  The header line is projected to
// the allow-listed sample columns.  A body line is kept iff its position lies
// in the current interval; the interval cursor only moves forward, so the
// stream must be sorted by position and must cover a single chromosome.
type Filter struct {
	filterPos bool
	cursor    interval.Cursor

	allow   map[string]bool
	columns []int

	state   State
	lineNum int
	fields  [][]byte
	out     []byte
}

// NewFilter creates a Filter.
//
// intervals are BED-style (start, end) pairs, sorted by start; a position p
// is kept iff start+1 <= p < end+1 for the current interval.  A nil list
// keeps every position, an empty list drops every body line.
//
// individuals lists the sample columns to keep.  A nil list disables
// projection; an empty list keeps only the 9 fixed columns.
func NewFilter(intervals []interval.Interval, individuals []string) *Filter {
	f := &Filter{}
	if intervals != nil {
		f.filterPos = true
		f.cursor = interval.NewCursor(interval.Shift(intervals, 1))
	}
	if individuals != nil {
		f.allow = make(map[string]bool, len(individuals))
		for _, name := range individuals {
			f.allow[name] = true
		}
	}
	return f
}

// State returns the current state.
func (f *Filter) State() State { return f.state }

// Columns returns the indexes of the columns kept by the projection.  It is
// nil until the header has been seen, or if projection is disabled.
func (f *Filter) Columns() []int { return f.columns }

// Line processes the next input line, with or without its newline.  It
// returns the bytes to emit, or nil if the line is dropped.  The result is
// only valid until the next call.
func (f *Filter) Line(line []byte) ([]byte, error) {
	f.lineNum++
	if len(vcf.TrimEOL(line)) == 0 {
		return nil, nil
	}
	switch vcf.Kind(line) {
	case vcf.Metadata:
		return line, nil
	case vcf.Header:
		f.state = FilterBody
		if f.allow == nil {
			return line, nil
		}
		f.fields = vcf.SplitFields(f.fields, vcf.TrimEOL(line))
		f.columns = f.columns[:0]
		for i := 0; i < vcf.NumFixedCols; i++ {
			f.columns = append(f.columns, i)
		}
		for i := vcf.NumFixedCols; i < len(f.fields); i++ {
			if f.allow[string(f.fields[i])] {
				f.columns = append(f.columns, i)
			}
		}
		return f.project()
	}
	if f.filterPos {
		pos, err := f.position(line)
		if err != nil {
			return nil, &LineError{Line: f.lineNum, Err: err}
		}
		if !f.cursor.Contains(pos) {
			return nil, nil
		}
	}
	if f.columns == nil {
		return line, nil
	}
	f.fields = vcf.SplitFields(f.fields, vcf.TrimEOL(line))
	return f.project()
}

// position extracts the POS column without splitting the whole line.
func (f *Filter) position(line []byte) (interval.PosType, error) {
	i := bytes.IndexByte(line, '\t')
	if i < 0 {
		return 0, fmt.Errorf("missing POS column")
	}
	rest := line[i+1:]
	if j := bytes.IndexByte(rest, '\t'); j >= 0 {
		rest = rest[:j]
	} else {
		rest = vcf.TrimEOL(rest)
	}
	return vcf.ParsePos(rest)
}

// project joins f.fields[f.columns] with tabs and terminates the result with
// a single newline.  Trailing whitespace is dropped.
func (f *Filter) project() ([]byte, error) {
	f.out = f.out[:0]
	for k, c := range f.columns {
		if c >= len(f.fields) {
			return nil, &LineError{Line: f.lineNum, Err: fmt.Errorf("expect at least %d columns, found %d", c+1, len(f.fields))}
		}
		if k > 0 {
			f.out = append(f.out, '\t')
		}
		f.out = append(f.out, f.fields[c]...)
	}
	f.out = append(bytes.TrimRight(f.out, " \t\r\n"), '\n')
	return f.out, nil
}
