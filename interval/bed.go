package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/grailbio/archaic/util"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// PosType is the coordinate type used for BED boundaries and variant
// positions.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// Entry is a single BED line.  Start and End are kept exactly as written; each
// consumer applies its own boundary convention ((Start, End] for region
// summaries, [Start+1, End+1) for stream thinning).
type Entry struct {
	Chrom int32
	Start PosType
	End   PosType
}

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// BEDError reports a malformed BED line.
type BEDError struct {
	// Line is the 1-based input line number.
	Line int
	// Column is the offending column ("chrom", "start", "end"), or empty when
	// the line as a whole is malformed.
	Column string
	Err    error
}

func (e *BEDError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("interval.ReadBED: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("interval.ReadBED: line %d: bad %s: %v", e.Line, e.Column, e.Err)
}

func (e *BEDError) Unwrap() error { return e.Err }

var (
	errTooFewTokens  = errors.New("fewer tokens than expected")
	errInvalidCoords = errors.New("invalid coordinate pair")
)

func parsePos(token []byte, lineIdx int, column string) (PosType, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(token), 10, 32)
	if err != nil {
		return 0, &BEDError{Line: lineIdx, Column: column, Err: err}
	}
	return PosType(v), nil
}

// ReadBED loads every "chrom start end" line from reader, in file order.
// Columns past the third are ignored, as are blank lines and lines starting
// with '#', "track" or "browser".  Chromosomes must be integers.
func ReadBED(reader io.Reader) (entries []Entry, err error) {
	scanner := bufio.NewScanner(reader)
	var tokens [3][]byte
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isBEDComment(tokens[0]) {
			continue
		}
		if nToken != 3 {
			return nil, &BEDError{Line: lineIdx, Err: errTooFewTokens}
		}
		var chrom, start, end PosType
		if chrom, err = parsePos(tokens[0], lineIdx, "chrom"); err != nil {
			return nil, err
		}
		if start, err = parsePos(tokens[1], lineIdx, "start"); err != nil {
			return nil, err
		}
		if end, err = parsePos(tokens[2], lineIdx, "end"); err != nil {
			return nil, err
		}
		if start < 0 || end < start || end >= PosTypeMax {
			return nil, &BEDError{Line: lineIdx, Err: errInvalidCoords}
		}
		entries = append(entries, Entry{Chrom: int32(chrom), Start: start, End: end})
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func isBEDComment(tok []byte) bool {
	s := gunsafe.BytesToString(tok)
	return s[0] == '#' || s == "track" || s == "browser"
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzip/BGZF input is detected from the file extension.
func ReadBEDFromPath(ctx context.Context, path string) (entries []Entry, err error) {
	in, err := util.OpenReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return ReadBED(in)
}

// GroupByChrom splits entries per chromosome.  Within each group the input
// order is preserved.
func GroupByChrom(entries []Entry) map[int32][]Entry {
	groups := make(map[int32][]Entry)
	for _, e := range entries {
		groups[e.Chrom] = append(groups[e.Chrom], e)
	}
	return groups
}

// Intervals drops the chromosome column.
func Intervals(entries []Entry) []Interval {
	result := make([]Interval, len(entries))
	for i, e := range entries {
		result[i] = Interval{Start: e.Start, End: e.End}
	}
	return result
}
