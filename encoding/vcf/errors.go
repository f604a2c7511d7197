package vcf

import (
	"fmt"

	"github.com/grailbio/archaic/interval"
	"github.com/pkg/errors"
)

// ErrUnphased is returned by DecodeGenotype for an "a/b" token when phasing
// validation is enabled.  Importers wrap it in a *PhasingError.
var ErrUnphased = errors.New("unphased genotype")

// PhasingError reports an unphased call found while phasing validation was
// enabled.
type PhasingError struct {
	Individual string
	Chrom      int32
	Pos        interval.PosType
	// Line is the 1-based input line number, or 0 if unknown.
	Line int
}

func (e *PhasingError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("individual %s is not phased at position %d:%d (line %d)", e.Individual, e.Chrom, e.Pos, e.Line)
	}
	return fmt.Sprintf("individual %s is not phased at position %d:%d", e.Individual, e.Chrom, e.Pos)
}

// Unwrap returns ErrUnphased.
func (e *PhasingError) Unwrap() error { return ErrUnphased }

// MissingIndividualError reports an allow-listed individual that does not
// appear in the header of a genotype file.
type MissingIndividualError struct {
	Individual string
}

func (e *MissingIndividualError) Error() string {
	return fmt.Sprintf("%s not in file", e.Individual)
}

// GenotypeError reports a genotype token that is none of "a|b", "a/b" or
// "./." with a, b in {0, 1}.
type GenotypeError struct {
	Token string
}

func (e *GenotypeError) Error() string {
	return fmt.Sprintf("invalid genotype %q", e.Token)
}

// ParseError reports a malformed line.
type ParseError struct {
	// Line is the 1-based input line number.
	Line int
	// Field names the offending column, e.g. "POS".
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
