package thin

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/archaic/util"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Opts configures the bio-vcf-thin command.
type Opts struct {
	// BEDPath, if set, restricts the output to the regions of this file.
	BEDPath string
	// MergeGap merges regions at most this far apart.  Negative disables
	// merging.
	MergeGap int
	// IndividualsPath, if set, lists the samples to keep, one per line.
	IndividualsPath string
}

// DefaultOpts is the default configuration: no region filter, no merging,
// no projection.
var DefaultOpts = Opts{MergeGap: -1}

// ReadIndividuals reads one name per line.  Surrounding whitespace is
// stripped and blank lines are skipped.  The result is never nil, so blank
// input yields an empty allow-list.
func ReadIndividuals(r io.Reader) ([]string, error) {
	names := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// LoadIntervals reads the BED file at path into a sorted interval list,
// merged with the given gap unless gap is negative.  The chromosome column is
// ignored.
func LoadIntervals(ctx context.Context, path string, gap int) ([]interval.Interval, error) {
	entries, err := interval.ReadBEDFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if groups := interval.GroupByChrom(entries); len(groups) > 1 {
		log.Error.Printf("%s: found %d chromosomes; chromosome column is ignored", path, len(groups))
	}
	ivs := interval.Intervals(entries)
	if !interval.IsSorted(ivs) {
		return nil, errors.Errorf("%s: unsorted input", path)
	}
	if gap >= 0 {
		n := len(ivs)
		ivs = interval.Merge(ivs, interval.PosType(gap))
		log.Debug.Printf("%s: merged %d regions into %d (gap %d)", path, n, len(ivs), gap)
	}
	if ivs == nil {
		// An empty BED file still filters out everything.
		ivs = []interval.Interval{}
	}
	return ivs, nil
}

// NewFilterFromOpts loads the files named by opts and builds a Filter.
func NewFilterFromOpts(ctx context.Context, opts Opts) (*Filter, error) {
	var (
		ivs   []interval.Interval
		names []string
		err   error
	)
	if opts.BEDPath != "" {
		if ivs, err = LoadIntervals(ctx, opts.BEDPath, opts.MergeGap); err != nil {
			return nil, err
		}
	}
	if opts.IndividualsPath != "" {
		in, err := util.OpenReader(ctx, opts.IndividualsPath)
		if err != nil {
			return nil, err
		}
		names, err = ReadIndividuals(in)
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
	}
	return NewFilter(ivs, names), nil
}

// Run copies r to w through f, one line at a time.
func Run(r io.Reader, w io.Writer, f *Filter) error {
	reader := vcf.NewReader(r)
	out := bufio.NewWriterSize(w, 1<<20)
	nIn, nOut := 0, 0
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		nIn++
		result, err := f.Line(line)
		if err != nil {
			return err
		}
		if result == nil {
			continue
		}
		nOut++
		if _, err := out.Write(result); err != nil {
			return err
		}
	}
	log.Debug.Printf("thin: kept %d of %d lines", nOut, nIn)
	return out.Flush()
}
