// Package match computes, for every region of a set of BED files, how many
// alleles of one modern haplotype are shared with one or more archaic
// genomes.
//
// A BED file holds the regions of one haplotype of one individual; the
// individual and haplotype are taken from its name (see ParseBEDName).  Each
// region is summarized by Summarize and written as one line of
// <bed>.matched.
package match

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/archaic/variants"
	"github.com/grailbio/base/log"
)

// ChromPlaceholder in a genotype path is replaced by the chromosome number.
// When any path contains it, Run processes one chromosome at a time.
const ChromPlaceholder = "{chr}"

// Opts configures Run.
type Opts struct {
	// ModernPaths lists multi-sample phased VCFs, imported in order.
	ModernPaths []string
	// ArchaicPaths lists single-sample VCFs, one per archaic genome.  Output
	// columns follow this order.
	ArchaicPaths []string
	// BEDPaths lists the region files to summarize.
	BEDPaths []string
	// DBIn is a modern table cache to start from.  Not supported together
	// with per-chromosome paths.
	DBIn string
	// DBOut, if set, receives the modern table after all ModernPaths were
	// imported.  Not supported together with per-chromosome paths.
	DBOut string
	// OutDir holds the outputs.  Empty means next to each BED file.
	OutDir string
	// Chroms lists the chromosomes substituted for ChromPlaceholder.
	Chroms []int32
	// Individuals restricts the modern import.  When nil, per-chromosome runs
	// use the individuals named by the BED files, and whole-genome runs
	// import every sample.
	Individuals []string
	// Bgzip compresses the outputs.
	Bgzip bool
	// CheckPhasing rejects unphased modern calls.
	CheckPhasing bool
	// Polarize applies ancestral-allele correction to the archaic tables.
	Polarize bool
	// AncestralKey is the INFO key holding the ancestral allele.
	AncestralKey string
}

// DefaultOpts is the default Run configuration.
var DefaultOpts = Opts{
	Chroms:       Autosomes(),
	CheckPhasing: true,
	AncestralKey: variants.DefaultArchaicOpts.AncestralKey,
}

// Autosomes returns 1 to 22.
func Autosomes() []int32 {
	chroms := make([]int32, 22)
	for i := range chroms {
		chroms[i] = int32(i + 1)
	}
	return chroms
}

// ParseChroms parses a comma-separated list of chromosomes and inclusive
// ranges, e.g. "1-22" or "1,3,5-7".
func ParseChroms(s string) ([]int32, error) {
	var chroms []int32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.IndexByte(part, '-'); i > 0 {
			lo, hi = part[:i], part[i+1:]
		}
		first, err := strconv.ParseInt(lo, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("chromosome list %q: %v", s, err)
		}
		last, err := strconv.ParseInt(hi, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("chromosome list %q: %v", s, err)
		}
		if last < first {
			return nil, fmt.Errorf("chromosome list %q: empty range %s", s, part)
		}
		for c := first; c <= last; c++ {
			chroms = append(chroms, int32(c))
		}
	}
	return chroms, nil
}

// chromPath substitutes chrom into path.
func chromPath(path string, chrom int32) string {
	return strings.Replace(path, ChromPlaceholder, strconv.Itoa(int(chrom)), -1)
}

func hasPlaceholder(paths []string) bool {
	for _, p := range paths {
		if strings.Contains(p, ChromPlaceholder) {
			return true
		}
	}
	return false
}

func (o *Opts) archaicOpts() variants.ArchaicOpts {
	return variants.ArchaicOpts{Polarize: o.Polarize, AncestralKey: o.AncestralKey}
}

// BuildModern starts from opts.DBIn, if set, and imports opts.ModernPaths
// into it.  The result is saved to opts.DBOut, if set.
func BuildModern(ctx context.Context, opts Opts) (*variants.ModernTable, error) {
	acc := variants.NewModernTable()
	if opts.DBIn != "" {
		var err error
		if acc, err = variants.LoadModern(ctx, opts.DBIn); err != nil {
			return nil, err
		}
	}
	mopts := variants.ModernOpts{Individuals: opts.Individuals, CheckPhasing: opts.CheckPhasing}
	if err := importModern(ctx, opts.ModernPaths, acc, mopts); err != nil {
		return nil, err
	}
	if opts.DBOut != "" {
		if err := variants.SaveModern(ctx, opts.DBOut, acc); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func importModern(ctx context.Context, paths []string, acc *variants.ModernTable, opts variants.ModernOpts) error {
	for _, path := range paths {
		if err := variants.ImportModernFromPath(ctx, path, acc, opts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func importArchaic(ctx context.Context, paths []string, opts variants.ArchaicOpts) ([]*variants.ArchaicTable, error) {
	tables := make([]*variants.ArchaicTable, len(paths))
	for i, path := range paths {
		var err error
		if tables[i], err = variants.ImportArchaicFromPath(ctx, path, opts); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return tables, nil
}

// Run summarizes every BED file of opts against the modern and archaic
// genotypes.
//
// If any genotype path contains ChromPlaceholder, the tables are built and
// discarded one chromosome of opts.Chroms at a time, and each BED job is fed
// the regions of that chromosome.  Otherwise all genotypes are imported once
// and every region is summarized in BED order.
func Run(ctx context.Context, opts Opts) (err error) {
	jobs := make([]*BEDJob, 0, len(opts.BEDPaths))
	defer func() {
		for _, j := range jobs {
			if cerr := j.Close(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()
	var individuals []string
	seen := map[string]bool{}
	for _, path := range opts.BEDPaths {
		j, err := NewBEDJob(ctx, path, opts.OutDir, opts.Bgzip)
		if err != nil {
			return err
		}
		jobs = append(jobs, j)
		if !seen[j.Individual] {
			seen[j.Individual] = true
			individuals = append(individuals, j.Individual)
		}
	}
	log.Printf("found %d individuals in %d bed files", len(individuals), len(jobs))

	if !hasPlaceholder(opts.ModernPaths) && !hasPlaceholder(opts.ArchaicPaths) {
		modern, err := BuildModern(ctx, opts)
		if err != nil {
			return err
		}
		archaic, err := importArchaic(ctx, opts.ArchaicPaths, opts.archaicOpts())
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if err := j.ProcessAll(modern, archaic...); err != nil {
				return err
			}
		}
		return nil
	}

	if opts.DBIn != "" || opts.DBOut != "" {
		return fmt.Errorf("table cache cannot be combined with per-chromosome (%s) paths", ChromPlaceholder)
	}
	mopts := variants.ModernOpts{Individuals: opts.Individuals, CheckPhasing: opts.CheckPhasing}
	if mopts.Individuals == nil {
		mopts.Individuals = individuals
	}
	for _, chrom := range opts.Chroms {
		log.Printf("starting chromosome %d", chrom)
		modernPaths := make([]string, len(opts.ModernPaths))
		for i, p := range opts.ModernPaths {
			modernPaths[i] = chromPath(p, chrom)
		}
		archaicPaths := make([]string, len(opts.ArchaicPaths))
		for i, p := range opts.ArchaicPaths {
			archaicPaths[i] = chromPath(p, chrom)
		}
		modern := variants.NewModernTable()
		if err := importModern(ctx, modernPaths, modern, mopts); err != nil {
			return err
		}
		archaic, err := importArchaic(ctx, archaicPaths, opts.archaicOpts())
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if err := j.ProcessChrom(chrom, modern, archaic...); err != nil {
				return err
			}
		}
		log.Printf("finished chromosome %d: %d modern sites", chrom, modern.Len())
	}
	for _, j := range jobs {
		log.Debug.Printf("%s: %d records", j.OutPath, j.NumRecords)
	}
	return nil
}
