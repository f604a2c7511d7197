package match

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/archaic/util"
	"github.com/grailbio/archaic/variants"
	"github.com/grailbio/base/tsv"
)

// OutputSuffix is appended to the BED file name to form the output name.
const OutputSuffix = ".matched"

// ParseBEDName extracts the individual and haplotype from a BED file name of
// the form "{individual}.{code}.{type}_hap{N}.bed[.gz]".  Any directory
// part is ignored.
func ParseBEDName(path string) (individual string, haplotype int, err error) {
	base := filepath.Base(path)
	tokens := strings.Split(base, ".")
	if len(tokens) < 3 || tokens[0] == "" || tokens[2] == "" {
		return "", 0, fmt.Errorf("%s: expect {individual}.{code}.{type}_hap{N}.bed", base)
	}
	switch tokens[2][len(tokens[2])-1] {
	case '1':
		haplotype = 1
	case '2':
		haplotype = 2
	default:
		return "", 0, fmt.Errorf("%s: haplotype must be 1 or 2", base)
	}
	return tokens[0], haplotype, nil
}

// BEDJob summarizes the regions of one BED file into its output file.  The
// regions are read once; the output stays open across ProcessChrom calls
// until Close.
type BEDJob struct {
	Path       string
	OutPath    string
	Individual string
	Haplotype  int

	entries []interval.Entry
	byChrom map[int32][]interval.Entry
	out     *util.Writer
	w       *tsv.Writer
	// NumRecords is the number of lines written so far.
	NumRecords int
}

// NewBEDJob reads the BED file at path and creates its output,
// outDir/<basename>.matched (with ".gz" and BGZF compression when bgzip is
// set).  An empty outDir means the directory of path.
func NewBEDJob(ctx context.Context, path, outDir string, bgzip bool) (*BEDJob, error) {
	indiv, hap, err := ParseBEDName(path)
	if err != nil {
		return nil, err
	}
	entries, err := interval.ReadBEDFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	outPath := filepath.Join(outDir, filepath.Base(path)+OutputSuffix)
	if bgzip {
		outPath += ".gz"
	}
	out, err := util.CreateWriter(ctx, outPath)
	if err != nil {
		return nil, err
	}
	return &BEDJob{
		Path:       path,
		OutPath:    outPath,
		Individual: indiv,
		Haplotype:  hap,
		entries:    entries,
		byChrom:    interval.GroupByChrom(entries),
		out:        out,
		w:          tsv.NewWriter(out),
	}, nil
}

func (j *BEDJob) summarize(entries []interval.Entry, modern *variants.ModernTable, archaic []*variants.ArchaicTable) error {
	for _, e := range entries {
		rec := Summarize(Region{Entry: e, Haplotype: j.Haplotype, Individual: j.Individual}, modern, archaic...)
		if err := rec.Write(j.w); err != nil {
			return err
		}
		j.NumRecords++
	}
	return nil
}

// ProcessChrom writes a record for every region of the given chromosome, in
// BED order.
func (j *BEDJob) ProcessChrom(chrom int32, modern *variants.ModernTable, archaic ...*variants.ArchaicTable) error {
	return j.summarize(j.byChrom[chrom], modern, archaic)
}

// ProcessAll writes a record for every region, in BED order.
func (j *BEDJob) ProcessAll(modern *variants.ModernTable, archaic ...*variants.ArchaicTable) error {
	return j.summarize(j.entries, modern, archaic)
}

// Close flushes and closes the output.  It must be called exactly once.
func (j *BEDJob) Close(ctx context.Context) error {
	err := j.w.Flush()
	if cerr := j.out.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
