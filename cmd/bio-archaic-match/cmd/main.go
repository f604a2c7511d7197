package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/grailbio/archaic/match"
	"github.com/grailbio/archaic/thin"
	"github.com/grailbio/archaic/util"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

// splitList splits a comma-separated flag value.  Empty elements are
// dropped.
func splitList(s string) []string {
	var result []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

type modernFlags struct {
	modern       *string
	dbIn         *string
	dbOut        *string
	individuals  *string
	checkPhasing *bool
}

func addModernFlags(fs *flag.FlagSet) modernFlags {
	return modernFlags{
		modern: fs.String("modern", "", `Comma-separated list of phased multi-sample VCFs, imported in order.
A path may contain "{chr}", in which case the files are read one chromosome at a time (match only).`),
		dbIn:         fs.String("db-in", "", "Modern table cache to start from. The -modern files are added to it."),
		dbOut:        fs.String("db-out", "", "Save the modern table to this path after importing -modern."),
		individuals:  fs.String("individuals", "", "File listing the individuals to import, one per line. Default: all (import), or those named by the BED files (per-chromosome match)."),
		checkPhasing: fs.Bool("check-phasing", match.DefaultOpts.CheckPhasing, "Fail on unphased modern genotypes instead of treating them as missing"),
	}
}

func (f modernFlags) apply(opts *match.Opts) error {
	opts.ModernPaths = splitList(*f.modern)
	opts.DBIn = *f.dbIn
	opts.DBOut = *f.dbOut
	opts.CheckPhasing = *f.checkPhasing
	if *f.individuals != "" {
		ctx := vcontext.Background()
		in, err := util.OpenReader(ctx, *f.individuals)
		if err != nil {
			return err
		}
		opts.Individuals, err = thin.ReadIndividuals(in)
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
	return nil
}

func newCmdImport() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "import",
		Short: "Import modern VCFs into a table cache",
	}
	mf := addModernFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("import takes no positional arguments, but got %v", argv)
		}
		opts := match.DefaultOpts
		if err := mf.apply(&opts); err != nil {
			return err
		}
		if opts.DBOut == "" {
			return fmt.Errorf("import: -db-out is required")
		}
		if len(opts.ModernPaths) == 0 && opts.DBIn == "" {
			return fmt.Errorf("import: nothing to import, set -modern or -db-in")
		}
		_, err := match.BuildModern(vcontext.Background(), opts)
		return err
	})
	return cmd
}

func newCmdMatch() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "match",
		Short:    "Summarize archaic matches over the regions of BED files",
		ArgsName: "bedpath...",
	}
	mf := addModernFlags(&cmd.Flags)
	archaic := cmd.Flags.String("archaic", "", `Comma-separated list of single-sample archaic VCFs; one output triplet per file.
A path may contain "{chr}".`)
	beds := cmd.Flags.String("bed", "", "Comma-separated list of BED files, in addition to the positional arguments")
	outDir := cmd.Flags.String("out-dir", "", "Output directory. Defaults to the directory of each BED file.")
	chroms := cmd.Flags.String("chroms", "1-22", `Chromosomes substituted for "{chr}", e.g. "1-22" or "1,3,5-7"`)
	bgzip := cmd.Flags.Bool("bgzip", match.DefaultOpts.Bgzip, "Write BGZF-compressed <bed>.matched.gz files")
	polarize := cmd.Flags.Bool("polarize", match.DefaultOpts.Polarize, "Recode archaic genotypes by the ancestral allele; sites without one are dropped")
	ancestralKey := cmd.Flags.String("ancestral-key", match.DefaultOpts.AncestralKey, "INFO key of the ancestral allele, used with -polarize")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		opts := match.DefaultOpts
		if err := mf.apply(&opts); err != nil {
			return err
		}
		opts.ArchaicPaths = splitList(*archaic)
		opts.BEDPaths = append(splitList(*beds), argv...)
		opts.OutDir = *outDir
		opts.Bgzip = *bgzip
		opts.Polarize = *polarize
		opts.AncestralKey = *ancestralKey
		var err error
		if opts.Chroms, err = match.ParseChroms(*chroms); err != nil {
			return err
		}
		if len(opts.BEDPaths) == 0 {
			return fmt.Errorf("match: no BED files given")
		}
		if len(opts.ModernPaths) == 0 && opts.DBIn == "" {
			return fmt.Errorf("match: set -modern or -db-in")
		}
		return match.Run(vcontext.Background(), opts)
	})
	return cmd
}

// Run is the entry point of bio-archaic-match.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-archaic-match",
			Short:    "Match modern haplotypes against archaic genomes over BED regions",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdImport(),
				newCmdMatch(),
			},
		})
}
