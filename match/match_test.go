package match

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/util"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestParseBEDName(t *testing.T) {
	tests := []struct {
		path  string
		indiv string
		hap   int
	}{
		{"UV1.EUR.archaic_hap1.bed", "UV1", 1},
		{"/data/beds/HG00096.GBR.sstar_hap2.bed.gz", "HG00096", 2},
	}
	for _, tt := range tests {
		indiv, hap, err := ParseBEDName(tt.path)
		assert.NoError(t, err)
		expect.EQ(t, indiv, tt.indiv)
		expect.EQ(t, hap, tt.hap)
	}
	for _, path := range []string{"UV1.bed", "UV1.EUR.archaic_hap3.bed", ".EUR.x_hap1.bed", "UV1..bed"} {
		_, _, err := ParseBEDName(path)
		expect.NotNil(t, err, "path %s", path)
	}
}

func TestParseChroms(t *testing.T) {
	chroms, err := ParseChroms("1-22")
	assert.NoError(t, err)
	expect.EQ(t, chroms, Autosomes())
	chroms, err = ParseChroms("1, 3,5-7")
	assert.NoError(t, err)
	expect.EQ(t, chroms, []int32{1, 3, 5, 6, 7})
	_, err = ParseChroms("X")
	expect.NotNil(t, err)
	_, err = ParseChroms("5-3")
	expect.NotNil(t, err)
}

func writeFile(t *testing.T, path, data string) {
	assert.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func readFile(t *testing.T, path string) string {
	r, err := util.OpenReader(vcontext.Background(), path)
	assert.NoError(t, err)
	data, err := ioutil.ReadAll(r)
	assert.NoError(t, err)
	assert.NoError(t, r.Close(vcontext.Background()))
	return string(data)
}

func TestRunWholeGenome(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	modernPath := filepath.Join(tmpdir, "modern.vcf")
	writeFile(t, modernPath, vcfText("UV1\tUV2",
		site("1", "100", "A", "T", ".", "0|1\t0|0"),
		site("1", "105", "A", "T", ".", "1|1\t1|0"),
		site("2", "50", "C", "G", ".", "1|0\t1|1")))
	archaicPath := filepath.Join(tmpdir, "altai.vcf")
	writeFile(t, archaicPath, vcfText("Altai",
		site("1", "105", "A", "T", ".", "1/1"),
		site("2", "50", "C", "G", ".", "0/1")))
	bedPath := filepath.Join(tmpdir, "UV1.EUR.archaic_hap1.bed")
	writeFile(t, bedPath, "2\t0\t100\n1\t100\t110\n3\t0\t10\n")
	dbPath := filepath.Join(tmpdir, "modern.db")
	outDir := filepath.Join(tmpdir, "out")
	assert.NoError(t, os.Mkdir(outDir, 0755))

	opts := DefaultOpts
	opts.ModernPaths = []string{modernPath}
	opts.ArchaicPaths = []string{archaicPath}
	opts.BEDPaths = []string{bedPath}
	opts.DBOut = dbPath
	opts.OutDir = outDir
	assert.NoError(t, Run(ctx, opts))

	want := "2\t0\t100\t1\t1\t0.5\t0.5\t0.5\n" +
		"1\t100\t110\t1\t1\t1.0\t1.0\t1.0\n" +
		"3\t0\t10\t0\t0\t0.0\t0.0\tnan\n"
	expect.EQ(t, readFile(t, filepath.Join(outDir, "UV1.EUR.archaic_hap1.bed.matched")), want)

	// The saved table reproduces the same output, compressed this time.
	opts.ModernPaths = nil
	opts.DBOut = ""
	opts.DBIn = dbPath
	opts.Bgzip = true
	assert.NoError(t, Run(ctx, opts))
	expect.EQ(t, readFile(t, filepath.Join(outDir, "UV1.EUR.archaic_hap1.bed.matched.gz")), want)
}

func TestRunPerChromosome(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	writeFile(t, filepath.Join(tmpdir, "modern.chr1.vcf"), vcfText("UV1\tUV2\tUV3",
		site("1", "100", "A", "T", ".", "0|1\t0|0\t1/0"),
		site("1", "105", "A", "T", ".", "1|1\t1|0\t1/0")))
	writeFile(t, filepath.Join(tmpdir, "modern.chr2.vcf"), vcfText("UV1\tUV2\tUV3",
		site("2", "50", "C", "G", ".", "1|0\t1|1\t1/0")))
	writeFile(t, filepath.Join(tmpdir, "altai.chr1.vcf"), vcfText("Altai",
		site("1", "105", "A", "T", ".", "1/1")))
	writeFile(t, filepath.Join(tmpdir, "altai.chr2.vcf"), vcfText("Altai",
		site("2", "50", "C", "G", ".", "0/1")))
	bed1 := filepath.Join(tmpdir, "UV1.EUR.archaic_hap1.bed")
	writeFile(t, bed1, "2\t0\t100\n1\t100\t110\n")
	bed2 := filepath.Join(tmpdir, "UV2.EUR.archaic_hap2.bed")
	writeFile(t, bed2, "1\t0\t200\n")

	opts := DefaultOpts
	opts.ModernPaths = []string{filepath.Join(tmpdir, "modern.chr{chr}.vcf")}
	opts.ArchaicPaths = []string{filepath.Join(tmpdir, "altai.chr{chr}.vcf")}
	opts.BEDPaths = []string{bed1, bed2}
	opts.Chroms = []int32{1, 2}
	// UV3 is unphased but not named by any BED file, so it is never decoded.
	assert.NoError(t, Run(ctx, opts))

	// Output follows chromosome order, not BED order.
	expect.EQ(t, readFile(t, bed1+OutputSuffix),
		"1\t100\t110\t1\t1\t1.0\t1.0\t1.0\n"+
			"2\t0\t100\t1\t1\t0.5\t0.5\t0.5\n")
	expect.EQ(t, readFile(t, bed2+OutputSuffix),
		"1\t0\t200\t2\t0\t1.0\t0.0\t0.0\n")

	// The table cache only applies to whole-genome runs.
	opts.DBOut = filepath.Join(tmpdir, "x.db")
	expect.NotNil(t, Run(ctx, opts))
}

func TestRunPhasingError(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	modernPath := filepath.Join(tmpdir, "modern.vcf")
	writeFile(t, modernPath, vcfText("UV1", site("1", "100", "A", "T", ".", "0/1")))
	bedPath := filepath.Join(tmpdir, "UV1.EUR.archaic_hap1.bed")
	writeFile(t, bedPath, "1\t0\t200\n")

	opts := DefaultOpts
	opts.ModernPaths = []string{modernPath}
	opts.BEDPaths = []string{bedPath}
	err := Run(ctx, opts)
	var perr *vcf.PhasingError
	assert.True(t, errors.As(err, &perr))
	expect.EQ(t, perr.Individual, "UV1")
	expect.EQ(t, int(perr.Pos), 100)
	expect.EQ(t, perr.Line, 2)
}

func TestBuildModernIndividuals(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	modernPath := filepath.Join(tmpdir, "modern.vcf.gz")
	w, err := util.CreateWriter(ctx, modernPath)
	assert.NoError(t, err)
	_, err = w.Write([]byte(vcfText("UV1\tUV2", site("1", "100", "A", "T", ".", "0|1\t1/1"))))
	assert.NoError(t, err)
	assert.NoError(t, w.Close(ctx))

	opts := DefaultOpts
	opts.ModernPaths = []string{modernPath}
	opts.Individuals = []string{"UV1"}
	tbl, err := BuildModern(ctx, opts)
	assert.NoError(t, err)
	expect.EQ(t, tbl.Individuals(), []string{"UV1"})

	opts.Individuals = []string{"UV3"}
	_, err = BuildModern(ctx, opts)
	var merr *vcf.MissingIndividualError
	assert.True(t, errors.As(err, &merr))
	expect.EQ(t, merr.Individual, "UV3")
}
