package variants

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/archaic/encoding/vcf"
	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

// A modern table is cached as a recordio file.  Each record holds one site:
//
//   chrom  int32 LE
//   pos    int32 LE
//   ref    byte
//   alt    byte
//   calls  2 bytes per individual (H1, H2 as int8)
//
// The trailer is a gob-encoded cacheTrailer.
const (
	// <cacheVersionHeader, cacheVersion> is stored in a recordio header.
	cacheVersionHeader = "archaicdbversion"
	cacheVersion       = "ARCHAICDB_V1"

	siteRecordFixedSize = 10
)

// cacheTrailer is stored in the trailer section of the recordio file.
type cacheTrailer struct {
	Individuals []string
	NumSites    int
	// Checksum is the seahash of all record payloads, in order.
	Checksum uint64
}

func marshalSite(t *ModernTable, row int) []byte {
	buf := make([]byte, siteRecordFixedSize+2*len(t.individuals))
	k := t.sites[row]
	binary.LittleEndian.PutUint32(buf[0:4], uint32(k.Chrom))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(k.Pos))
	buf[8] = k.Ref
	buf[9] = k.Alt
	for i := range t.individuals {
		c := t.calls[i][row]
		buf[siteRecordFixedSize+2*i] = byte(c.H1)
		buf[siteRecordFixedSize+2*i+1] = byte(c.H2)
	}
	return buf
}

// SaveModern writes t to path.
func SaveModern(ctx context.Context, path string, t *ModernTable) (err error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(cacheVersionHeader, cacheVersion)
	w.AddHeader(recordio.KeyTrailer, true)

	h := seahash.New()
	for row := range t.sites {
		rec := marshalSite(t, row)
		h.Write(rec) // nolint: errcheck
		w.Append(rec)
	}
	trailer := cacheTrailer{
		Individuals: t.individuals,
		NumSites:    len(t.sites),
		Checksum:    h.Sum64(),
	}
	b := bytes.NewBuffer(nil)
	if err = gob.NewEncoder(b).Encode(trailer); err != nil {
		return errors.E(err, "encode trailer", path)
	}
	w.SetTrailer(b.Bytes())
	if err = w.Finish(); err != nil {
		return errors.E(err, "write", path)
	}
	log.Printf("saved %d sites x %d individuals to %s", trailer.NumSites, len(trailer.Individuals), path)
	return nil
}

// LoadModern reads a table written by SaveModern.  The file version and the
// payload checksum are verified.
func LoadModern(ctx context.Context, path string) (t *ModernTable, err error) {
	recordiozstd.Init()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == cacheVersionHeader {
			if v, _ := kv.Value.(string); v != cacheVersion {
				return nil, errors.E(fmt.Sprintf("cache version mismatch, got %v, expect %v", kv.Value, cacheVersion), path)
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		if err = r.Err(); err != nil {
			return nil, errors.E(err, "read", path)
		}
		return nil, errors.E(cacheVersionHeader+" not found", path)
	}
	var trailer cacheTrailer
	if err = gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&trailer); err != nil {
		return nil, errors.E(err, "decode trailer", path)
	}

	t = NewModernTable()
	t.individuals = trailer.Individuals
	t.calls = make([][]vcf.Call, len(t.individuals))
	for i, name := range t.individuals {
		t.indivIdx[name] = i
		t.calls[i] = make([]vcf.Call, 0, trailer.NumSites)
	}
	t.sites = make([]VariantKey, 0, trailer.NumSites)
	recSize := siteRecordFixedSize + 2*len(t.individuals)
	h := seahash.New()
	for r.Scan() {
		rec := r.Get().([]byte)
		if len(rec) != recSize {
			return nil, errors.E(fmt.Sprintf("record %d: size %d, expect %d", len(t.sites), len(rec), recSize), path)
		}
		h.Write(rec) // nolint: errcheck
		t.sites = append(t.sites, VariantKey{
			Chrom: int32(binary.LittleEndian.Uint32(rec[0:4])),
			Pos:   interval.PosType(binary.LittleEndian.Uint32(rec[4:8])),
			Ref:   rec[8],
			Alt:   rec[9],
		})
		for i := range t.individuals {
			t.calls[i] = append(t.calls[i], vcf.Call{
				H1: vcf.Dosage(int8(rec[siteRecordFixedSize+2*i])),
				H2: vcf.Dosage(int8(rec[siteRecordFixedSize+2*i+1])),
			})
		}
	}
	if err = r.Err(); err != nil {
		return nil, errors.E(err, "read", path)
	}
	if len(t.sites) != trailer.NumSites {
		return nil, errors.E(fmt.Sprintf("found %d sites, expect %d", len(t.sites), trailer.NumSites), path)
	}
	if sum := h.Sum64(); sum != trailer.Checksum {
		return nil, errors.E(fmt.Sprintf("checksum mismatch: %x, expect %x", sum, trailer.Checksum), path)
	}
	log.Printf("loaded %d sites x %d individuals from %s", len(t.sites), len(t.individuals), path)
	return t, nil
}
