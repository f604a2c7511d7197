package util

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// BGZFParallelism is the number of compression goroutines used by Writer when
// the output path ends in ".gz".
const BGZFParallelism = 4

// Reader is an opened input file.  Reads return decompressed bytes when the
// path ends in ".gz".
type Reader struct {
	io.Reader
	path string
	f    file.File
	gz   *gzip.Reader
}

// OpenReader opens path for reading.  The codec is selected from the path's
// extension via fileio.DetermineType; BGZF files decode as ordinary gzip.
func OpenReader(ctx context.Context, path string) (*Reader, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	r := &Reader{path: path, f: f, Reader: f.Reader(ctx)}
	if fileio.DetermineType(path) == fileio.Gzip {
		if r.gz, err = gzip.NewReader(r.Reader); err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "gzip header", path)
		}
		r.Reader = r.gz
	}
	return r, nil
}

// Path returns the path passed to OpenReader.
func (r *Reader) Path() string { return r.path }

// Close releases the decompressor, if any, and the underlying file.
func (r *Reader) Close(ctx context.Context) error {
	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if cerr := r.f.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return errors.E(err, "close", r.path)
	}
	return nil
}

// Writer is a created output file.  When the path ends in ".gz" the
// bytes are BGZF-compressed, so the output stays indexable by tabix.
type Writer struct {
	io.Writer
	path string
	f    file.File
	bgzf *bgzf.Writer
}

// CreateWriter creates (or truncates) path for writing.
func CreateWriter(ctx context.Context, path string) (*Writer, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	w := &Writer{path: path, f: f, Writer: f.Writer(ctx)}
	if fileio.DetermineType(path) == fileio.Gzip {
		w.bgzf = bgzf.NewWriter(w.Writer, BGZFParallelism)
		w.Writer = w.bgzf
	}
	return w, nil
}

// Path returns the path passed to CreateWriter.
func (w *Writer) Path() string { return w.path }

// Close flushes the compressor, if any, then closes the file.  Data written
// to a Writer is not durable until Close returns nil.
func (w *Writer) Close(ctx context.Context) error {
	var err error
	if w.bgzf != nil {
		err = w.bgzf.Close()
	}
	if cerr := w.f.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return errors.E(err, "close", w.path)
	}
	return nil
}
