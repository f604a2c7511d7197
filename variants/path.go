package variants

import (
	"context"

	"github.com/grailbio/archaic/util"
	"github.com/grailbio/base/log"
)

// ImportModernFromPath is a wrapper for ImportModern that takes a path
// instead of an io.Reader.  Gzip input is detected from the extension.
func ImportModernFromPath(ctx context.Context, path string, acc *ModernTable, opts ModernOpts) (err error) {
	in, err := util.OpenReader(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	log.Printf("importing modern genotypes from %s", path)
	return ImportModern(in, acc, opts)
}

// ImportArchaicFromPath is a wrapper for ImportArchaic that takes a path
// instead of an io.Reader.  The table is named after the path.
func ImportArchaicFromPath(ctx context.Context, path string, opts ArchaicOpts) (t *ArchaicTable, err error) {
	in, err := util.OpenReader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	log.Printf("importing archaic genotypes from %s", path)
	return ImportArchaic(in, path, opts)
}
