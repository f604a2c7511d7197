// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/archaic/thin"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	bedPath         = flag.String("bed", thin.DefaultOpts.BEDPath, "If set, keep only the sites within the regions of this BED file. Must be sorted.")
	mergeGap        = flag.Int("merge", thin.DefaultOpts.MergeGap, "If >= 0, merge BED regions at most this far apart. Negative disables merging.")
	individualsPath = flag.String("individuals", thin.DefaultOpts.IndividualsPath, "If set, keep only the samples listed in this file, one per line")
)

func bioVCFThinUsage() {
	fmt.Printf("Usage: %s [OPTIONS] < in.vcf > out.vcf\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioVCFThinUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("bio-vcf-thin reads stdin and takes no positional arguments, got %v", flag.Args())
	}
	ctx := vcontext.Background()
	opts := thin.Opts{
		BEDPath:         *bedPath,
		MergeGap:        *mergeGap,
		IndividualsPath: *individualsPath,
	}
	f, err := thin.NewFilterFromOpts(ctx, opts)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := thin.Run(os.Stdin, os.Stdout, f); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
