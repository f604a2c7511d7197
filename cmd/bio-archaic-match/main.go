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

/*
bio-archaic-match reports, for each region of a set of BED files, how many of
the alleles carried by one haplotype of a modern individual are shared with
one or more archaic genomes.

Each BED file holds the regions of one haplotype and is named
{individual}.{code}.{type}_hap{N}.bed.  For every region "chrom start end"
one line is written to <bed>.matched:

  chrom start end sites variants [archaic_variants matches fraction]...

where sites counts the modern sites in (start, end] with a call for the
haplotype, variants the ALT alleles among them, and the trailing triplet is
repeated per archaic VCF.  The fraction is "nan" for regions without sites.

Sample usage:
bio-archaic-match match \
    -modern 'modern.chr{chr}.vcf.gz' \
    -archaic 'altai.chr{chr}.vcf.gz,vindija.chr{chr}.vcf.gz' \
    -out-dir out \
    beds/*.bed

A modern table can be imported once and reused:
bio-archaic-match import -modern a.vcf.gz,b.vcf.gz -db-out modern.db
bio-archaic-match match -db-in modern.db -archaic altai.vcf.gz beds/*.bed
*/
package main

import "github.com/grailbio/archaic/cmd/bio-archaic-match/cmd"

func main() {
	cmd.Run()
}
