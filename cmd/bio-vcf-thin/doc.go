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
bio-vcf-thin copies a position-sorted, single-chromosome VCF from stdin to
stdout, keeping only the sites inside the regions of a BED file and only the
sample columns of selected individuals.  It does in one pass what merging the
BED file and running "vcftools --recode --keep" would do.

A site at POS p is kept iff start < p <= end for some region, after regions
at most -merge apart were merged.  The BED file must be sorted by start; its
chromosome column is ignored.

Sample usage:
bio-vcf-thin \
    -bed regions.bed \
    -merge 1000 \
    -individuals keep.txt \
    < chr1.vcf > chr1.thin.vcf
*/
package main
