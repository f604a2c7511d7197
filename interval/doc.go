/*Package interval implements the genomic-interval operations needed for
  region matching: loading BED regions, merging sorted interval lists whose
  members sit within a configurable gap of each other, and a forward-only
  cursor for filtering position-sorted streams against a merged list.
  It assumes every position fits in a PosType, which is int32 since that's
  what VCF/BAM positions are limited to in practice.
*/
package interval
