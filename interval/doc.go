/*Package interval implements the interval containers used by svdb: an
  overlap tree over half-open [start, end) spans, keyed by dense record
  slots, and readers for the BED-style interval files that reference
  datasets are built from.
  Positions are 0-based throughout; BED input may optionally be declared
  one-based, and region strings use the usual 1-based samtools notation.
*/
package interval
