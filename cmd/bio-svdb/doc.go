/*Command bio-svdb builds and queries structural-variant reference
  databases.

  A database is a directory with one subdirectory per genome release
  (GRCh37, GRCh38), each holding one .svdb file per dataset:

    clinvar.svdb, pathogenic.svdb, genes.svdb,
    tads-hesc.svdb, tads-imr90.svdb, bg-<db>.svdb

  Usage:

    bio-svdb build -dataset clinvar -release grch37 clinvar.tsv.gz db/GRCh37/clinvar.svdb
    bio-svdb query -root db -release grch37 -dataset clinvar -min-pathogenicity likely-pathogenic 17:41,196,312-41,277,500
    bio-svdb query -root db -dataset bg -variant gnomad -sv-type DEL -min-overlap 0.8 1:1,000,000-1,050,000
    bio-svdb info db/GRCh37/clinvar.svdb
*/
package main
