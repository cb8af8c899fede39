package refdb

import "github.com/grailbio/svdb/encoding/svdb"

// GeneSchema is the on-disk schema of gene annotations.
var GeneSchema = svdb.Schema{
	Dataset: "genes",
	Columns: []svdb.Column{
		{Name: "ensembl_id", Type: svdb.String},
		{Name: "entrez_id", Type: svdb.Uint32},
		{Name: "symbol", Type: svdb.String},
	},
}

// GeneRecord is the extent of one annotated gene.
type GeneRecord struct {
	Begin     uint32 `json:"begin"`
	End       uint32 `json:"end"`
	EnsemblID string `json:"ensembl_id"`
	// EntrezID is 0 for genes without an Entrez identifier.
	EntrezID uint32 `json:"entrez_id"`
	Symbol   string `json:"symbol"`
}

// Span implements Record.
func (r GeneRecord) Span() (uint32, uint32) { return r.Begin, r.End }

func decodeGene(raw *svdb.RawRecord) (GeneRecord, error) {
	return GeneRecord{
		Begin:     raw.Begin,
		End:       raw.End,
		EnsemblID: raw.Cols[0].Str,
		EntrezID:  uint32(raw.Cols[1].Num),
		Symbol:    raw.Cols[2].Str,
	}, nil
}

func encodeGene(chromNo uint16, r GeneRecord) svdb.RawRecord {
	return svdb.RawRecord{
		ChromNo: chromNo,
		Begin:   r.Begin,
		End:     r.End,
		Cols:    []svdb.Value{svdb.S(r.EnsemblID), svdb.U(uint64(r.EntrezID)), svdb.S(r.Symbol)},
	}
}

// GeneDb holds the gene annotations of one release.
type GeneDb struct {
	index *Index[GeneRecord]
}

// Len returns the number of genes.
func (db *GeneDb) Len() int { return db.index.Len() }

// FetchGenes returns the genes overlapping [begin, end) on chrom.
func (db *GeneDb) FetchGenes(chrom string, begin, end uint32) ([]GeneRecord, error) {
	return db.index.find(chrom, begin, end)
}
