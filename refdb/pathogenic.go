package refdb

import "github.com/grailbio/svdb/encoding/svdb"

// PathogenicSchema is the on-disk schema of pathogenic region catalogs.
var PathogenicSchema = svdb.Schema{
	Dataset: "pathogenic",
	Columns: []svdb.Column{
		{Name: "sv_type", Type: svdb.Uint8},
		{Name: "id", Type: svdb.String},
	},
}

// PathogenicRecord is a known pathogenic SV region.
type PathogenicRecord struct {
	Begin  uint32 `json:"begin"`
	End    uint32 `json:"end"`
	SvType SvType `json:"sv_type"`
	ID     string `json:"id"`
}

// Span implements Record.
func (r PathogenicRecord) Span() (uint32, uint32) { return r.Begin, r.End }

func decodePathogenic(raw *svdb.RawRecord) (PathogenicRecord, error) {
	t, err := SvTypeFromCode(raw.Cols[0].Num)
	if err != nil {
		return PathogenicRecord{}, err
	}
	return PathogenicRecord{Begin: raw.Begin, End: raw.End, SvType: t, ID: raw.Cols[1].Str}, nil
}

func encodePathogenic(chromNo uint16, r PathogenicRecord) svdb.RawRecord {
	return svdb.RawRecord{
		ChromNo: chromNo,
		Begin:   r.Begin,
		End:     r.End,
		Cols:    []svdb.Value{svdb.U(uint64(r.SvType)), svdb.S(r.ID)},
	}
}

// PathogenicDb is the pathogenic region catalog of one release.
type PathogenicDb struct {
	index *Index[PathogenicRecord]
}

// Len returns the number of records.
func (db *PathogenicDb) Len() int { return db.index.Len() }

// FetchRecords returns the regions overlapping [begin, end) on chrom.
func (db *PathogenicDb) FetchRecords(chrom string, begin, end uint32) ([]PathogenicRecord, error) {
	return db.index.find(chrom, begin, end)
}
