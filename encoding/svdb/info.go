package svdb

import (
	"github.com/gogo/protobuf/proto"
)

// Info summarizes a dataset file. It is stored protobuf-encoded in the
// recordio trailer.
type Info struct {
	// Dataset is the dataset type, identical to the DatasetHeader value.
	Dataset string `protobuf:"bytes,1,opt,name=dataset,proto3" json:"dataset,omitempty"`
	// Release names the genome release the coordinates refer to, e.g.,
	// "GRCh37".
	Release string `protobuf:"bytes,2,opt,name=release,proto3" json:"release,omitempty"`
	// NumRecords is the number of items in the file.
	NumRecords uint64 `protobuf:"varint,3,opt,name=num_records,json=numRecords,proto3" json:"num_records,omitempty"`
	// ChromCounts[i] is the number of records with chromosome code i.
	ChromCounts []uint64 `protobuf:"varint,4,rep,packed,name=chrom_counts,json=chromCounts,proto3" json:"chrom_counts,omitempty"`
	// Source describes where the records came from, e.g., the input path of
	// the build.
	Source string `protobuf:"bytes,5,opt,name=source,proto3" json:"source,omitempty"`
}

// Reset implements proto.Message.
func (m *Info) Reset() { *m = Info{} }

// String implements proto.Message.
func (m *Info) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*Info) ProtoMessage() {}

// count records one more record on the given chromosome.
func (m *Info) count(chromNo uint16) {
	for int(chromNo) >= len(m.ChromCounts) {
		m.ChromCounts = append(m.ChromCounts, 0)
	}
	m.ChromCounts[chromNo]++
	m.NumRecords++
}
