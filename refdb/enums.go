package refdb

import (
	"fmt"
	"strings"
)

// Pathogenicity is a ClinVar clinical significance rank. Values are ordered:
// comparisons use rank order, never the name.
type Pathogenicity uint8

// Pathogenicity ranks, least to most severe.  The zero value, Benign, is
// the lowest rank and filters nothing.
const (
	Benign Pathogenicity = iota
	LikelyBenign
	// Uncertain covers ClinVar's "uncertain significance" and conflicting
	// interpretations.
	Uncertain
	LikelyPathogenic
	Pathogenic
	numPathogenicity
)

var pathogenicityNames = [...]string{
	Benign:           "benign",
	LikelyBenign:     "likely-benign",
	Uncertain:        "uncertain",
	LikelyPathogenic: "likely-pathogenic",
	Pathogenic:       "pathogenic",
}

// String returns the identifier of p, e.g., "likely-pathogenic".
func (p Pathogenicity) String() string {
	if p < numPathogenicity {
		return pathogenicityNames[p]
	}
	return fmt.Sprintf("Pathogenicity(%d)", p)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pathogenicity) MarshalText() ([]byte, error) {
	if p >= numPathogenicity {
		return nil, decodeError("pathogenicity", uint64(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pathogenicity) UnmarshalText(text []byte) error {
	v, err := ParsePathogenicity(string(text))
	if err == nil {
		*p = v
	}
	return err
}

// ParsePathogenicity parses an identifier such as "pathogenic" or
// "likely_benign". Case, '-', '_' and ' ' separators are ignored.
func ParsePathogenicity(s string) (Pathogenicity, error) {
	key := normalizeName(s)
	for i, name := range pathogenicityNames {
		if normalizeName(name) == key {
			return Pathogenicity(i), nil
		}
	}
	return 0, lookupError("unknown pathogenicity %q", s)
}

// PathogenicityFromCode decodes an on-disk pathogenicity code.
func PathogenicityFromCode(code uint64) (Pathogenicity, error) {
	if code >= uint64(numPathogenicity) {
		return 0, decodeError("pathogenicity", code)
	}
	return Pathogenicity(code), nil
}

// VariationType is the ClinVar variation type of a structural variant.
type VariationType uint8

// ClinVar variation types.  The codes are stored on disk; append only.
const (
	// VariationComplex is a complex rearrangement.
	VariationComplex VariationType = iota
	// VariationMicrosatellite is a repeat expansion or contraction.
	VariationMicrosatellite
	// VariationDup is a duplication.
	VariationDup
	// VariationDel is a deletion.
	VariationDel
	// VariationBnd is a translocation breakend.
	VariationBnd
	// VariationCnv is a copy number gain or loss of unknown direction.
	VariationCnv
	// VariationInv is an inversion.
	VariationInv
	// VariationIns is an insertion.
	VariationIns
	numVariationType
)

var variationTypeNames = [...]string{
	VariationComplex:        "Complex",
	VariationMicrosatellite: "Microsatellite",
	VariationDup:            "Dup",
	VariationDel:            "Del",
	VariationBnd:            "Bnd",
	VariationCnv:            "Cnv",
	VariationInv:            "Inv",
	VariationIns:            "Ins",
}

// String returns the name of t, e.g., "Del".
func (t VariationType) String() string {
	if t < numVariationType {
		return variationTypeNames[t]
	}
	return fmt.Sprintf("VariationType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t VariationType) MarshalText() ([]byte, error) {
	if t >= numVariationType {
		return nil, decodeError("variation type", uint64(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VariationType) UnmarshalText(text []byte) error {
	v, err := ParseVariationType(string(text))
	if err == nil {
		*t = v
	}
	return err
}

// ParseVariationType parses a variation type name, case-insensitively.
func ParseVariationType(s string) (VariationType, error) {
	key := normalizeName(s)
	for i, name := range variationTypeNames {
		if normalizeName(name) == key {
			return VariationType(i), nil
		}
	}
	return 0, lookupError("unknown variation type %q", s)
}

// VariationTypeFromCode decodes an on-disk variation type code.
func VariationTypeFromCode(code uint64) (VariationType, error) {
	if code >= uint64(numVariationType) {
		return 0, decodeError("variation type", code)
	}
	return VariationType(code), nil
}

// SvType is the type of a structural variant.
type SvType uint8

// Structural variant types.  The codes are stored on disk; append only.
const (
	SvDel SvType = iota
	SvDup
	SvInv
	// SvIns has no reference span and never overlaps anything.
	SvIns
	// SvBnd has no reference span and never overlaps anything.
	SvBnd
	// SvCnv matches both SvDel and SvDup; see Compatible.
	SvCnv
	numSvType
)

var svTypeNames = [...]string{
	SvDel: "DEL",
	SvDup: "DUP",
	SvInv: "INV",
	SvIns: "INS",
	SvBnd: "BND",
	SvCnv: "CNV",
}

// String returns the VCF spelling of t, e.g., "DEL".
func (t SvType) String() string {
	if t < numSvType {
		return svTypeNames[t]
	}
	return fmt.Sprintf("SvType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t SvType) MarshalText() ([]byte, error) {
	if t >= numSvType {
		return nil, decodeError("SV type", uint64(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *SvType) UnmarshalText(text []byte) error {
	v, err := ParseSvType(string(text))
	if err == nil {
		*t = v
	}
	return err
}

// ParseSvType parses an SV type such as "DEL" or "<DUP>", case-insensitively.
func ParseSvType(s string) (SvType, error) {
	key := normalizeName(strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">"))
	for i, name := range svTypeNames {
		if normalizeName(name) == key {
			return SvType(i), nil
		}
	}
	return 0, lookupError("unknown SV type %q", s)
}

// SvTypeFromCode decodes an on-disk SV type code.
func SvTypeFromCode(code uint64) (SvType, error) {
	if code >= uint64(numSvType) {
		return 0, decodeError("SV type", code)
	}
	return SvType(code), nil
}

// HasSpan reports whether variants of this type describe a genomic span.
// Insertions and breakends only mark a position, so they never overlap
// anything in the reciprocal-overlap sense.
func (t SvType) HasSpan() bool {
	return t != SvIns && t != SvBnd
}

// Compatible reports whether a background record of type other may count as
// the same event as a variant of type t.  CNVs match deletions and
// duplications in both directions.
func (t SvType) Compatible(other SvType) bool {
	if t == other {
		return true
	}
	isCopyNumber := func(x SvType) bool { return x == SvDel || x == SvDup }
	return (t == SvCnv && isCopyNumber(other)) || (other == SvCnv && isCopyNumber(t))
}

func normalizeName(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
}
