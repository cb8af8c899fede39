package refdb

// StructuralVariant is a query variant: a 0-based half-open span on one
// chromosome and its SV type.
type StructuralVariant struct {
	Chrom      string
	Begin, End uint32
	SvType     SvType
}

// ReciprocalOverlap returns |[b1, e1) ∩ [b2, e2)| divided by the length of
// the longer of the two spans. It is 0 for disjoint spans and when both
// spans are empty.
func ReciprocalOverlap(b1, e1, b2, e2 uint32) float64 {
	lo, hi := b1, e1
	if b2 > lo {
		lo = b2
	}
	if e2 < hi {
		hi = e2
	}
	if hi <= lo {
		return 0
	}
	longest := e1 - b1
	if l := e2 - b2; l > longest {
		longest = l
	}
	return float64(hi-lo) / float64(longest)
}

// overlapsEnough reports whether a record span passes a reciprocal-overlap
// minimum. A zero minimum admits any nonzero overlap.
func overlapsEnough(sv StructuralVariant, begin, end uint32, minOverlap float64) bool {
	ro := ReciprocalOverlap(sv.Begin, sv.End, begin, end)
	return ro > 0 && ro >= minOverlap
}
