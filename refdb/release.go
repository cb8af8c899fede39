package refdb

import (
	"fmt"
	"strings"
)

// Release is a genome reference release.  The set is closed: a Registry
// holds a Databases value for every Release.
type Release uint8

const (
	// GRCh37 is also known as hg19.
	GRCh37 Release = iota
	// GRCh38 is also known as hg38.
	GRCh38
	// NumReleases is the number of supported releases.
	NumReleases
)

var releaseNames = [...]string{GRCh37: "GRCh37", GRCh38: "GRCh38"}

// String returns the canonical release name, which is also the name of the
// release's database directory.
func (r Release) String() string {
	if r < NumReleases {
		return releaseNames[r]
	}
	return fmt.Sprintf("Release(%d)", r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Release) MarshalText() ([]byte, error) {
	if r >= NumReleases {
		return nil, lookupError("unknown release %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Release) UnmarshalText(text []byte) error {
	v, err := ParseRelease(string(text))
	if err == nil {
		*r = v
	}
	return err
}

// ParseRelease parses a release identifier, case-insensitively. The UCSC
// names hg19 and hg38 are accepted as aliases.
func ParseRelease(s string) (Release, error) {
	switch strings.ToLower(s) {
	case "grch37", "hg19":
		return GRCh37, nil
	case "grch38", "hg38":
		return GRCh38, nil
	}
	return 0, lookupError("unknown release %q", s)
}
