package refdb

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// The error taxonomy of this package maps onto grailbio/base/errors kinds:
//
//   IOError      NotExist, NotAllowed, Unavailable  dataset file missing or unreadable
//   FormatError  Integrity                          header/root missing or malformed
//   DecodeError  NotSupported                       coded field outside its enumeration
//   LookupError  Invalid                            unknown chromosome, release, dataset, or bad range
//
// Load-time errors (the first three) abort loading of the affected dataset.
// LookupErrors are per-request client errors.

func lookupError(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf(format, args...))
}

func decodeError(field string, code uint64) error {
	return errors.E(errors.NotSupported, fmt.Sprintf("unknown %s code %d", field, code))
}

func formatError(format string, args ...interface{}) error {
	return errors.E(errors.Integrity, fmt.Sprintf(format, args...))
}

// IsLookupError reports whether err is a per-request client error: an
// unknown chromosome, release, dataset or dataset variant, or an invalid
// range.
func IsLookupError(err error) bool { return errors.Is(errors.Invalid, err) }

// IsFormatError reports whether err was caused by a structurally invalid
// dataset file.
func IsFormatError(err error) bool { return errors.Is(errors.Integrity, err) }

// IsDecodeError reports whether err was caused by a coded field value
// outside its known enumeration.
func IsDecodeError(err error) bool { return errors.Is(errors.NotSupported, err) }

// IsIOError reports whether err was caused by a missing or unreadable
// dataset file.
func IsIOError(err error) bool {
	return errors.Is(errors.NotExist, err) || errors.Is(errors.NotAllowed, err) || errors.Is(errors.Unavailable, err)
}
