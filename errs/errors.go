// Package errs defines sentinel errors shared across strata packages.
//
// Callers can use errors.Is to check for specific error conditions regardless
// of the contextual wrapping applied at the failure site.
package errs

import "errors"

var (
	// ErrZeroPageMask is returned when an entity pool is constructed with an
	// all-zero page ownership mask, under which no pages could ever be
	// claimed and no entities created.
	ErrZeroPageMask = errors.New("page ownership mask has no bits set")

	// ErrStreamTruncated is returned when an encoded replication record ends
	// before all declared sections have been read.
	ErrStreamTruncated = errors.New("encoded record truncated")

	// ErrStreamCorrupted is returned when an encoded replication record's
	// sections are internally inconsistent, such as a value count that does
	// not match the number of present bits.
	ErrStreamCorrupted = errors.New("encoded record corrupted")

	// ErrChecksumMismatch is returned when an encoded replication record's
	// checksum does not match its payload.
	ErrChecksumMismatch = errors.New("record checksum mismatch")
)
