package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about stored records, not validation failures:
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrStaleVersion: the write was based on a version that is no longer current
//   - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, unknown fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStaleVersion = errors.New("stale version")
	ErrUnavailable  = errors.New("unavailable")
)
