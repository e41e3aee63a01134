package overview

import "errors"

var (
	// ErrInvalidInput indicates a malformed date or out-of-range column
	// count. Rejected before any side effect.
	ErrInvalidInput = errors.New("invalid overview input")
	// ErrStoreUnavailable indicates a preference read or write failure.
	// Resolution proceeds with in-memory values; surfaced as a warning.
	ErrStoreUnavailable = errors.New("preference store unavailable")
	// ErrQueryFailed indicates a single group's item query failed. Other
	// groups still aggregate.
	ErrQueryFailed = errors.New("group query failed")
	// ErrTimeout indicates a group's item query exceeded the caller
	// deadline.
	ErrTimeout = errors.New("group query timed out")
)
