package types

import "errors"

// Pipeline error classes. Handlers map these onto HTTP statuses; everything
// not matched falls through as a plain 500.
var (
	// ErrUnauthenticated means no user identity could be resolved from the
	// request. Surfaced before any pipeline stage runs.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUpstreamGeneration wraps any failure of the generative model call:
	// transport errors, timeouts, and unusable output. Fatal, no retry.
	ErrUpstreamGeneration = errors.New("itinerary generation failed")

	// ErrMalformedModelOutput is the syntax class: the model text was not
	// valid JSON after fence stripping.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrSchemaViolation is the structural class: the JSON parsed but did not
	// satisfy the itinerary contract (missing overview, wrong day count, ...).
	ErrSchemaViolation = errors.New("model output violates itinerary schema")

	// ErrPersistenceFailed wraps database errors from the nested insert. The
	// transaction boundary guarantees no partial rows remain.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrTripNotFound is returned by read paths for unknown trip ids.
	ErrTripNotFound = errors.New("trip not found")
)
