package quirk

import "errors"

// Error taxonomy for gate evaluation and coder contracts.
//
// All of these are detected synchronously on the host, before any GPU
// dispatch. The engine never retries internally: synthesis is pure and
// deterministic, so retrying with the same input cannot succeed.
var (
	// ErrContractViolation is returned for malformed coder input (wrong
	// element count, non-power-of-two buffer) or for an auxiliary bit-range
	// that overlaps the gate's own target span. Always fatal to the call.
	ErrContractViolation = errors.New("quirk: contract violation")

	// ErrMissingContext is returned when a gate's required auxiliary range
	// is absent from the supplied Context. Reported to the caller rather
	// than silently defaulted.
	ErrMissingContext = errors.New("quirk: missing required input range")

	// ErrNumericBoundary is returned when a synthesized permutation body
	// produces a value outside [0, 2^span), or a phase body produces a
	// non-unit-magnitude factor. It indicates a logic defect in a gate
	// body, not bad caller input.
	ErrNumericBoundary = errors.New("quirk: numeric boundary violation")
)
