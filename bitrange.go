package quirk

import "fmt"

// Qubit-space limits.
//
// Generated shaders perform all index arithmetic in 32-bit floats, which
// hold integers exactly only below 2^24. Capping the global qubit count
// keeps every intermediate index (including recombined carries) well
// inside the exact range.
const (
	// MaxQubits is the largest supported size of the global qubit ordering.
	MaxQubits = 16

	// MaxSpan is the largest number of contiguous qubits a single gate
	// may act upon.
	MaxSpan = 16
)

// BitRange identifies a contiguous slice of qubits within the global
// ordering: Len qubits starting at bit Offset.
//
// A gate reads auxiliary ranges without permuting them; they are supplied
// fresh per evaluation request and are not retained by the engine.
type BitRange struct {
	// Offset is the bit position of the range's lowest-order qubit.
	Offset int

	// Len is the number of qubits in the range.
	Len int
}

// Valid reports whether the range lies inside the supported qubit space
// and has at least one qubit.
func (r BitRange) Valid() bool {
	return r.Offset >= 0 && r.Len >= 1 && r.Offset+r.Len <= MaxQubits
}

// Overlaps reports whether the range shares any qubit with the span of
// length n starting at bit offset o.
func (r BitRange) Overlaps(o, n int) bool {
	return r.Offset < o+n && o < r.Offset+r.Len
}

// String returns a compact "[offset,offset+len)" form for diagnostics.
func (r BitRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Offset, r.Offset+r.Len)
}

// Context carries the auxiliary bit-ranges an evaluation request may
// reference. The recognized inputs are enumerated statically; a gate
// declares which of them it requires and evaluation fails with
// [ErrMissingContext] when a required one is nil.
type Context struct {
	// RangeA is "Input Range A": the first operand of binary-input gates
	// and the sole operand of the +A/−A and flip gates.
	RangeA *BitRange

	// RangeB is "Input Range B": the second operand of comparison gates.
	RangeB *BitRange
}
