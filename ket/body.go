package ket

// Shape identifies the canonical program form a gate body selects.
type Shape int

const (
	// ShapeGeneral computes each output amplitude as a complex linear
	// combination of the two input amplitudes that differ only in the
	// qubit being written. Restricted to span 1.
	ShapeGeneral Shape = iota + 1

	// ShapePermutation relabels basis states: the body yields, for each
	// out_id, the index whose amplitude is read and placed at out_id
	// (the preimage under the gate's permutation). It must be a bijection
	// on [0, 2^span); anything else corrupts normalization.
	ShapePermutation

	// ShapePhase multiplies each amplitude in place by a unit-magnitude
	// complex factor depending only on the basis state.
	ShapePhase
)

func (s Shape) String() string {
	switch s {
	case ShapeGeneral:
		return "general"
	case ShapePermutation:
		return "permutation"
	case ShapePhase:
		return "phase"
	}
	return "unknown"
}

// Body is a gate's per-amplitude transformation rule. The concrete type
// selects the program shape.
type Body interface {
	Shape() Shape
}

// Permutation is a basis-state relabeling body. Source yields the
// preimage index for each out_id.
type Permutation struct {
	Source Expr
}

// Shape implements Body.
func (Permutation) Shape() Shape { return ShapePermutation }

// Phase is an in-place phase rotation body. Re and Im yield the factor's
// components; its magnitude must be exactly 1 for every basis state —
// a phase gate may never attenuate.
type Phase struct {
	Re, Im Expr
}

// Shape implements Body.
func (Phase) Shape() Shape { return ShapePhase }

// General is a full complex linear combination over the two amplitudes
// reachable by flipping the target qubit: out = c0*inp(0) + c1*inp(1).
// The coefficient expressions may reference out_id (the current value of
// the target bit) and full_out_id.
type General struct {
	C0Re, C0Im Expr
	C1Re, C1Im Expr
}

// Shape implements Body.
func (General) Shape() Shape { return ShapeGeneral }
