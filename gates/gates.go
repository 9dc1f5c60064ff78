package gates

import (
	"fmt"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
	"github.com/AbdallaEssamAli/Quirk/ket"
)

// ID names one gate in the library.
type ID int

const (
	// Increment adds 1 to the target register modulo 2^span.
	Increment ID = iota + 1

	// Decrement subtracts 1 from the target register modulo 2^span.
	Decrement

	// Add folds the lower half-register into the upper one:
	// (a, b) becomes (a, (b+a) mod 2^sb).
	Add

	// Subtract is the inverse of Add: (a, b) becomes (a, (b-a) mod 2^sb).
	Subtract

	// PlusA adds the value read from Input Range A into the target
	// register modulo 2^span.
	PlusA

	// MinusA subtracts the value read from Input Range A from the target
	// register modulo 2^span.
	MinusA

	// FlipBelowA reflects basis states strictly below the threshold read
	// from Input Range A: out < d maps to d-1-out.
	FlipBelowA

	// FlipAtOrBelowA reflects basis states at or below the threshold:
	// out <= d maps to d-out.
	FlipAtOrBelowA

	// The comparison gates toggle a single target qubit with the boolean
	// result of comparing Input Range A against Input Range B.
	ALessThanB
	AGreaterThanB
	ALessOrEqualB
	AGreaterOrEqualB
	AEqualB
	ANotEqualB
)

// String returns the gate's display symbol.
func (id ID) String() string {
	if info, ok := infos[id]; ok {
		return info.Symbol
	}
	return fmt.Sprintf("gates.ID(%d)", int(id))
}

// Info describes a gate's requirements and capabilities.
type Info struct {
	// Symbol is the display form used in diagnostics.
	Symbol string

	// Shape is the canonical program shape the gate's body produces.
	Shape ket.Shape

	// NeedsRangeA and NeedsRangeB name the auxiliary ranges the gate
	// reads. Evaluation fails with ErrMissingContext when a required
	// range is absent.
	NeedsRangeA bool
	NeedsRangeB bool

	// MinSpan and MaxSpan bound the spans the gate supports.
	MinSpan int
	MaxSpan int

	// MatrixMaxSpan is the exclusive span threshold below which
	// DenseMatrix can produce an explicit matrix form. Zero means the
	// gate has no dense form.
	MatrixMaxSpan int
}

var infos = map[ID]Info{
	Increment: {Symbol: "++", Shape: ket.ShapePermutation, MinSpan: 1, MaxSpan: quirk.MaxSpan, MatrixMaxSpan: 4},
	Decrement: {Symbol: "--", Shape: ket.ShapePermutation, MinSpan: 1, MaxSpan: quirk.MaxSpan, MatrixMaxSpan: 4},
	Add:       {Symbol: "b+=a", Shape: ket.ShapePermutation, MinSpan: 2, MaxSpan: quirk.MaxSpan, MatrixMaxSpan: 5},
	Subtract:  {Symbol: "b-=a", Shape: ket.ShapePermutation, MinSpan: 2, MaxSpan: quirk.MaxSpan, MatrixMaxSpan: 5},

	PlusA:  {Symbol: "+=A", Shape: ket.ShapePermutation, NeedsRangeA: true, MinSpan: 1, MaxSpan: quirk.MaxSpan},
	MinusA: {Symbol: "-=A", Shape: ket.ShapePermutation, NeedsRangeA: true, MinSpan: 1, MaxSpan: quirk.MaxSpan},

	FlipBelowA:     {Symbol: "Flip<A", Shape: ket.ShapePermutation, NeedsRangeA: true, MinSpan: 1, MaxSpan: quirk.MaxSpan},
	FlipAtOrBelowA: {Symbol: "Flip<=A", Shape: ket.ShapePermutation, NeedsRangeA: true, MinSpan: 1, MaxSpan: quirk.MaxSpan},

	ALessThanB:       {Symbol: "^A<B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
	AGreaterThanB:    {Symbol: "^A>B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
	ALessOrEqualB:    {Symbol: "^A<=B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
	AGreaterOrEqualB: {Symbol: "^A>=B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
	AEqualB:          {Symbol: "^A=B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
	ANotEqualB:       {Symbol: "^A!=B", Shape: ket.ShapeGeneral, NeedsRangeA: true, NeedsRangeB: true, MinSpan: 1, MaxSpan: 1},
}

// InfoFor returns the descriptor for a gate identifier.
func InfoFor(id ID) (Info, error) {
	info, ok := infos[id]
	if !ok {
		return Info{}, fmt.Errorf("%w: unknown gate identifier %d",
			quirk.ErrContractViolation, int(id))
	}
	return info, nil
}

// Evaluate builds the synthesized program for one gate-application
// request: gate id, qubit span, target row and the auxiliary-range
// context. Required ranges are validated here at a single point; gate
// bodies may then assume their presence.
func Evaluate(id ID, span, row int, state coder.Texture, ctx quirk.Context) (*ket.Program, error) {
	info, err := InfoFor(id)
	if err != nil {
		return nil, err
	}
	if span < info.MinSpan || span > info.MaxSpan {
		return nil, fmt.Errorf("%w: gate %s supports spans [%d, %d], got %d",
			quirk.ErrContractViolation, info.Symbol, info.MinSpan, info.MaxSpan, span)
	}
	custom, err := rangeArgs(info, span, row, ctx)
	if err != nil {
		return nil, fmt.Errorf("gate %s: %w", info.Symbol, err)
	}
	body, err := bodyFor(id, span)
	if err != nil {
		return nil, err
	}
	return ket.Synthesize(body, span, row, state, custom)
}

// rangeArgs validates the auxiliary ranges a gate requires and converts
// them into the power-of-two uniforms its body expression extracts bits
// with.
func rangeArgs(info Info, span, row int, ctx quirk.Context) ([]coder.Arg, error) {
	var args []coder.Arg
	if info.NeedsRangeA {
		a, err := checkRange("Input Range A", ctx.RangeA, span, row)
		if err != nil {
			return nil, err
		}
		args = append(args,
			coder.FloatArg("offset_a", pow2(a.Offset)),
			coder.FloatArg("span_a", pow2(a.Len)))
	}
	if info.NeedsRangeB {
		b, err := checkRange("Input Range B", ctx.RangeB, span, row)
		if err != nil {
			return nil, err
		}
		if info.NeedsRangeA && b.Overlaps(ctx.RangeA.Offset, ctx.RangeA.Len) {
			return nil, fmt.Errorf("%w: Input Range B %v overlaps Input Range A %v",
				quirk.ErrContractViolation, *b, *ctx.RangeA)
		}
		args = append(args,
			coder.FloatArg("offset_b", pow2(b.Offset)),
			coder.FloatArg("span_b", pow2(b.Len)))
	}
	return args, nil
}

func checkRange(name string, r *quirk.BitRange, span, row int) (*quirk.BitRange, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", quirk.ErrMissingContext, name)
	}
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %s %v is outside the supported qubit space",
			quirk.ErrContractViolation, name, *r)
	}
	if r.Overlaps(row, span) {
		return nil, fmt.Errorf("%w: %s %v overlaps the target span [%d, %d)",
			quirk.ErrContractViolation, name, *r, row, row+span)
	}
	return r, nil
}

func pow2(n int) float64 {
	return float64(int64(1) << n)
}

// bodyFor dispatches over gate kinds to the per-family body builders.
func bodyFor(id ID, span int) (ket.Body, error) {
	switch id {
	case Increment:
		return incrementBody(1), nil
	case Decrement:
		return incrementBody(-1), nil
	case Add:
		return halfRegisterBody(span, false), nil
	case Subtract:
		return halfRegisterBody(span, true), nil
	case PlusA:
		return offsetByRangeBody(false), nil
	case MinusA:
		return offsetByRangeBody(true), nil
	case FlipBelowA:
		return flipBody(ket.CmpLt, 1), nil
	case FlipAtOrBelowA:
		return flipBody(ket.CmpLe, 0), nil
	case ALessThanB:
		return compareBody(ket.CmpLt), nil
	case AGreaterThanB:
		return compareBody(ket.CmpGt), nil
	case ALessOrEqualB:
		return compareBody(ket.CmpLe), nil
	case AGreaterOrEqualB:
		return compareBody(ket.CmpGe), nil
	case AEqualB:
		return compareBody(ket.CmpEq), nil
	case ANotEqualB:
		return compareBody(ket.CmpNe), nil
	}
	return nil, fmt.Errorf("%w: gate %d has no body builder",
		quirk.ErrContractViolation, int(id))
}
