package gates

import "github.com/AbdallaEssamAli/Quirk/ket"

// compareBody XORs the single target qubit with the result of comparing
// Input Range A against Input Range B. Expressed as a general-shape
// combination over one qubit: when the comparison holds the output takes
// the opposite basis state's amplitude, otherwise it keeps its own. The
// per-basis matrix is either identity or a bit flip, so the body is
// trivially unitary.
func compareBody(op ket.CmpOp) ket.Body {
	a := ket.ExtractBits(ket.FullOutID(), "offset_a", "span_a")
	b := ket.ExtractBits(ket.FullOutID(), "offset_b", "span_b")
	match := ket.Compare(op, a, b)

	isZero := ket.Compare(ket.CmpEq, ket.OutID(), ket.C(0))
	isOne := ket.Compare(ket.CmpEq, ket.OutID(), ket.C(1))

	return ket.General{
		C0Re: ket.Select(match, isOne, isZero), C0Im: ket.C(0),
		C1Re: ket.Select(match, isZero, isOne), C1Im: ket.C(0),
	}
}
