package gates

import "github.com/AbdallaEssamAli/Quirk/ket"

// flipBody reflects out_id around the threshold d read from Input
// Range A, leaving states beyond the threshold alone. The strict form
// maps out < d to d-1-out; the inclusive form maps out <= d to d-out.
// Either way the reflected interval maps onto itself, so the body is an
// involution.
func flipBody(op ket.CmpOp, bias int) ket.Body {
	d := ket.ExtractBits(ket.FullOutID(), "offset_a", "span_a")
	reflected := ket.Sub(ket.Sub(d, ket.C(float64(bias))), ket.OutID())
	return ket.Permutation{
		Source: ket.Select(ket.Compare(op, ket.OutID(), d), reflected, ket.OutID()),
	}
}
