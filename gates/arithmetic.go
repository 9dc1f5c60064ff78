package gates

import "github.com/AbdallaEssamAli/Quirk/ket"

// Gate bodies compute preimages: the returned expression names the
// out_id whose amplitude should be read and placed at the current
// position. Incrementing the register therefore reads from out_id-1.

// incrementBody offsets the register by a fixed amount modulo 2^span.
// The span uniform carries 2^span, so the formula stays span-generic.
func incrementBody(amount int) ket.Body {
	return ket.Permutation{
		Source: ket.Mod(
			ket.Add(ket.Sub(ket.OutID(), ket.C(float64(amount))), ket.R("span")),
			ket.R("span")),
	}
}

// halfRegisterBody folds one half of the register into the other.
// The span splits into an addend of sa = floor(span/2) qubits at the
// low end and an accumulator of sb = span-sa qubits above it; the gate
// maps (a, b) to (a, (b±a) mod 2^sb). Both halves are fixed at
// synthesis time, so their sizes lower as constants.
func halfRegisterBody(span int, subtract bool) ket.Body {
	sa := span / 2
	saN := ket.C(float64(int64(1) << sa))
	sbN := ket.C(float64(int64(1) << (span - sa)))

	a := ket.Mod(ket.OutID(), saN)
	b := ket.Floor(ket.Div(ket.OutID(), saN))

	// Preimage of b += a is b' - a; preimage of b -= a is b' + a.
	src := ket.Sub(b, a)
	if subtract {
		src = ket.Add(b, a)
	}
	src = ket.Mod(ket.Add(src, sbN), sbN)

	return ket.Permutation{Source: ket.Add(a, ket.Mul(src, saN))}
}

// offsetByRangeBody offsets the register by the value held in Input
// Range A, read out of full_out_id. The addend may be wider than the
// register; the floored modulus wraps it either way.
func offsetByRangeBody(subtract bool) ket.Body {
	a := ket.ExtractBits(ket.FullOutID(), "offset_a", "span_a")
	src := ket.Sub(ket.OutID(), a)
	if subtract {
		src = ket.Add(ket.OutID(), a)
	}
	return ket.Permutation{
		Source: ket.Mod(ket.Add(src, ket.R("span")), ket.R("span")),
	}
}
