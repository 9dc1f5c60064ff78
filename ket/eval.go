package ket

import (
	"fmt"
	"math"
	"math/bits"

	quirk "github.com/AbdallaEssamAli/Quirk"
)

// phaseTolerance bounds the deviation from unit magnitude a phase factor
// may show before it is treated as a gate-body defect.
const phaseTolerance = 1e-6

// Apply executes the program host-side against a state vector and
// returns the transformed state. The input slice is never written: each
// output amplitude derives solely from the frozen input, exactly as one
// GPU invocation per output pixel would compute it.
//
// Apply is the reference semantics for GPU dispatch and the fallback
// execution path when no device is available.
func (p *Program) Apply(amps []complex128) ([]complex128, error) {
	n := len(amps)
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: state of %d amplitudes is not a power of two",
			quirk.ErrContractViolation, n)
	}
	qubits := bits.TrailingZeros(uint(n))
	if qubits < p.Row+p.Span {
		return nil, fmt.Errorf("%w: state of %d qubits, gate needs qubits [%d, %d)",
			quirk.ErrContractViolation, qubits, p.Row, p.Row+p.Span)
	}

	spanN := 1 << p.Span
	rowN := 1 << p.Row
	vars := make(map[string]float64, len(p.uniforms)+2)
	for k, v := range p.uniforms {
		vars[k] = v
	}

	out := make([]complex128, n)
	for full := 0; full < n; full++ {
		outID := (full >> p.Row) & (spanN - 1)
		vars["full_out_id"] = float64(full)
		vars["out_id"] = float64(outID)

		switch body := p.body.(type) {
		case Permutation:
			src, err := p.permSource(body, vars, outID)
			if err != nil {
				return nil, err
			}
			out[full] = amps[full+(src-outID)*rowN]

		case Phase:
			re, err := Eval(body.Re, vars)
			if err != nil {
				return nil, err
			}
			im, err := Eval(body.Im, vars)
			if err != nil {
				return nil, err
			}
			if math.Abs(math.Hypot(re, im)-1) > phaseTolerance {
				return nil, fmt.Errorf("%w: phase factor (%v, %v) at out_id %d has magnitude %v",
					quirk.ErrNumericBoundary, re, im, outID, math.Hypot(re, im))
			}
			out[full] = amps[full] * complex(re, im)

		case General:
			c0, c1, err := p.generalCoefficients(body, vars)
			if err != nil {
				return nil, err
			}
			base := full - outID*rowN
			out[full] = c0*amps[base] + c1*amps[base+rowN]

		default:
			return nil, fmt.Errorf("%w: unknown body shape %v",
				quirk.ErrContractViolation, p.Shape)
		}
	}
	return out, nil
}

// permSource evaluates a permutation body and enforces the numeric
// boundary: the preimage must be an exact integer in [0, 2^span).
func (p *Program) permSource(body Permutation, vars map[string]float64, outID int) (int, error) {
	src, err := Eval(body.Source, vars)
	if err != nil {
		return 0, err
	}
	if src != math.Trunc(src) || src < 0 || src >= float64(uint(1)<<p.Span) {
		return 0, fmt.Errorf("%w: permutation source %v at out_id %d outside [0, 2^%d)",
			quirk.ErrNumericBoundary, src, outID, p.Span)
	}
	return int(src), nil
}

func (p *Program) generalCoefficients(body General, vars map[string]float64) (complex128, complex128, error) {
	c0re, err := Eval(body.C0Re, vars)
	if err != nil {
		return 0, 0, err
	}
	c0im, err := Eval(body.C0Im, vars)
	if err != nil {
		return 0, 0, err
	}
	c1re, err := Eval(body.C1Re, vars)
	if err != nil {
		return 0, 0, err
	}
	c1im, err := Eval(body.C1Im, vars)
	if err != nil {
		return 0, 0, err
	}
	return complex(c0re, c0im), complex(c1re, c1im), nil
}
