package ket

import (
	"fmt"
	"math"
	"math/cmplx"

	quirk "github.com/AbdallaEssamAli/Quirk"
)

// Check brute-forces the program over a state of the given qubit count
// and verifies the invariants its shape promises: permutation bodies
// must induce a bijection on [0, 2^span) for every setting of the fixed
// bits, phase bodies must yield unit-magnitude factors everywhere, and
// general bodies must form a unitary combination. Debug builds run this
// before trusting a new gate body; violations are gate defects, not bad
// caller input.
func (p *Program) Check(qubits int) error {
	if qubits < p.Row+p.Span || qubits > quirk.MaxQubits {
		return fmt.Errorf("%w: check over %d qubits for gate on [%d, %d)",
			quirk.ErrContractViolation, qubits, p.Row, p.Row+p.Span)
	}
	n := 1 << qubits
	spanN := 1 << p.Span
	rowN := 1 << p.Row
	vars := make(map[string]float64, len(p.uniforms)+2)
	for k, v := range p.uniforms {
		vars[k] = v
	}

	// seen marks (fixed-bits group, source) pairs for bijectivity.
	var seen map[int]map[int]bool
	if p.Shape == ShapePermutation {
		seen = make(map[int]map[int]bool)
	}

	for full := 0; full < n; full++ {
		outID := (full >> p.Row) & (spanN - 1)
		vars["full_out_id"] = float64(full)
		vars["out_id"] = float64(outID)

		switch body := p.body.(type) {
		case Permutation:
			src, err := p.permSource(body, vars, outID)
			if err != nil {
				return err
			}
			group := full &^ ((spanN - 1) * rowN)
			g := seen[group]
			if g == nil {
				g = make(map[int]bool, spanN)
				seen[group] = g
			}
			if g[src] {
				return fmt.Errorf("%w: permutation reads source %d twice within group %d",
					quirk.ErrNumericBoundary, src, group)
			}
			g[src] = true

		case Phase:
			re, err := Eval(body.Re, vars)
			if err != nil {
				return err
			}
			im, err := Eval(body.Im, vars)
			if err != nil {
				return err
			}
			if math.Abs(math.Hypot(re, im)-1) > phaseTolerance {
				return fmt.Errorf("%w: phase magnitude %v at basis state %d",
					quirk.ErrNumericBoundary, math.Hypot(re, im), full)
			}

		case General:
			if outID == 0 {
				if err := p.checkGeneralUnitary(body, vars, full); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// checkGeneralUnitary validates that the 2x2 coefficient matrix a general
// body induces at a basis-state pair is unitary within tolerance.
func (p *Program) checkGeneralUnitary(body General, vars map[string]float64, full int) error {
	var rows [2][2]complex128
	for outID := 0; outID < 2; outID++ {
		vars["out_id"] = float64(outID)
		vars["full_out_id"] = float64(full + outID<<p.Row)
		c0, c1, err := p.generalCoefficients(body, vars)
		if err != nil {
			return err
		}
		rows[outID] = [2]complex128{c0, c1}
	}
	dot := func(a, b [2]complex128) complex128 {
		return a[0]*cmplx.Conj(b[0]) + a[1]*cmplx.Conj(b[1])
	}
	if cmplx.Abs(dot(rows[0], rows[0])-1) > phaseTolerance ||
		cmplx.Abs(dot(rows[1], rows[1])-1) > phaseTolerance ||
		cmplx.Abs(dot(rows[0], rows[1])) > phaseTolerance {
		return fmt.Errorf("%w: general body is not unitary at basis state %d",
			quirk.ErrNumericBoundary, full)
	}
	return nil
}
