// Package sim holds a CPU-resident quantum state vector and applies
// synthesized programs to it. It is the reference execution path: the
// GPU dispatch layer must produce the same amplitudes this package
// computes.
package sim

import (
	"fmt"
	"math"
	"math/cmplx"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
	"github.com/AbdallaEssamAli/Quirk/ket"
)

// State is a 2^Qubits-dimensional complex state vector.
type State struct {
	Qubits     int
	Amplitudes []complex128
}

// NewState returns the all-zeros basis state |0...0> over the given
// number of qubits.
func NewState(qubits int) (*State, error) {
	if qubits < 1 || qubits > quirk.MaxQubits {
		return nil, fmt.Errorf("%w: state of %d qubits outside [1, %d]",
			quirk.ErrContractViolation, qubits, quirk.MaxQubits)
	}
	amps := make([]complex128, 1<<qubits)
	amps[0] = 1
	return &State{Qubits: qubits, Amplitudes: amps}, nil
}

// Texture returns the pixel-grid geometry a program over this state
// must be synthesized against.
func (s *State) Texture() coder.Texture {
	return ket.StateTexture(s.Qubits)
}

// Apply runs a synthesized program against the state, replacing the
// amplitude buffer with the program's output. The previous buffer is
// never written; a dispatch reads only its frozen preimage.
func (s *State) Apply(prog *ket.Program) error {
	out, err := prog.Apply(s.Amplitudes)
	if err != nil {
		return err
	}
	s.Amplitudes = out
	return nil
}

// Probabilities returns |amp|^2 for every basis state.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		re, im := real(a), imag(a)
		probs[i] = re*re + im*im
	}
	return probs
}

// Norm returns the Euclidean norm of the state vector. Unitary
// evolution keeps it at 1 up to floating error.
func (s *State) Norm() float64 {
	var sum float64
	for _, a := range s.Amplitudes {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// Fidelity returns |<s|o>|, the overlap magnitude between two states of
// the same size.
func (s *State) Fidelity(o *State) (float64, error) {
	if len(s.Amplitudes) != len(o.Amplitudes) {
		return 0, fmt.Errorf("%w: states of %d and %d qubits",
			quirk.ErrContractViolation, s.Qubits, o.Qubits)
	}
	var dot complex128
	for i, a := range s.Amplitudes {
		dot += cmplx.Conj(a) * o.Amplitudes[i]
	}
	return cmplx.Abs(dot), nil
}
