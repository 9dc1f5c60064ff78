package sim

import (
	"errors"
	"math"
	"testing"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/gates"
)

func TestNewState(t *testing.T) {
	s, err := NewState(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Amplitudes) != 8 {
		t.Fatalf("got %d amplitudes, want 8", len(s.Amplitudes))
	}
	if s.Amplitudes[0] != 1 {
		t.Errorf("amplitude of |000>: got %v, want 1", s.Amplitudes[0])
	}
	if got := s.Norm(); got != 1 {
		t.Errorf("norm: got %v, want 1", got)
	}
	if _, err := NewState(0); !errors.Is(err, quirk.ErrContractViolation) {
		t.Errorf("zero qubits: got %v, want ErrContractViolation", err)
	}
	if _, err := NewState(quirk.MaxQubits + 1); !errors.Is(err, quirk.ErrContractViolation) {
		t.Errorf("oversized state: got %v, want ErrContractViolation", err)
	}
}

func TestApplyEvolvesRegister(t *testing.T) {
	s, err := NewState(3)
	if err != nil {
		t.Fatal(err)
	}
	inc, err := gates.Evaluate(gates.Increment, 3, 0, s.Texture(), quirk.Context{})
	if err != nil {
		t.Fatal(err)
	}
	// |0> incremented five times lands on |5>.
	for i := 0; i < 5; i++ {
		if err := s.Apply(inc); err != nil {
			t.Fatal(err)
		}
	}
	probs := s.Probabilities()
	for basis, p := range probs {
		want := 0.0
		if basis == 5 {
			want = 1.0
		}
		if p != want {
			t.Errorf("probability of |%d>: got %v, want %v", basis, p, want)
		}
	}
	if got := s.Norm(); math.Abs(got-1) > 1e-12 {
		t.Errorf("norm after evolution: got %v", got)
	}
}

func TestFidelity(t *testing.T) {
	a, _ := NewState(2)
	b, _ := NewState(2)
	got, err := a.Fidelity(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("identical states: got %v, want 1", got)
	}

	inc, err := gates.Evaluate(gates.Increment, 2, 0, b.Texture(), quirk.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Apply(inc); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Fidelity(b); got != 0 {
		t.Errorf("orthogonal states: got %v, want 0", got)
	}

	c, _ := NewState(3)
	if _, err := a.Fidelity(c); !errors.Is(err, quirk.ErrContractViolation) {
		t.Errorf("size mismatch: got %v, want ErrContractViolation", err)
	}
}
