//go:build !nogpu

package dispatch

import (
	"math"
	"testing"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/gates"
	"github.com/AbdallaEssamAli/Quirk/ket"
)

// TestEngineMatchesHostEvaluation runs a synthesized program on the
// device and checks the read-back amplitudes against the host-side
// interpreter. Requires a working Vulkan adapter.
func TestEngineMatchesHostEvaluation(t *testing.T) {
	eng, err := NewEngine()
	if err != nil {
		t.Skipf("no GPU available: %v", err)
	}
	defer eng.Close()

	const qubits = 3
	prog, err := gates.Evaluate(gates.Increment, qubits, 0, ket.StateTexture(qubits), quirk.Context{})
	if err != nil {
		t.Fatal(err)
	}

	amps := make([]complex128, 1<<qubits)
	for i := range amps {
		amps[i] = complex(float64(i), 0.5)
	}
	want, err := prog.Apply(amps)
	if err != nil {
		t.Fatal(err)
	}
	got, err := eng.Run(prog, amps)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(real(got[i])-real(want[i])) > 1e-5 ||
			math.Abs(imag(got[i])-imag(want[i])) > 1e-5 {
			t.Errorf("basis %d: device %v, host %v", i, got[i], want[i])
		}
	}
}

func TestEngineRejectsClosedEngine(t *testing.T) {
	eng, err := NewEngine()
	if err != nil {
		t.Skipf("no GPU available: %v", err)
	}
	eng.Close()
	prog, err := gates.Evaluate(gates.Decrement, 2, 0, ket.StateTexture(2), quirk.Context{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := eng.Run(prog, make([]complex128, 4)); err == nil {
		t.Error("Run on a closed engine should fail")
	}
}
