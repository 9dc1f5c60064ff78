package dispatch

import (
	"strings"
	"testing"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/gates"
	"github.com/AbdallaEssamAli/Quirk/ket"
)

// TestCompileEveryGate lowers every gate's generated WGSL to SPIR-V.
func TestCompileEveryGate(t *testing.T) {
	state := ket.StateTexture(8)
	ctxA := quirk.Context{RangeA: &quirk.BitRange{Offset: 4, Len: 2}}
	ctxAB := quirk.Context{
		RangeA: &quirk.BitRange{Offset: 4, Len: 2},
		RangeB: &quirk.BitRange{Offset: 6, Len: 2},
	}
	cases := []struct {
		id   gates.ID
		span int
		ctx  quirk.Context
	}{
		{gates.Increment, 3, quirk.Context{}},
		{gates.Decrement, 3, quirk.Context{}},
		{gates.Add, 4, quirk.Context{}},
		{gates.Subtract, 4, quirk.Context{}},
		{gates.PlusA, 3, ctxA},
		{gates.MinusA, 3, ctxA},
		{gates.FlipBelowA, 3, ctxA},
		{gates.FlipAtOrBelowA, 3, ctxA},
		{gates.ALessThanB, 1, ctxAB},
		{gates.AGreaterThanB, 1, ctxAB},
		{gates.ALessOrEqualB, 1, ctxAB},
		{gates.AGreaterOrEqualB, 1, ctxAB},
		{gates.AEqualB, 1, ctxAB},
		{gates.ANotEqualB, 1, ctxAB},
	}
	for _, tc := range cases {
		prog, err := gates.Evaluate(tc.id, tc.span, 0, state, tc.ctx)
		if err != nil {
			t.Fatalf("%v: %v", tc.id, err)
		}
		spirv, err := CompileProgram(prog)
		if err != nil {
			msg := err.Error()
			if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
				t.Skipf("naga limitation: %v", err)
			}
			t.Fatalf("%v: %v", tc.id, err)
		}
		if len(spirv) < 4 {
			t.Fatalf("%v: SPIR-V too short", tc.id)
		}
		magic := uint32(spirv[0]) | uint32(spirv[1])<<8 | uint32(spirv[2])<<16 | uint32(spirv[3])<<24
		if magic != 0x07230203 {
			t.Errorf("%v: invalid SPIR-V magic 0x%08X", tc.id, magic)
		}
	}
}
