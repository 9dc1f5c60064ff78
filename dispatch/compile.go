package dispatch

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/AbdallaEssamAli/Quirk/ket"
)

// CompileProgram lowers a synthesized program's WGSL to SPIR-V through
// naga. Useful for validating a program ahead of device submission and
// for backends consuming SPIR-V directly; the Engine itself compiles
// through the hal shader module path.
func CompileProgram(prog *ket.Program) ([]byte, error) {
	spirv, err := naga.Compile(prog.WGSL)
	if err != nil {
		return nil, fmt.Errorf("dispatch: compile program: %w", err)
	}
	return spirv, nil
}
