package ket

import (
	"fmt"
	"strings"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
	"github.com/AbdallaEssamAli/Quirk/shaderlib"
)

// Program is a fully parameterized, dispatchable description of one gate
// application. It is immutable once synthesized and never cached by the
// engine; callers own its lifetime.
type Program struct {
	// Shape is the canonical program form.
	Shape Shape

	// WGSL is the complete compute-shader source.
	WGSL string

	// Args is the ordered argument list the execution layer binds:
	// the state texture, grid sizes, the span and row powers, then any
	// custom per-gate uniforms.
	Args []coder.Arg

	// Span and Row locate the gate in the global qubit ordering.
	Span int
	Row  int

	body     Body
	uniforms map[string]float64
}

// stateCoder is the coder the state texture uses: one complex amplitude
// (a real/imaginary pair) per float pixel.
var stateCoder = coder.ByType(coder.IntoFloats, coder.TypeVec2)

// StateTexture returns the pixel grid a state of the given qubit count
// occupies, per the coder format contract the execution layer allocates
// against.
func StateTexture(qubits int) coder.Texture {
	return stateCoder.TextureFor(qubits)
}

// Synthesize lowers a gate body into a dispatchable program.
//
// span is the number of qubits the gate writes, row the offset of its
// lowest qubit in the global ordering. state describes the bound state
// texture. custom lists per-gate float uniforms (for example auxiliary
// bit-range powers); their names must be valid identifiers and must not
// collide with the implicit bindings.
func Synthesize(body Body, span, row int, state coder.Texture, custom []coder.Arg) (*Program, error) {
	if span < 1 || span > quirk.MaxSpan {
		return nil, fmt.Errorf("%w: span %d outside [1, %d]",
			quirk.ErrContractViolation, span, quirk.MaxSpan)
	}
	if row < 0 || row+span > quirk.MaxQubits {
		return nil, fmt.Errorf("%w: qubits [%d, %d) outside the supported ordering [0, %d)",
			quirk.ErrContractViolation, row, row+span, quirk.MaxQubits)
	}
	if body.Shape() == ShapeGeneral && span != 1 {
		return nil, fmt.Errorf("%w: general-shape bodies write a single qubit, span %d requested",
			quirk.ErrContractViolation, span)
	}
	statePower, err := stateCoder.ArrayPowerOfTexture(state)
	if err != nil {
		return nil, err
	}
	if statePower < row+span {
		return nil, fmt.Errorf("%w: state texture holds 2^%d amplitudes, gate needs qubits [%d, %d)",
			quirk.ErrContractViolation, statePower, row, row+span)
	}

	uniforms := map[string]float64{
		"span": float64(uint(1) << span),
		"row":  float64(uint(1) << row),
	}
	extras := []shaderlib.Uniform{
		{Name: "span", WGSLType: "f32"},
		{Name: "row", WGSLType: "f32"},
	}
	for _, a := range custom {
		if a.Kind != coder.ArgFloat {
			return nil, fmt.Errorf("%w: custom argument %q must be a float uniform",
				quirk.ErrContractViolation, a.Name)
		}
		if _, taken := uniforms[a.Name]; taken || localRefs[a.Name] {
			return nil, fmt.Errorf("%w: custom argument %q collides with an implicit binding",
				quirk.ErrContractViolation, a.Name)
		}
		uniforms[a.Name] = a.Float
		extras = append(extras, shaderlib.Uniform{Name: a.Name, WGSLType: "f32"})
	}

	ketIn, err := shaderlib.InputPart(coder.TypeVec2, "ket")
	if err != nil {
		return nil, err
	}
	out := shaderlib.OutputPart(coder.TypeVec2)
	src := shaderlib.Assemble([]shaderlib.Part{ketIn}, out, extras, outputForBody(body))

	args := append(ketIn.Args(state), out.Args(state)...)
	args = append(args,
		coder.FloatArg("span", uniforms["span"]),
		coder.FloatArg("row", uniforms["row"]),
	)
	args = append(args, custom...)

	quirk.Logger().Debug("synthesized ket program",
		"shape", body.Shape().String(), "span", span, "row", row, "sourceBytes", len(src))

	return &Program{
		Shape:    body.Shape(),
		WGSL:     src,
		Args:     args,
		Span:     span,
		Row:      row,
		body:     body,
		uniforms: uniforms,
	}, nil
}

// outputForBody emits the shape-specific outputFor function around the
// lowered body expressions.
func outputForBody(body Body) string {
	var b strings.Builder
	b.WriteString("fn outputFor(k: f32) -> vec2<f32> {\n")
	b.WriteString("    let full_out_id = k;\n")
	b.WriteString("    let out_id = qmod(floor(full_out_id / params.row), params.span);\n")
	switch body := body.(type) {
	case Permutation:
		fmt.Fprintf(&b, "    let src = %s;\n", WGSL(body.Source))
		b.WriteString("    return read_ket(full_out_id + (src - out_id) * params.row);\n")
	case Phase:
		b.WriteString("    let amp = read_ket(full_out_id);\n")
		fmt.Fprintf(&b, "    let ph = vec2<f32>(%s, %s);\n", WGSL(body.Re), WGSL(body.Im))
		b.WriteString("    return vec2<f32>(amp.x * ph.x - amp.y * ph.y, amp.x * ph.y + amp.y * ph.x);\n")
	case General:
		b.WriteString("    let base = full_out_id - out_id * params.row;\n")
		b.WriteString("    let a0 = read_ket(base);\n")
		b.WriteString("    let a1 = read_ket(base + params.row);\n")
		fmt.Fprintf(&b, "    let c0 = vec2<f32>(%s, %s);\n", WGSL(body.C0Re), WGSL(body.C0Im))
		fmt.Fprintf(&b, "    let c1 = vec2<f32>(%s, %s);\n", WGSL(body.C1Re), WGSL(body.C1Im))
		b.WriteString("    return vec2<f32>(\n")
		b.WriteString("        c0.x * a0.x - c0.y * a0.y + c1.x * a1.x - c1.y * a1.y,\n")
		b.WriteString("        c0.x * a0.y + c0.y * a0.x + c1.x * a1.y + c1.y * a1.x);\n")
	}
	b.WriteString("}")
	return b.String()
}
