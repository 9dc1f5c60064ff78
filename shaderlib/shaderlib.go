// Package shaderlib provides the reusable WGSL fragments synthesized
// programs are assembled from: per-type input parts exposing
// read_<name>(k) and len_<name>() over a bound pixel buffer, and output
// parts writing one caller-supplied value per output pixel.
//
// Index math follows one mandatory mapping everywhere: a logical index k
// lands on pixel (k mod width, floor(k / width)), sampled at the pixel
// center (offset by half a pixel, normalized by the grid size). Buffers
// bound for reading hold one logical value per pixel, the IntoFloats
// layout of package coder.
package shaderlib

import (
	"fmt"
	"strings"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
)

// Prelude holds helper functions every assembled program needs.
// qmod is the floored modulus: unlike the WGSL % operator, which
// truncates, it keeps results in [0, y) for negative x, matching the
// index arithmetic of every gate body.
const Prelude = `fn qmod(x: f32, y: f32) -> f32 {
    return x - y * floor(x / y);
}
`

// Binding describes one storage buffer a part needs declared in the
// assembled program.
type Binding struct {
	// Name is the WGSL variable name (buf_<part name>).
	Name string

	// ElemType is the WGSL element type of the storage array.
	ElemType string

	// ReadWrite marks the program's output buffer.
	ReadWrite bool
}

// Uniform describes one field a part adds to the program's params struct.
type Uniform struct {
	Name     string
	WGSLType string
}

// Part is a reusable program fragment: the WGSL functions it contributes,
// the declarations it needs, and the builder for the arguments a
// dispatcher must bind for it.
type Part struct {
	// Name is the logical input name, or "out" for the output part.
	Name string

	// Type is the logical element type the part reads or writes.
	Type coder.Type

	// Code holds the contributed WGSL functions. Input parts define
	// read_<name>(k) and len_<name>(); output parts define the program
	// entry point, which calls a caller-supplied outputFor(k).
	Code string

	// Bindings lists the storage buffers the part references.
	Bindings []Binding

	// Uniforms lists the params-struct fields the part references.
	Uniforms []Uniform

	// Args builds the bound arguments for a concrete texture.
	Args func(tex coder.Texture) []coder.Arg
}

// validName reports whether name is usable as a WGSL identifier suffix.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// pixelIndex emits the mandatory logical-index-to-pixel mapping: row-major
// coordinates offset to pixel centers, normalized by the grid size, then
// resolved back to the linear pixel index of the bound buffer.
func pixelIndex(sizeField string) string {
	return fmt.Sprintf(`    let w = params.%[1]s.x;
    let xy = (vec2<f32>(qmod(k, w), floor(k / w)) + 0.5) / params.%[1]s;
    let i = u32(floor(xy.y * params.%[1]s.y) * w + floor(xy.x * params.%[1]s.x));
`, sizeField)
}

// InputPart returns the read part for a named logical input of the given
// type. The generated read_<name>(k) decodes the value at logical index
// k; len_<name>() reports the total element count of the bound buffer.
func InputPart(t coder.Type, name string) (Part, error) {
	if !validName(name) {
		return Part{}, fmt.Errorf("%w: input name %q is not a valid identifier",
			quirk.ErrContractViolation, name)
	}
	size := "size_" + name
	buf := "buf_" + name
	var b strings.Builder

	retType, elemType, load := "f32", "vec4<f32>", fmt.Sprintf("return %s[i].x;", buf)
	switch t {
	case coder.TypeBool:
		// The equality test against exactly 1.0 is the boolean read
		// contract: any other stored value reads as false.
		elemType = "u32"
		load = fmt.Sprintf("return select(0.0, 1.0, f32(%s[i]) == 1.0);", buf)
	case coder.TypeVec2:
		retType = "vec2<f32>"
		load = fmt.Sprintf("return %s[i].xy;", buf)
	case coder.TypeVec4:
		retType = "vec4<f32>"
		load = fmt.Sprintf("return %s[i];", buf)
	}

	fmt.Fprintf(&b, "fn read_%s(k: f32) -> %s {\n", name, retType)
	b.WriteString(pixelIndex(size))
	fmt.Fprintf(&b, "    %s\n}\n", load)
	fmt.Fprintf(&b, "fn len_%s() -> f32 {\n    return params.%s.x * params.%s.y;\n}\n",
		name, size, size)

	return Part{
		Name:     name,
		Type:     t,
		Code:     b.String(),
		Bindings: []Binding{{Name: buf, ElemType: elemType}},
		Uniforms: []Uniform{{Name: size, WGSLType: "vec2<f32>"}},
		Args: func(tex coder.Texture) []coder.Arg {
			return []coder.Arg{
				coder.TextureArg(name, tex),
				coder.Vec2Arg(size, float64(tex.Width), float64(tex.Height)),
			}
		},
	}, nil
}

// OutputPart returns the write part for the given type. The generated
// entry point derives, for each output pixel, the logical index k via the
// mandatory half-pixel-centered row-major mapping and stores the value of
// a caller-supplied outputFor(k).
func OutputPart(t coder.Type) Part {
	var b strings.Builder
	store := "buf_out[gid.x] = vec4<f32>(outputFor(k), 0.0, 0.0, 0.0);"
	elemType := "vec4<f32>"
	switch t {
	case coder.TypeBool:
		elemType = "u32"
		store = "buf_out[gid.x] = u32(outputFor(k));"
	case coder.TypeVec2:
		store = "buf_out[gid.x] = vec4<f32>(outputFor(k), 0.0, 0.0);"
	case coder.TypeVec4:
		store = "buf_out[gid.x] = outputFor(k);"
	}

	b.WriteString("@compute @workgroup_size(64)\n")
	b.WriteString("fn main(@builtin(global_invocation_id) gid: vec3<u32>) {\n")
	b.WriteString("    if (f32(gid.x) >= params.size_out.x * params.size_out.y) {\n        return;\n    }\n")
	b.WriteString(pixelIndexOut())
	fmt.Fprintf(&b, "    %s\n}\n", store)

	return Part{
		Name:     "out",
		Type:     t,
		Code:     b.String(),
		Bindings: []Binding{{Name: "buf_out", ElemType: elemType, ReadWrite: true}},
		Uniforms: []Uniform{{Name: "size_out", WGSLType: "vec2<f32>"}},
		Args: func(tex coder.Texture) []coder.Arg {
			return []coder.Arg{
				coder.Vec2Arg("size_out", float64(tex.Width), float64(tex.Height)),
			}
		},
	}
}

// pixelIndexOut emits the fragment-coordinate-to-logical-index mapping for
// the output part: the inverse of the input mapping, at pixel centers.
func pixelIndexOut() string {
	return `    let p = f32(gid.x);
    let w = params.size_out.x;
    let xy = vec2<f32>(qmod(p, w), floor(p / w)) + 0.5;
    let k = floor(xy.y) * w + floor(xy.x);
`
}
