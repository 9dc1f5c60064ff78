package shaderlib

import (
	"fmt"
	"strings"
)

// Assemble composes a complete WGSL compute program from input parts, an
// output part, extra uniform fields, and a body that must define the
// outputFor function the output part calls.
//
// Binding layout, which the execution layer relies on:
//
//	@binding(0)  uniform params
//	@binding(1…) one storage buffer per input part, in order
//	@binding(n)  the output part's read_write buffer
//
// The params struct lists fields in declaration order: each input part's
// uniforms, the output part's, then extras. Callers keep vec2 fields
// ahead of scalars so the host-side packing stays a flat slot walk; the
// struct is padded to a 16-byte multiple.
func Assemble(inputs []Part, output Part, extras []Uniform, body string) string {
	var b strings.Builder

	fields := make([]Uniform, 0, 8)
	for _, in := range inputs {
		fields = append(fields, in.Uniforms...)
	}
	fields = append(fields, output.Uniforms...)
	fields = append(fields, extras...)

	b.WriteString("struct Params {\n")
	slots := 0
	for _, f := range fields {
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name, f.WGSLType)
		if f.WGSLType == "vec2<f32>" {
			slots += 2
		} else {
			slots++
		}
	}
	for i := 0; slots%4 != 0; i++ {
		fmt.Fprintf(&b, "    _pad%d: f32,\n", i)
		slots++
	}
	b.WriteString("}\n")

	b.WriteString("@group(0) @binding(0) var<uniform> params: Params;\n")
	binding := 1
	for _, in := range inputs {
		for _, bd := range in.Bindings {
			fmt.Fprintf(&b, "@group(0) @binding(%d) var<storage, read> %s: array<%s>;\n",
				binding, bd.Name, bd.ElemType)
			binding++
		}
	}
	for _, bd := range output.Bindings {
		fmt.Fprintf(&b, "@group(0) @binding(%d) var<storage, read_write> %s: array<%s>;\n",
			binding, bd.Name, bd.ElemType)
		binding++
	}
	b.WriteString("\n")

	b.WriteString(Prelude)
	b.WriteString("\n")
	for _, in := range inputs {
		b.WriteString(in.Code)
		b.WriteString("\n")
	}
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(output.Code)

	return b.String()
}
