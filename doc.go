// Package quirk provides a GPU shader engine for quantum state-vector
// simulation.
//
// # Overview
//
// quirk evolves a 2^n-amplitude quantum state by applying gates as GPU
// compute programs over a texture-encoded amplitude buffer. Gate bodies
// are small arithmetic expressions over basis-state indices; the engine
// synthesizes them into one of three canonical program shapes and binds
// every argument a dispatcher needs.
//
// # Architecture
//
// The library is organized into:
//   - Public API: BitRange, Context, error taxonomy, logging (this package)
//   - coder: packing of logical bool/float/vec2/vec4 arrays into pixel grids
//   - shaderlib: reusable WGSL read/write snippets plus argument builders
//   - ket: expression IR, program synthesis, and a host-side evaluator
//   - gates: the arithmetic gate family built on ket
//   - sim: host-side state vectors for fallback execution and verification
//   - dispatch: wgpu compute execution of synthesized programs
//   - display: probability heatmaps for debugging
//
// # Quick Start
//
//	st, err := sim.NewState(5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prog, err := gates.Evaluate(gates.Increment, 3, 0, st.Texture(), quirk.Context{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := st.Apply(prog); err != nil {
//	    log.Fatal(err)
//	}
//
// The same program can instead be handed to dispatch.Engine for GPU
// execution; the two paths agree exactly on every basis state.
//
// # Numeric Model
//
// All index arithmetic inside generated shaders runs in 32-bit floats,
// which represent integers exactly below 2^24. The engine therefore caps
// the addressable qubit count at [MaxQubits] so no intermediate index can
// leave the exact range.
package quirk

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
