// Package gates is the arithmetic gate library: concrete per-gate body
// expressions built on top of ket synthesis.
//
// Each gate is identified by an [ID] and described by an [Info] record
// naming its display symbol, the auxiliary bit-ranges it requires and the
// span range it supports. [Evaluate] turns an identifier plus a span, a
// target row and an auxiliary-range context into a synthesized program
// ready for dispatch. Permutation-shaped gates additionally expose an
// explicit dense-matrix form for small spans via [DenseMatrix], used for
// verification and for callers preferring exact linear algebra over
// shader dispatch.
package gates
