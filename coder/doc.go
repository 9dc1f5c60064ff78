// Package coder packs typed logical arrays into device pixel buffers and
// back.
//
// A logical array of booleans, floats, 2-vectors, or 4-vectors is laid out
// row-major across a power-of-two 2D pixel grid. Two coder families exist,
// mirroring the two readback paths real devices offer:
//
//   - [IntoFloats]: one logical value per float pixel. Floats occupy the R
//     component, 2-vectors RG, 4-vectors RGBA; booleans use single-byte
//     pixels. No size overhead.
//   - [IntoBytes]: values are spread across byte-quartet pixels. A float
//     fills one pixel's four bytes; a 2-vector fills two pixels and a
//     4-vector four, so those coders carry a power-of-two size overhead
//     and require 4-wide rearrangement after a GPU pass that produced one
//     logical value per pixel.
//
// Encode and Decode are mutual inverses on every valid input, and Decode
// rejects buffers whose pixel count is not a power of two consistent with
// the coder's overhead before any device round-trip happens.
package coder
