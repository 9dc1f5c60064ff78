package coder

import (
	"encoding/binary"
	"fmt"
	"math"

	quirk "github.com/AbdallaEssamAli/Quirk"
)

// boolTrue is the stored byte for a true boolean: the unorm encoding of
// 1.0, so the shader-side `== 1.0` read test holds. Any other stored
// value decodes to false.
const boolTrue = 0xFF

func (c Coder) wrongType(want Type) error {
	return fmt.Errorf("%w: %v coder cannot carry a %v array",
		quirk.ErrContractViolation, c.Type, want)
}

// EncodeBools packs a boolean array, one element per pixel.
func (c Coder) EncodeBools(v []bool) (PixelBuffer, error) {
	if c.Type != TypeBool {
		return PixelBuffer{}, c.wrongType(TypeBool)
	}
	p, err := elemPowerOf(len(v))
	if err != nil {
		return PixelBuffer{}, err
	}
	tex := c.TextureFor(p)
	buf := PixelBuffer{Texture: tex, Bytes: make([]byte, 4*tex.PixelCount())}
	for i, b := range v {
		if b {
			buf.Bytes[4*i] = boolTrue
		}
	}
	return buf, nil
}

// DecodeBools unpacks a boolean array. A stored value decodes to true
// only when it is exactly the encoding of 1.0.
func (c Coder) DecodeBools(b PixelBuffer) ([]bool, error) {
	if c.Type != TypeBool {
		return nil, c.wrongType(TypeBool)
	}
	n, err := c.checkDecodable(b)
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = b.Bytes[4*i] == boolTrue
	}
	return out, nil
}

// EncodeFloats packs a float array: one float per pixel, in the R
// component (IntoFloats) or as the pixel's four IEEE 754 bytes
// (IntoBytes, little-endian).
func (c Coder) EncodeFloats(v []float32) (PixelBuffer, error) {
	if c.Type != TypeFloat {
		return PixelBuffer{}, c.wrongType(TypeFloat)
	}
	p, err := elemPowerOf(len(v))
	if err != nil {
		return PixelBuffer{}, err
	}
	tex := c.TextureFor(p)
	buf := PixelBuffer{Texture: tex}
	if c.Family == IntoFloats {
		buf.Floats = make([]float32, 4*tex.PixelCount())
		for i, f := range v {
			buf.Floats[4*i] = f
		}
		return buf, nil
	}
	buf.Bytes = make([]byte, 4*tex.PixelCount())
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf.Bytes[4*i:], math.Float32bits(f))
	}
	return buf, nil
}

// DecodeFloats unpacks a float array.
func (c Coder) DecodeFloats(b PixelBuffer) ([]float32, error) {
	if c.Type != TypeFloat {
		return nil, c.wrongType(TypeFloat)
	}
	n, err := c.checkDecodable(b)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		if c.Family == IntoFloats {
			out[i] = b.Floats[4*i]
		} else {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes[4*i:]))
		}
	}
	return out, nil
}

// EncodeVec2s packs a 2-vector array: one vector per pixel in RG
// (IntoFloats), or spread across two byte pixels per element (IntoBytes).
func (c Coder) EncodeVec2s(v []Vec2) (PixelBuffer, error) {
	if c.Type != TypeVec2 {
		return PixelBuffer{}, c.wrongType(TypeVec2)
	}
	p, err := elemPowerOf(len(v))
	if err != nil {
		return PixelBuffer{}, err
	}
	tex := c.TextureFor(p)
	buf := PixelBuffer{Texture: tex}
	if c.Family == IntoFloats {
		buf.Floats = make([]float32, 4*tex.PixelCount())
		for i, e := range v {
			buf.Floats[4*i] = e[0]
			buf.Floats[4*i+1] = e[1]
		}
		return buf, nil
	}
	buf.Bytes = make([]byte, 4*tex.PixelCount())
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf.Bytes[8*i:], math.Float32bits(e[0]))
		binary.LittleEndian.PutUint32(buf.Bytes[8*i+4:], math.Float32bits(e[1]))
	}
	return buf, nil
}

// DecodeVec2s unpacks a 2-vector array.
func (c Coder) DecodeVec2s(b PixelBuffer) ([]Vec2, error) {
	if c.Type != TypeVec2 {
		return nil, c.wrongType(TypeVec2)
	}
	n, err := c.checkDecodable(b)
	if err != nil {
		return nil, err
	}
	out := make([]Vec2, n)
	for i := range out {
		if c.Family == IntoFloats {
			out[i] = Vec2{b.Floats[4*i], b.Floats[4*i+1]}
		} else {
			out[i] = Vec2{
				math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes[8*i:])),
				math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes[8*i+4:])),
			}
		}
	}
	return out, nil
}

// EncodeVec4s packs a 4-vector array: one vector per pixel (IntoFloats),
// or spread across four byte pixels per element (IntoBytes).
func (c Coder) EncodeVec4s(v []Vec4) (PixelBuffer, error) {
	if c.Type != TypeVec4 {
		return PixelBuffer{}, c.wrongType(TypeVec4)
	}
	p, err := elemPowerOf(len(v))
	if err != nil {
		return PixelBuffer{}, err
	}
	tex := c.TextureFor(p)
	buf := PixelBuffer{Texture: tex}
	if c.Family == IntoFloats {
		buf.Floats = make([]float32, 4*tex.PixelCount())
		for i, e := range v {
			copy(buf.Floats[4*i:4*i+4], e[:])
		}
		return buf, nil
	}
	buf.Bytes = make([]byte, 4*tex.PixelCount())
	for i, e := range v {
		for j, f := range e {
			binary.LittleEndian.PutUint32(buf.Bytes[16*i+4*j:], math.Float32bits(f))
		}
	}
	return buf, nil
}

// DecodeVec4s unpacks a 4-vector array.
func (c Coder) DecodeVec4s(b PixelBuffer) ([]Vec4, error) {
	if c.Type != TypeVec4 {
		return nil, c.wrongType(TypeVec4)
	}
	n, err := c.checkDecodable(b)
	if err != nil {
		return nil, err
	}
	out := make([]Vec4, n)
	for i := range out {
		if c.Family == IntoFloats {
			copy(out[i][:], b.Floats[4*i:4*i+4])
		} else {
			for j := range out[i] {
				out[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes[16*i+4*j:]))
			}
		}
	}
	return out, nil
}

// Rearrange interleaves a GPU-produced one-value-per-float-pixel buffer
// into this coder's packed byte layout, so that decoding reproduces the
// logical order exactly. Only coders with NeedsRearrange set support it.
//
// src must be an [IntoFloats] buffer of the same logical type.
func (c Coder) Rearrange(src PixelBuffer) (PixelBuffer, error) {
	if !c.NeedsRearrange {
		return PixelBuffer{}, fmt.Errorf("%w: %v/%d coder does not rearrange",
			quirk.ErrContractViolation, c.Type, c.Family)
	}
	wide := ByType(IntoFloats, c.Type)
	switch c.Type {
	case TypeVec2:
		v, err := wide.DecodeVec2s(src)
		if err != nil {
			return PixelBuffer{}, err
		}
		return c.EncodeVec2s(v)
	case TypeVec4:
		v, err := wide.DecodeVec4s(src)
		if err != nil {
			return PixelBuffer{}, err
		}
		return c.EncodeVec4s(v)
	}
	return PixelBuffer{}, fmt.Errorf("%w: no rearrangement for type %v",
		quirk.ErrContractViolation, c.Type)
}
