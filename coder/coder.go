package coder

import (
	"fmt"
	"math/bits"

	quirk "github.com/AbdallaEssamAli/Quirk"
)

// Type identifies the logical element type of an array.
type Type int

const (
	// TypeBool is an array of booleans, one per pixel.
	TypeBool Type = iota + 1

	// TypeFloat is an array of 32-bit floats.
	TypeFloat

	// TypeVec2 is an array of 2-component float vectors (e.g. complex
	// amplitudes as real/imaginary pairs).
	TypeVec2

	// TypeVec4 is an array of 4-component float vectors.
	TypeVec4
)

// String returns the WGSL-facing name of the type.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "f32"
	case TypeVec2:
		return "vec2"
	case TypeVec4:
		return "vec4"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// PixelFormat specifies the device storage format of one pixel.
type PixelFormat int

const (
	// FormatFloat4 is four 32-bit float components per pixel (RGBA32Float).
	FormatFloat4 PixelFormat = iota + 1

	// FormatByte is four 8-bit components per pixel (RGBA8). Boolean
	// coders use only the R component; float values fill all four bytes.
	FormatByte
)

// Family selects how logical values map onto device pixels.
type Family int

const (
	// IntoFloats stores one logical value per float pixel. The natural
	// family when the device supports float texture readback.
	IntoFloats Family = iota + 1

	// IntoBytes spreads values across byte-quartet pixels, for devices
	// that can only read bytes back. Vector coders in this family carry a
	// size overhead and need 4-wide rearrangement.
	IntoBytes
)

// Vec2 is a logical 2-component value.
type Vec2 [2]float32

// Vec4 is a logical 4-component value.
type Vec4 [4]float32

// Texture describes a 2D pixel grid as the execution layer must allocate
// it: dimensions in pixels and the per-pixel component layout.
type Texture struct {
	Width  int
	Height int
	Format PixelFormat
}

// PixelCount returns Width * Height.
func (t Texture) PixelCount() int { return t.Width * t.Height }

// SizePower returns log2 of the pixel count, or an error when the count
// is not a power of two.
func (t Texture) SizePower() (int, error) {
	n := t.PixelCount()
	if n <= 0 || n&(n-1) != 0 {
		return 0, fmt.Errorf("%w: texture %dx%d has non-power-of-two pixel count",
			quirk.ErrContractViolation, t.Width, t.Height)
	}
	return bits.TrailingZeros(uint(n)), nil
}

// PixelBuffer holds a texture's raw contents on the host. Exactly one of
// Floats (FormatFloat4: 4 values per pixel) or Bytes (FormatByte: 4 bytes
// per pixel, booleans using only the first) is populated, matching the
// texture's format.
type PixelBuffer struct {
	Texture Texture
	Floats  []float32
	Bytes   []byte
}

// Coder is the immutable per-type descriptor: pixel format, size overhead
// and rearrangement flag, plus the host/device converters exposed as the
// Encode*/Decode* methods.
type Coder struct {
	Type   Type
	Family Family

	// Format is the device pixel format buffers of this coder use.
	Format PixelFormat

	// Overhead is the power-of-two pixel overhead: an array of 2^p
	// elements occupies 2^(p+Overhead) pixels, and a texture of 2^s
	// pixels decodes to 2^(s-Overhead) elements. Never negative.
	Overhead int

	// NeedsRearrange reports that a GPU pass producing one logical value
	// per float pixel must be interleaved into this coder's packed byte
	// layout before decoding. See [Coder.Rearrange].
	NeedsRearrange bool
}

// ByType returns the coder for a logical type within a family.
func ByType(f Family, t Type) Coder {
	c := Coder{Type: t, Family: f}
	switch f {
	case IntoFloats:
		c.Format = FormatFloat4
		if t == TypeBool {
			c.Format = FormatByte
		}
	case IntoBytes:
		c.Format = FormatByte
		switch t {
		case TypeVec2:
			c.Overhead = 1
			c.NeedsRearrange = true
		case TypeVec4:
			c.Overhead = 2
			c.NeedsRearrange = true
		}
	}
	return c
}

// RequiredPixelPower returns log2 of the pixel count a logical array of
// 2^elemPower elements requires. Every logical element maps to a unique
// (pixel, component) slot in the resulting grid.
func (c Coder) RequiredPixelPower(elemPower int) int {
	return elemPower + c.Overhead
}

// ArrayPowerOfTexture returns log2 of the logical element count a texture
// holds under this coder. The pixel count must be a power of two at least
// as large as 2^Overhead.
func (c Coder) ArrayPowerOfTexture(t Texture) (int, error) {
	s, err := t.SizePower()
	if err != nil {
		return 0, err
	}
	p := s - c.Overhead
	if p < 0 {
		return 0, fmt.Errorf("%w: texture of 2^%d pixels is below the coder's 2^%d pixel overhead",
			quirk.ErrContractViolation, s, c.Overhead)
	}
	return p, nil
}

// TextureFor returns the pixel grid a logical array of 2^elemPower
// elements occupies: a power-of-two rectangle, wide before tall, indexed
// row-major by k = y*width + x.
func (c Coder) TextureFor(elemPower int) Texture {
	p := c.RequiredPixelPower(elemPower)
	return Texture{
		Width:  1 << ((p + 1) / 2),
		Height: 1 << (p / 2),
		Format: c.Format,
	}
}

// elemPowerOf validates that n is a power of two and returns its log2.
func elemPowerOf(n int) (int, error) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, fmt.Errorf("%w: logical array length %d is not a power of two",
			quirk.ErrContractViolation, n)
	}
	return bits.TrailingZeros(uint(n)), nil
}

// checkDecodable validates a buffer against the coder's format contract
// and returns its logical element count.
func (c Coder) checkDecodable(b PixelBuffer) (int, error) {
	if b.Texture.Format != c.Format {
		return 0, fmt.Errorf("%w: buffer format %d, coder wants %d",
			quirk.ErrContractViolation, b.Texture.Format, c.Format)
	}
	p, err := c.ArrayPowerOfTexture(b.Texture)
	if err != nil {
		return 0, err
	}
	n := b.Texture.PixelCount()
	switch c.Format {
	case FormatFloat4:
		if len(b.Floats) != 4*n {
			return 0, fmt.Errorf("%w: float buffer has %d values, texture wants %d",
				quirk.ErrContractViolation, len(b.Floats), 4*n)
		}
	case FormatByte:
		if len(b.Bytes) != 4*n {
			return 0, fmt.Errorf("%w: byte buffer has %d bytes, texture wants %d",
				quirk.ErrContractViolation, len(b.Bytes), 4*n)
		}
	}
	return 1 << p, nil
}
