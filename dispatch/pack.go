package dispatch

import (
	"encoding/binary"
	"fmt"
	"math"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
)

// stateCoder is the pixel layout of a state vector on the device: one
// complex amplitude per float pixel, real in R, imaginary in G.
var stateCoder = coder.ByType(coder.IntoFloats, coder.TypeVec2)

// PackParams serializes a program's uniform arguments into the byte
// layout of the assembled Params struct: arguments in declaration
// order, a vec2 filling two float slots, a scalar one, padded with
// zeros to a 16-byte multiple. Texture arguments bind as storage
// buffers and are skipped here.
func PackParams(args []coder.Arg) []byte {
	out := make([]byte, 0, 16*len(args))
	put := func(v float64) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(v)))
		out = append(out, b[:]...)
	}
	for _, a := range args {
		switch a.Kind {
		case coder.ArgVec2:
			put(a.Vec2[0])
			put(a.Vec2[1])
		case coder.ArgFloat:
			put(a.Float)
		}
	}
	for len(out)%16 != 0 {
		put(0)
	}
	return out
}

// PackState encodes a state vector into the byte image of its device
// buffer, one 16-byte pixel per amplitude.
func PackState(amps []complex128, tex coder.Texture) ([]byte, error) {
	if len(amps) != tex.PixelCount() {
		return nil, fmt.Errorf("%w: %d amplitudes for a %dx%d state texture",
			quirk.ErrContractViolation, len(amps), tex.Width, tex.Height)
	}
	vals := make([]coder.Vec2, len(amps))
	for i, a := range amps {
		vals[i] = coder.Vec2{float32(real(a)), float32(imag(a))}
	}
	buf, err := stateCoder.EncodeVec2s(vals)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 4*len(buf.Floats))
	for i, f := range buf.Floats {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out, nil
}

// UnpackState is the inverse of PackState: it decodes a device buffer
// read-back into amplitudes.
func UnpackState(raw []byte, tex coder.Texture) ([]complex128, error) {
	floats := make([]float32, len(raw)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	vals, err := stateCoder.DecodeVec2s(coder.PixelBuffer{Texture: tex, Floats: floats})
	if err != nil {
		return nil, err
	}
	amps := make([]complex128, len(vals))
	for i, v := range vals {
		amps[i] = complex(float64(v[0]), float64(v[1]))
	}
	return amps, nil
}
