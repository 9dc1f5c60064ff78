package coder

// ArgKind discriminates the typed values a synthesized program binds.
type ArgKind int

const (
	// ArgTexture binds a pixel buffer (the state, or a named input).
	ArgTexture ArgKind = iota + 1

	// ArgFloat binds a single float uniform.
	ArgFloat

	// ArgVec2 binds a 2-component float uniform (grid sizes).
	ArgVec2
)

// Arg is one (name, typed value) binding of a synthesized program.
// The ordered argument list is part of the program descriptor contract:
// the execution layer binds arguments in exactly this order.
type Arg struct {
	Name string
	Kind ArgKind

	// Texture is set for ArgTexture.
	Texture Texture

	// Float is set for ArgFloat. Values are exact integers well below
	// 2^24, so the narrowing to device f32 is lossless.
	Float float64

	// Vec2 is set for ArgVec2.
	Vec2 [2]float64
}

// TextureArg builds a texture binding.
func TextureArg(name string, t Texture) Arg {
	return Arg{Name: name, Kind: ArgTexture, Texture: t}
}

// FloatArg builds a float uniform binding.
func FloatArg(name string, v float64) Arg {
	return Arg{Name: name, Kind: ArgFloat, Float: v}
}

// Vec2Arg builds a 2-component uniform binding.
func Vec2Arg(name string, x, y float64) Arg {
	return Arg{Name: name, Kind: ArgVec2, Vec2: [2]float64{x, y}}
}
