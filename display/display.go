// Package display renders state-vector probability distributions as
// images, one grid cell per basis state in the same row-major layout
// the state texture uses.
package display

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
)

// Heatmap renders |amp|^2 values into a grayscale grid and scales it up
// by an integer factor with nearest-neighbor sampling, keeping cell
// edges hard. Probabilities clamp to [0, 1]; basis state k lands on
// cell (k mod width, floor(k / width)).
func Heatmap(probs []float64, scale int) (*image.RGBA, error) {
	n := len(probs)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d probabilities is not a power of two",
			quirk.ErrContractViolation, n)
	}
	if scale < 1 {
		return nil, fmt.Errorf("%w: scale %d", quirk.ErrContractViolation, scale)
	}

	power := 0
	for 1<<power < n {
		power++
	}
	tex := coder.ByType(coder.IntoFloats, coder.TypeFloat).TextureFor(power)

	cells := image.NewRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	for k, p := range probs {
		if p < 0 {
			p = 0
		} else if p > 1 {
			p = 1
		}
		v := uint8(p*255 + 0.5)
		cells.SetRGBA(k%tex.Width, k/tex.Width, color.RGBA{R: v, G: v, B: v, A: 255})
	}
	if scale == 1 {
		return cells, nil
	}

	out := image.NewRGBA(image.Rect(0, 0, tex.Width*scale, tex.Height*scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), cells, cells.Bounds(), draw.Src, nil)
	return out, nil
}
