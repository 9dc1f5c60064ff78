package gates

import (
	"fmt"
	"math/bits"

	quirk "github.com/AbdallaEssamAli/Quirk"
)

// Matrix is a dense Size x Size complex operator in row-major order.
type Matrix struct {
	Size  int
	Cells []complex128
}

// At returns the cell at row r, column c.
func (m Matrix) At(r, c int) complex128 {
	return m.Cells[r*m.Size+c]
}

// DenseMatrix returns the explicit matrix form of a permutation-shaped
// gate for spans below its matrix threshold. The matrix places a 1 in
// row dst, column src for every basis mapping src -> dst; callers
// preferring exact linear algebra over shader dispatch apply it with
// [Matrix.ApplyTo].
func DenseMatrix(id ID, span int) (Matrix, error) {
	info, err := InfoFor(id)
	if err != nil {
		return Matrix{}, err
	}
	if info.MatrixMaxSpan == 0 {
		return Matrix{}, fmt.Errorf("%w: gate %s has no dense-matrix form",
			quirk.ErrContractViolation, info.Symbol)
	}
	if span < info.MinSpan || span >= info.MatrixMaxSpan {
		return Matrix{}, fmt.Errorf("%w: gate %s has dense matrices for spans [%d, %d), got %d",
			quirk.ErrContractViolation, info.Symbol, info.MinSpan, info.MatrixMaxSpan, span)
	}

	n := 1 << span
	m := Matrix{Size: n, Cells: make([]complex128, n*n)}
	for src := 0; src < n; src++ {
		m.Cells[forward(id, span, src)*n+src] = 1
	}
	return m, nil
}

// forward computes the basis mapping src -> dst with plain integer
// arithmetic, independently of the shader body expressions. The two
// routes must agree on every basis state; the tests hold them to that.
func forward(id ID, span, src int) int {
	n := 1 << span
	switch id {
	case Increment:
		return (src + 1) % n
	case Decrement:
		return (src + n - 1) % n
	case Add, Subtract:
		sa := span / 2
		saN := 1 << sa
		sbN := 1 << (span - sa)
		a := src % saN
		b := src / saN
		if id == Add {
			b = (b + a) % sbN
		} else {
			b = (b - a + sbN) % sbN
		}
		return a + b*saN
	}
	return src
}

// ApplyTo multiplies the matrix into the span-wide slice of the state
// starting at bit offset row, returning a fresh output state. The input
// is never written.
func (m Matrix) ApplyTo(amps []complex128, row int) ([]complex128, error) {
	n := len(amps)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: state of %d amplitudes is not a power of two",
			quirk.ErrContractViolation, n)
	}
	span := bits.TrailingZeros(uint(m.Size))
	if qubits := bits.TrailingZeros(uint(n)); qubits < row+span {
		return nil, fmt.Errorf("%w: state of %d qubits, matrix needs qubits [%d, %d)",
			quirk.ErrContractViolation, qubits, row, row+span)
	}

	out := make([]complex128, n)
	for full := 0; full < n; full++ {
		base := full &^ ((m.Size - 1) << row)
		dst := (full >> row) & (m.Size - 1)
		var sum complex128
		for src := 0; src < m.Size; src++ {
			if c := m.At(dst, src); c != 0 {
				sum += c * amps[base|src<<row]
			}
		}
		out[full] = sum
	}
	return out, nil
}
