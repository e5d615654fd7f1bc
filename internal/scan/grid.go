package scan

import (
	"math"
	"math/cmplx"
)

// Grid is a dense row-major matrix of complex samples covering a
// rectangular scan area. Cells that were never sampled hold NaN.
type Grid struct {
	nx, ny int
	data   []complex128
}

// NewGrid creates an nx-by-ny grid with every cell set to NaN.
func NewGrid(nx, ny int) *Grid {
	g := &Grid{
		nx:   nx,
		ny:   ny,
		data: make([]complex128, nx*ny),
	}
	nan := complex(math.NaN(), math.NaN())
	for i := range g.data {
		g.data[i] = nan
	}
	return g
}

// Nx returns the number of columns (x positions).
func (g *Grid) Nx() int { return g.nx }

// Ny returns the number of rows (y positions).
func (g *Grid) Ny() int { return g.ny }

// At returns the sample at column ix, row iy.
func (g *Grid) At(ix, iy int) complex128 {
	return g.data[iy*g.nx+ix]
}

// Set stores a sample at column ix, row iy.
func (g *Grid) Set(ix, iy int, v complex128) {
	g.data[iy*g.nx+ix] = v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{nx: g.nx, ny: g.ny, data: make([]complex128, len(g.data))}
	copy(c.data, g.data)
	return c
}

// MaxAbs returns the largest sample magnitude and its cell indices.
// NaN cells are skipped. If every cell is NaN the magnitude is 0 and
// the indices are -1.
func (g *Grid) MaxAbs() (mag float64, ix, iy int) {
	ix, iy = -1, -1
	for y := 0; y < g.ny; y++ {
		for x := 0; x < g.nx; x++ {
			v := g.At(x, y)
			if IsNaN(v) {
				continue
			}
			if a := cmplx.Abs(v); a > mag || ix < 0 {
				mag = a
				ix, iy = x, y
			}
		}
	}
	return mag, ix, iy
}

// IsNaN reports whether either component of v is NaN.
func IsNaN(v complex128) bool {
	return math.IsNaN(real(v)) || math.IsNaN(imag(v))
}

// AmplitudeDB converts a sample to decibels relative to a reference
// magnitude. NaN samples and a zero reference yield NaN.
func AmplitudeDB(v complex128, ref float64) float64 {
	if IsNaN(v) || ref <= 0 {
		return math.NaN()
	}
	a := cmplx.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a/ref)
}

// PhaseDeg returns the phase of a sample in degrees.
func PhaseDeg(v complex128) float64 {
	if IsNaN(v) {
		return math.NaN()
	}
	return cmplx.Phase(v) * 180 / math.Pi
}
