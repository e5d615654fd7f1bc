package field

import (
	"fmt"
	"math"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// speedOfLight in mm*GHz, so Wavelength works directly in stage units.
const speedOfLight = 299.792458

// Nearfield holds the near-field data from a single beamscanner run:
// the co-polarization scan, optionally a cross-polarization scan, and
// the measurement frequency needed for the far-field transform.
type Nearfield struct {
	CoPol        *scan.ScanData
	CrossPol     *scan.ScanData
	FrequencyGHz float64
}

// New creates a Nearfield from a co-polarization scan.
func New(co *scan.ScanData, frequencyGHz float64) *Nearfield {
	return &Nearfield{CoPol: co, FrequencyGHz: frequencyGHz}
}

// SetCrossPol attaches cross-polarization data to the run.
func (n *Nearfield) SetCrossPol(sd *scan.ScanData) {
	n.CrossPol = sd
}

// HasCrossPol reports whether cross-polarization data was loaded.
func (n *Nearfield) HasCrossPol() bool { return n.CrossPol != nil }

// Wavelength returns the free-space wavelength in the same millimeter
// units as the stage positions.
func (n *Nearfield) Wavelength() float64 {
	return speedOfLight / n.FrequencyGHz
}

// Farfield is a far-field pattern on a direction-cosine (u,v) grid.
// The pattern is peak-normalized; cells outside the visible region
// (u^2+v^2 > 1) hold NaN.
type Farfield struct {
	U            []float64
	V            []float64
	Pattern      *scan.Grid
	FrequencyGHz float64
}

// Wavelength returns the free-space wavelength of the pattern in mm.
func (f *Farfield) Wavelength() float64 {
	return speedOfLight / f.FrequencyGHz
}

// Transform computes the far-field pattern of a scan by plane-wave
// spectrum decomposition: the near-field grid is zero-padded to a
// power-of-two raster padFactor times the scan size, Fourier
// transformed, and the spatial-frequency bins mapped to direction
// cosines u = lambda*fx, v = lambda*fy. padFactor <= 1 disables
// padding beyond the power-of-two rounding.
func Transform(sd *scan.ScanData, frequencyGHz float64, padFactor int) (*Farfield, error) {
	if frequencyGHz <= 0 {
		return nil, fmt.Errorf("frequency must be positive, got %v GHz", frequencyGHz)
	}
	if sd.XStep() <= 0 || sd.YStep() <= 0 {
		return nil, fmt.Errorf("scan has no spatial extent")
	}
	if padFactor < 1 {
		padFactor = 1
	}

	lambda := speedOfLight / frequencyGHz
	nx, ny := sd.S21.Nx(), sd.S21.Ny()
	nfx := nextPow2(nx * padFactor)
	nfy := nextPow2(ny * padFactor)

	// Zero-padded working matrix; unsampled cells contribute nothing.
	rows := make([][]complex128, nfy)
	for iy := range rows {
		rows[iy] = make([]complex128, nfx)
	}
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			v := sd.S21.At(ix, iy)
			if scan.IsNaN(v) {
				continue
			}
			rows[iy][ix] = v
		}
	}

	for iy := range rows {
		fft(rows[iy], false)
		fftshift(rows[iy])
	}
	col := make([]complex128, nfy)
	for ix := 0; ix < nfx; ix++ {
		for iy := 0; iy < nfy; iy++ {
			col[iy] = rows[iy][ix]
		}
		fft(col, false)
		fftshift(col)
		for iy := 0; iy < nfy; iy++ {
			rows[iy][ix] = col[iy]
		}
	}

	fx := fftFreqsShifted(nfx, sd.XStep())
	fy := fftFreqsShifted(nfy, sd.YStep())
	u := make([]float64, nfx)
	for i, f := range fx {
		u[i] = lambda * f
	}
	v := make([]float64, nfy)
	for i, f := range fy {
		v[i] = lambda * f
	}

	pattern := scan.NewGrid(nfx, nfy)
	peak := 0.0
	for iy := 0; iy < nfy; iy++ {
		for ix := 0; ix < nfx; ix++ {
			if u[ix]*u[ix]+v[iy]*v[iy] > 1 {
				continue // evanescent, stays NaN
			}
			pattern.Set(ix, iy, rows[iy][ix])
			if a := math.Hypot(real(rows[iy][ix]), imag(rows[iy][ix])); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		return nil, fmt.Errorf("far-field pattern is empty; no visible-region energy")
	}
	norm := complex(1/peak, 0)
	for iy := 0; iy < nfy; iy++ {
		for ix := 0; ix < nfx; ix++ {
			p := pattern.At(ix, iy)
			if scan.IsNaN(p) {
				continue
			}
			pattern.Set(ix, iy, p*norm)
		}
	}

	return &Farfield{U: u, V: v, Pattern: pattern, FrequencyGHz: frequencyGHz}, nil
}
