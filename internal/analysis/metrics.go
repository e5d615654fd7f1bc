package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// BeamMetrics summarizes the main beam of a field grid.
type BeamMetrics struct {
	// PeakX and PeakY are the axis positions of the strongest sample.
	PeakX float64 `json:"peak_x"`
	PeakY float64 `json:"peak_y"`

	// CentroidX and CentroidY locate the power-weighted beam center.
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`

	// BeamwidthX and BeamwidthY are the -3 dB full widths along the
	// principal cuts through the peak. NaN when the beam does not fall
	// below -3 dB inside the grid.
	BeamwidthX float64 `json:"beamwidth_x"`
	BeamwidthY float64 `json:"beamwidth_y"`

	// TotalPowerDB is the integrated power relative to a unit-magnitude
	// sample filling one cell.
	TotalPowerDB float64 `json:"total_power_db"`
}

// Measure computes beam metrics for a grid with the given axis
// positions. Amplitudes are taken relative to the grid peak.
func Measure(g *scan.Grid, xs, ys []float64) (*BeamMetrics, error) {
	if g.Nx() != len(xs) || g.Ny() != len(ys) {
		return nil, fmt.Errorf("axis lengths %dx%d do not match grid %dx%d",
			len(xs), len(ys), g.Nx(), g.Ny())
	}

	peak, pix, piy := g.MaxAbs()
	if pix < 0 || peak == 0 {
		return nil, fmt.Errorf("grid holds no samples")
	}

	var sumP, sumPX, sumPY float64
	for iy, y := range ys {
		for ix, x := range xs {
			v := g.At(ix, iy)
			if scan.IsNaN(v) {
				continue
			}
			p := real(v)*real(v) + imag(v)*imag(v)
			sumP += p
			sumPX += p * x
			sumPY += p * y
		}
	}

	m := &BeamMetrics{
		PeakX:        xs[pix],
		PeakY:        ys[piy],
		CentroidX:    round(sumPX/sumP, 1e6),
		CentroidY:    round(sumPY/sumP, 1e6),
		TotalPowerDB: round(10*math.Log10(sumP), 100),
	}

	row := make([]float64, len(xs))
	for ix := range xs {
		row[ix] = cmplx.Abs(g.At(ix, piy)) / peak
	}
	m.BeamwidthX = round(fullWidth(row, xs, math.Sqrt(0.5)), 1e6)

	col := make([]float64, len(ys))
	for iy := range ys {
		col[iy] = cmplx.Abs(g.At(pix, iy)) / peak
	}
	m.BeamwidthY = round(fullWidth(col, ys, math.Sqrt(0.5)), 1e6)

	return m, nil
}

// fullWidth finds the full width of the main lobe at the given relative
// level, interpolating linearly between samples. Returns NaN when
// either side never crosses the level.
func fullWidth(vals, pos []float64, level float64) float64 {
	peakIdx := 0
	for i, v := range vals {
		if v > vals[peakIdx] {
			peakIdx = i
		}
	}

	left := math.NaN()
	for i := peakIdx; i > 0; i-- {
		if vals[i-1] < level && vals[i] >= level {
			t := (level - vals[i-1]) / (vals[i] - vals[i-1])
			left = pos[i-1] + t*(pos[i]-pos[i-1])
			break
		}
	}
	right := math.NaN()
	for i := peakIdx; i < len(vals)-1; i++ {
		if vals[i+1] < level && vals[i] >= level {
			t := (level - vals[i+1]) / (vals[i] - vals[i+1])
			right = pos[i+1] + t*(pos[i]-pos[i+1])
			break
		}
	}
	return right - left
}

// PolComparison relates a cross-polarization grid to its co-pol peak.
type PolComparison struct {
	CoPeakX       float64 `json:"co_peak_x"`
	CoPeakY       float64 `json:"co_peak_y"`
	CrossPeakX    float64 `json:"cross_peak_x"`
	CrossPeakY    float64 `json:"cross_peak_y"`
	CrossPeakDB   float64 `json:"cross_peak_db"`
	OnAxisCrossDB float64 `json:"on_axis_cross_db"`
}

// ComparePol reports cross-polarization levels relative to the co-pol
// peak. Both scans must share the same raster.
func ComparePol(co, cross *scan.ScanData) (*PolComparison, error) {
	if co.XPoints() != cross.XPoints() || co.YPoints() != cross.YPoints() {
		return nil, fmt.Errorf("co-pol raster %dx%d does not match cross-pol %dx%d",
			co.XPoints(), co.YPoints(), cross.XPoints(), cross.YPoints())
	}

	coPeak, cix, ciy := co.S21.MaxAbs()
	if cix < 0 || coPeak == 0 {
		return nil, fmt.Errorf("co-pol grid holds no samples")
	}
	_, xix, xiy := cross.S21.MaxAbs()
	if xix < 0 {
		return nil, fmt.Errorf("cross-pol grid holds no samples")
	}

	xs, ys := co.XValues(), co.YValues()
	return &PolComparison{
		CoPeakX:       xs[cix],
		CoPeakY:       ys[ciy],
		CrossPeakX:    xs[xix],
		CrossPeakY:    ys[xiy],
		CrossPeakDB:   round(scan.AmplitudeDB(cross.S21.At(xix, xiy), coPeak), 100),
		OnAxisCrossDB: round(scan.AmplitudeDB(cross.S21.At(cix, ciy), coPeak), 100),
	}, nil
}

func round(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*scale) / scale
}
