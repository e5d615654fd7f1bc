package render

import (
	"fmt"
	"math"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// RenderRegion renders a rectangular sub-area of a field map, given in
// axis units. quantity selects "amplitude" or "phase".
func RenderRegion(g *scan.Grid, xs, ys []float64, x1, y1, x2, y2 float64, quantity string, opts MapOptions) (*MapResult, error) {
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	ix1, err := nearestIndex(xs, x1)
	if err != nil {
		return nil, err
	}
	ix2, err := nearestIndex(xs, x2)
	if err != nil {
		return nil, err
	}
	iy1, err := nearestIndex(ys, y1)
	if err != nil {
		return nil, err
	}
	iy2, err := nearestIndex(ys, y2)
	if err != nil {
		return nil, err
	}
	if ix2 <= ix1 || iy2 <= iy1 {
		return nil, fmt.Errorf("region (%g,%g)-(%g,%g) covers no grid cells", x1, y1, x2, y2)
	}

	sub := scan.NewGrid(ix2-ix1+1, iy2-iy1+1)
	for iy := iy1; iy <= iy2; iy++ {
		for ix := ix1; ix <= ix2; ix++ {
			sub.Set(ix-ix1, iy-iy1, g.At(ix, iy))
		}
	}

	switch quantity {
	case "", "amplitude":
		return RenderAmplitude(sub, xs[ix1:ix2+1], ys[iy1:iy2+1], opts)
	case "phase":
		return RenderPhase(sub, xs[ix1:ix2+1], ys[iy1:iy2+1], opts)
	default:
		return nil, fmt.Errorf("unknown quantity: %s", quantity)
	}
}

// ProbeResult is the field value at a single stage position.
type ProbeResult struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	GridX       int     `json:"grid_x"`
	GridY       int     `json:"grid_y"`
	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
	AmplitudeDB float64 `json:"amplitude_db"`
	PhaseDeg    float64 `json:"phase_deg"`
}

// Probe returns the complex sample nearest to the position (x, y),
// with its amplitude relative to the grid peak.
func Probe(g *scan.Grid, xs, ys []float64, x, y float64) (*ProbeResult, error) {
	ix, err := nearestIndex(xs, x)
	if err != nil {
		return nil, err
	}
	iy, err := nearestIndex(ys, y)
	if err != nil {
		return nil, err
	}

	peak, pix, _ := g.MaxAbs()
	if pix < 0 {
		return nil, fmt.Errorf("grid holds no samples")
	}

	v := g.At(ix, iy)
	return &ProbeResult{
		X:           xs[ix],
		Y:           ys[iy],
		GridX:       ix,
		GridY:       iy,
		Real:        real(v),
		Imag:        imag(v),
		AmplitudeDB: scan.AmplitudeDB(v, peak),
		PhaseDeg:    scan.PhaseDeg(v),
	}, nil
}

// nearestIndex finds the index of the axis position closest to v,
// rejecting positions outside the axis span.
func nearestIndex(axis []float64, v float64) (int, error) {
	min, max := axis[0], axis[len(axis)-1]
	if v < min || v > max {
		return 0, fmt.Errorf("position %g outside scan area [%g, %g]", v, min, max)
	}
	best := 0
	bestDist := math.Abs(axis[0] - v)
	for i, a := range axis[1:] {
		if d := math.Abs(a - v); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best, nil
}
