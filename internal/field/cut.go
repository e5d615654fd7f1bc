package field

import (
	"fmt"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// CutPoint is one sample along a principal-plane cut.
type CutPoint struct {
	Position    float64 `json:"position"`
	AmplitudeDB float64 `json:"amplitude_db"`
	PhaseDeg    float64 `json:"phase_deg"`
}

// Cuts holds the two principal-plane cuts through the pattern peak.
// The E cut runs along the y axis and the H cut along the x axis,
// following the vertical-polarization convention of the scanner.
type Cuts struct {
	E []CutPoint `json:"e_plane"`
	H []CutPoint `json:"h_plane"`
}

// PrincipalCuts extracts the row and column of g passing through its
// magnitude peak. xs and ys give the axis positions of the grid and
// amplitudes are reported relative to the peak.
func PrincipalCuts(g *scan.Grid, xs, ys []float64) (*Cuts, error) {
	if g.Nx() != len(xs) || g.Ny() != len(ys) {
		return nil, fmt.Errorf("axis lengths %dx%d do not match grid %dx%d",
			len(xs), len(ys), g.Nx(), g.Ny())
	}

	peak, pix, piy := g.MaxAbs()
	if pix < 0 {
		return nil, fmt.Errorf("grid holds no samples")
	}

	cuts := &Cuts{
		E: make([]CutPoint, 0, len(ys)),
		H: make([]CutPoint, 0, len(xs)),
	}
	for ix := range xs {
		v := g.At(ix, piy)
		cuts.H = append(cuts.H, CutPoint{
			Position:    xs[ix],
			AmplitudeDB: scan.AmplitudeDB(v, peak),
			PhaseDeg:    scan.PhaseDeg(v),
		})
	}
	for iy := range ys {
		v := g.At(pix, iy)
		cuts.E = append(cuts.E, CutPoint{
			Position:    ys[iy],
			AmplitudeDB: scan.AmplitudeDB(v, peak),
			PhaseDeg:    scan.PhaseDeg(v),
		})
	}
	return cuts, nil
}
