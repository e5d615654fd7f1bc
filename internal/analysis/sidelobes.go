package analysis

import (
	"fmt"
	"math/cmplx"
	"sort"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// Sidelobe is a local maximum of the field magnitude away from the
// main beam.
type Sidelobe struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	LevelDB float64 `json:"level_db"`
}

// SidelobeResult lists detected sidelobes, strongest first.
type SidelobeResult struct {
	Count     int        `json:"count"`
	Sidelobes []Sidelobe `json:"sidelobes"`
}

// FindSidelobes locates local maxima of the grid magnitude below the
// given level threshold (dB relative to the peak) and outside the main
// lobe. minLevelDB discards maxima weaker than that level; maxCount
// caps the number reported (0 means no cap).
func FindSidelobes(g *scan.Grid, xs, ys []float64, minLevelDB float64, maxCount int) (*SidelobeResult, error) {
	if g.Nx() != len(xs) || g.Ny() != len(ys) {
		return nil, fmt.Errorf("axis lengths %dx%d do not match grid %dx%d",
			len(xs), len(ys), g.Nx(), g.Ny())
	}
	peak, pix, piy := g.MaxAbs()
	if pix < 0 || peak == 0 {
		return nil, fmt.Errorf("grid holds no samples")
	}

	// The main lobe extends to the first null around the peak; walk
	// outward along each axis to bound it.
	lobeX := lobeRadius(g, xs, pix, piy)
	lobeY := lobeRadiusY(g, ys, pix, piy)

	var lobes []Sidelobe
	for iy := 1; iy < g.Ny()-1; iy++ {
		for ix := 1; ix < g.Nx()-1; ix++ {
			v := g.At(ix, iy)
			if scan.IsNaN(v) {
				continue
			}
			dx := xs[ix] - xs[pix]
			dy := ys[iy] - ys[piy]
			if dx*dx/(lobeX*lobeX)+dy*dy/(lobeY*lobeY) <= 1 {
				continue // inside the main lobe
			}
			if !isLocalMax(g, ix, iy) {
				continue
			}
			level := scan.AmplitudeDB(v, peak)
			if level < minLevelDB {
				continue
			}
			lobes = append(lobes, Sidelobe{
				X:       xs[ix],
				Y:       ys[iy],
				LevelDB: round(level, 100),
			})
		}
	}

	sort.Slice(lobes, func(i, j int) bool {
		return lobes[i].LevelDB > lobes[j].LevelDB
	})
	if maxCount > 0 && len(lobes) > maxCount {
		lobes = lobes[:maxCount]
	}
	return &SidelobeResult{Count: len(lobes), Sidelobes: lobes}, nil
}

func isLocalMax(g *scan.Grid, ix, iy int) bool {
	a := cmplx.Abs(g.At(ix, iy))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := g.At(ix+dx, iy+dy)
			if scan.IsNaN(n) {
				continue
			}
			if cmplx.Abs(n) > a {
				return false
			}
		}
	}
	return true
}

// lobeRadius walks from the peak along +x and -x to the first local
// minimum and returns the larger distance.
func lobeRadius(g *scan.Grid, xs []float64, pix, piy int) float64 {
	r := xs[len(xs)-1] - xs[0]
	if d := walkToNull(func(i int) (float64, bool) {
		if pix+i >= g.Nx() {
			return 0, false
		}
		return cmplx.Abs(g.At(pix+i, piy)), true
	}); d > 0 {
		r = float64(d) * (xs[1] - xs[0])
	}
	if d := walkToNull(func(i int) (float64, bool) {
		if pix-i < 0 {
			return 0, false
		}
		return cmplx.Abs(g.At(pix-i, piy)), true
	}); d > 0 {
		if alt := float64(d) * (xs[1] - xs[0]); alt > r {
			r = alt
		}
	}
	return r
}

func lobeRadiusY(g *scan.Grid, ys []float64, pix, piy int) float64 {
	r := ys[len(ys)-1] - ys[0]
	if d := walkToNull(func(i int) (float64, bool) {
		if piy+i >= g.Ny() {
			return 0, false
		}
		return cmplx.Abs(g.At(pix, piy+i)), true
	}); d > 0 {
		r = float64(d) * (ys[1] - ys[0])
	}
	if d := walkToNull(func(i int) (float64, bool) {
		if piy-i < 0 {
			return 0, false
		}
		return cmplx.Abs(g.At(pix, piy-i)), true
	}); d > 0 {
		if alt := float64(d) * (ys[1] - ys[0]); alt > r {
			r = alt
		}
	}
	return r
}

// walkToNull steps outward from the peak until the magnitude stops
// decreasing, returning the step count of the first null, or 0 when the
// edge is reached first.
func walkToNull(at func(i int) (float64, bool)) int {
	prev, ok := at(0)
	if !ok {
		return 0
	}
	for i := 1; ; i++ {
		v, ok := at(i)
		if !ok {
			return 0
		}
		if v > prev {
			return i - 1
		}
		prev = v
	}
}
