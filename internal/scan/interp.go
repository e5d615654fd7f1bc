package scan

import "sort"

// interpRectilinear resamples values on an irregular rectilinear grid
// (node positions xs, ys) onto the target positions txs, tys using
// bilinear interpolation. NaN source cells poison the cells they touch,
// except when a target lands exactly on a source node.
func interpRectilinear(src *Grid, xs, ys, txs, tys []float64) *Grid {
	dst := NewGrid(len(txs), len(tys))

	type bracket struct {
		lo int
		t  float64 // 0 at xs[lo], 1 at xs[lo+1]
	}
	brack := func(nodes []float64, v float64) bracket {
		// Clamp to the grid; callers only pass positions inside the limits.
		if v <= nodes[0] {
			return bracket{0, 0}
		}
		n := len(nodes)
		if v >= nodes[n-1] {
			return bracket{n - 2, 1}
		}
		hi := sort.SearchFloat64s(nodes, v)
		lo := hi - 1
		if nodes[hi] == v {
			return bracket{lo, 1}
		}
		return bracket{lo, (v - nodes[lo]) / (nodes[hi] - nodes[lo])}
	}

	xb := make([]bracket, len(txs))
	for i, x := range txs {
		xb[i] = brack(xs, x)
	}
	for iy, y := range tys {
		yb := brack(ys, y)
		for ix := range txs {
			dst.Set(ix, iy, lerp2(src, xb[ix].lo, yb.lo, xb[ix].t, yb.t))
		}
	}
	return dst
}

// lerp2 bilinearly blends the four cells at (lo..lo+1) with fractional
// offsets tx, ty. Corners with zero weight do not contribute, so exact
// node hits survive a NaN neighbor.
func lerp2(g *Grid, xlo, ylo int, tx, ty float64) complex128 {
	var sum complex128
	corners := [4]struct {
		dx, dy int
		w      float64
	}{
		{0, 0, (1 - tx) * (1 - ty)},
		{1, 0, tx * (1 - ty)},
		{0, 1, (1 - tx) * ty},
		{1, 1, tx * ty},
	}
	for _, c := range corners {
		if c.w == 0 {
			continue
		}
		v := g.At(xlo+c.dx, ylo+c.dy)
		if IsNaN(v) {
			return v
		}
		sum += complex(c.w, 0) * v
	}
	return sum
}
