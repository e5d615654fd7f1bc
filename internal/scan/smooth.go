package scan

import (
	"fmt"
	"math"
)

// KaiserSmooth applies Kaiser window smoothing to x and returns a slice
// of the same length. beta is the window shape parameter and windowLen
// the number of taps. The input is extended at both ends by reflection
// so the window can be applied at the borders.
func KaiserSmooth(x []float64, beta float64, windowLen int) ([]float64, error) {
	if windowLen < 2 {
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	}
	if windowLen > len(x) {
		return nil, fmt.Errorf("window length %d exceeds data length %d", windowLen, len(x))
	}

	// Reflect windowLen-1 samples at each border.
	n := len(x)
	ext := make([]float64, 0, n+2*(windowLen-1))
	for i := windowLen - 1; i >= 1; i-- {
		ext = append(ext, x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-windowLen; i-- {
		ext = append(ext, x[i])
	}

	w := kaiserWindow(windowLen, beta)
	var sum float64
	for _, v := range w {
		sum += v
	}
	for i := range w {
		w[i] /= sum
	}

	y := convolveSame(ext, w)
	return y[windowLen-1 : len(y)-windowLen+1], nil
}

// kaiserWindow returns the n-point Kaiser window with shape parameter
// beta, computed from the zeroth-order modified Bessel function.
func kaiserWindow(n int, beta float64) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	denom := besselI0(beta)
	for i := range w {
		t := 2*float64(i)/float64(n-1) - 1
		w[i] = besselI0(beta*math.Sqrt(1-t*t)) / denom
	}
	return w
}

// besselI0 evaluates the zeroth-order modified Bessel function of the
// first kind by its power series. Convergence is rapid for the small
// arguments window generation produces.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2
	for k := 1; k < 64; k++ {
		term *= (half / float64(k)) * (half / float64(k))
		sum += term
		if term < sum*1e-14 {
			break
		}
	}
	return sum
}

// convolveSame convolves s with kernel w and returns the centered
// segment with the same length as s.
func convolveSame(s, w []float64) []float64 {
	full := make([]float64, len(s)+len(w)-1)
	for i, sv := range s {
		for j, wv := range w {
			full[i+j] += sv * wv
		}
	}
	start := (len(w) - 1) / 2
	return full[start : start+len(s)]
}
