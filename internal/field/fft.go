package field

import "math"

// fft computes the in-place radix-2 decimation-in-time FFT of x.
// len(x) must be a power of two. When inverse is true the conjugate
// transform is applied and the result scaled by 1/len(x).
func fft(x []complex128, inverse bool) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		ang := 2 * math.Pi / float64(length)
		if !inverse {
			ang = -ang
		}
		wl := complex(math.Cos(ang), math.Sin(ang))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			half := length / 2
			for k := 0; k < half; k++ {
				u := x[start+k]
				v := x[start+k+half] * w
				x[start+k] = u + v
				x[start+k+half] = u - v
				w *= wl
			}
		}
	}

	if inverse {
		inv := complex(1/float64(n), 0)
		for i := range x {
			x[i] *= inv
		}
	}
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// fftshift rotates x so the zero-frequency bin moves to the center.
func fftshift(x []complex128) {
	n := len(x)
	half := n / 2
	tmp := make([]complex128, n)
	copy(tmp, x)
	copy(x, tmp[half:])
	copy(x[n-half:], tmp[:half])
}

// fftFreqsShifted returns the shifted sample frequencies for an n-point
// transform with sample spacing d, matching the bin order produced by
// applying fftshift to the transform output.
func fftFreqsShifted(n int, d float64) []float64 {
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = float64(i-n/2) / (float64(n) * d)
	}
	return freqs
}
