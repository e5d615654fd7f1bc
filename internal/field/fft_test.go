package field

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT_Impulse(t *testing.T) {
	x := make([]complex128, 8)
	x[0] = 1

	fft(x, false)

	// An impulse transforms to a flat spectrum.
	for i, v := range x {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d: got %v, want 1", i, v)
		}
	}
}

func TestFFT_RoundTrip(t *testing.T) {
	x := []complex128{
		complex(1, 0), complex(2, -1), complex(0, 3), complex(-1, 0),
		complex(0.5, 0.5), complex(0, 0), complex(4, 1), complex(-2, 2),
	}
	orig := make([]complex128, len(x))
	copy(orig, x)

	fft(x, false)
	fft(x, true)

	for i := range x {
		if cmplx.Abs(x[i]-orig[i]) > 1e-9 {
			t.Errorf("sample %d: got %v, want %v", i, x[i], orig[i])
		}
	}
}

func TestFFT_SingleTone(t *testing.T) {
	const n = 16
	const bin = 3
	x := make([]complex128, n)
	for i := range x {
		ang := 2 * math.Pi * bin * float64(i) / n
		x[i] = complex(math.Cos(ang), math.Sin(ang))
	}

	fft(x, false)

	for i, v := range x {
		want := 0.0
		if i == bin {
			want = n
		}
		if math.Abs(cmplx.Abs(v)-want) > 1e-9 {
			t.Errorf("bin %d: |X| = %v, want %v", i, cmplx.Abs(v), want)
		}
	}
}

func TestFFTShift(t *testing.T) {
	x := []complex128{0, 1, 2, 3}
	fftshift(x)
	want := []complex128{2, 3, 0, 1}
	for i := range x {
		if x[i] != want[i] {
			t.Errorf("shifted[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

func TestFFTFreqsShifted(t *testing.T) {
	freqs := fftFreqsShifted(8, 0.5)

	// Zero frequency sits at the center bin after the shift.
	if freqs[4] != 0 {
		t.Errorf("center bin frequency = %v, want 0", freqs[4])
	}
	if got := freqs[0]; math.Abs(got+1) > 1e-12 {
		t.Errorf("first bin frequency = %v, want -1", got)
	}
	if got := freqs[7] - freqs[6]; math.Abs(got-0.25) > 1e-12 {
		t.Errorf("bin spacing = %v, want 0.25", got)
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {5, 8}, {16, 16}, {17, 32},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.in); got != tt.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
