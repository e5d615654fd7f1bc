package render

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"math"
	"testing"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// testGrid builds an nx-by-ny grid with a Gaussian beam at the center
// and integer axis positions centered on zero.
func testGrid(nx, ny int) (*scan.Grid, []float64, []float64) {
	g := scan.NewGrid(nx, ny)
	xs := make([]float64, nx)
	ys := make([]float64, ny)
	for i := range xs {
		xs[i] = float64(i) - float64(nx-1)/2
	}
	for i := range ys {
		ys[i] = float64(i) - float64(ny-1)/2
	}
	for iy, y := range ys {
		for ix, x := range xs {
			g.Set(ix, iy, complex(math.Exp(-(x*x+y*y)/8), 0))
		}
	}
	return g, xs, ys
}

func decodeResult(t *testing.T, r *MapResult) *bytes.Reader {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	return bytes.NewReader(raw)
}

func TestRenderAmplitude(t *testing.T) {
	g, xs, ys := testGrid(11, 9)

	result, err := RenderAmplitude(g, xs, ys, MapOptions{CellSize: 4})
	if err != nil {
		t.Fatalf("RenderAmplitude failed: %v", err)
	}

	if result.Width != 44 || result.Height != 36 {
		t.Errorf("dimensions: got %dx%d, want 44x36", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Quantity != "amplitude_db" {
		t.Errorf("Quantity: got %s, want amplitude_db", result.Quantity)
	}
	if result.MinValue != -40 || result.MaxValue != 0 {
		t.Errorf("range: got [%v,%v], want [-40,0]", result.MinValue, result.MaxValue)
	}

	img, err := png.Decode(decodeResult(t, result))
	if err != nil {
		t.Fatalf("result is not valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 44 {
		t.Errorf("decoded width: got %d, want 44", img.Bounds().Dx())
	}

	// The peak cell renders as the top colormap color (#fde725).
	r, gc, b, _ := img.At(22, 18).RGBA()
	if uint8(r>>8) != 0xfd || uint8(gc>>8) != 0xe7 || uint8(b>>8) != 0x25 {
		t.Errorf("peak pixel: got #%02X%02X%02X, want #FDE725",
			uint8(r>>8), uint8(gc>>8), uint8(b>>8))
	}
}

func TestRenderAmplitude_PositiveFloorNegated(t *testing.T) {
	g, xs, ys := testGrid(11, 9)

	// A positive floor is read as dB below the peak, not above it.
	result, err := RenderAmplitude(g, xs, ys, MapOptions{CellSize: 4, FloorDB: 40})
	if err != nil {
		t.Fatalf("RenderAmplitude failed: %v", err)
	}

	if result.MinValue != -40 {
		t.Errorf("MinValue: got %v, want -40", result.MinValue)
	}

	img, err := png.Decode(decodeResult(t, result))
	if err != nil {
		t.Fatalf("result is not valid PNG: %v", err)
	}

	// Map must not collapse to the top stop: the corner sits well
	// below the peak and renders a different color.
	pr, pg, pb, _ := img.At(22, 18).RGBA()
	cr, cg, cb, _ := img.At(1, 1).RGBA()
	if pr == cr && pg == cg && pb == cb {
		t.Error("corner renders like the peak, floor normalization is inverted")
	}
	if uint8(pr>>8) != 0xfd || uint8(pg>>8) != 0xe7 || uint8(pb>>8) != 0x25 {
		t.Errorf("peak pixel: got #%02X%02X%02X, want #FDE725",
			uint8(pr>>8), uint8(pg>>8), uint8(pb>>8))
	}
}

func TestRenderAmplitude_NaNCellsTransparent(t *testing.T) {
	g, xs, ys := testGrid(5, 5)
	g.Set(0, 0, complex(math.NaN(), 0))

	result, err := RenderAmplitude(g, xs, ys, MapOptions{CellSize: 2})
	if err != nil {
		t.Fatalf("RenderAmplitude failed: %v", err)
	}

	img, err := png.Decode(decodeResult(t, result))
	if err != nil {
		t.Fatalf("result is not valid PNG: %v", err)
	}

	// Cell (0,0) sits at the bottom-left after the vertical flip.
	_, _, _, a := img.At(1, 9).RGBA()
	if a != 0 {
		t.Errorf("NaN cell alpha: got %d, want 0", a)
	}
}

func TestRenderPhase(t *testing.T) {
	g, xs, ys := testGrid(8, 8)

	result, err := RenderPhase(g, xs, ys, MapOptions{CellSize: 3})
	if err != nil {
		t.Fatalf("RenderPhase failed: %v", err)
	}
	if result.Quantity != "phase_deg" {
		t.Errorf("Quantity: got %s, want phase_deg", result.Quantity)
	}
	if result.Colormap != "phase" {
		t.Errorf("Colormap: got %s, want phase", result.Colormap)
	}
	if result.MinValue != -180 || result.MaxValue != 180 {
		t.Errorf("range: got [%v,%v], want [-180,180]", result.MinValue, result.MaxValue)
	}
	if _, err := png.Decode(decodeResult(t, result)); err != nil {
		t.Errorf("result is not valid PNG: %v", err)
	}
}

func TestRenderAmplitude_WithOverlayAndSmoothing(t *testing.T) {
	g, xs, ys := testGrid(11, 11)

	result, err := RenderAmplitude(g, xs, ys, MapOptions{
		CellSize:    6,
		SmoothSigma: 1.5,
		GridSpacing: 2,
	})
	if err != nil {
		t.Fatalf("RenderAmplitude failed: %v", err)
	}
	if result.Width != 66 || result.Height != 66 {
		t.Errorf("dimensions: got %dx%d, want 66x66", result.Width, result.Height)
	}
	if _, err := png.Decode(decodeResult(t, result)); err != nil {
		t.Errorf("result is not valid PNG: %v", err)
	}
}

func TestRenderAmplitude_Errors(t *testing.T) {
	g, xs, ys := testGrid(5, 5)

	if _, err := RenderAmplitude(g, xs, ys, MapOptions{Colormap: "nope"}); err == nil {
		t.Error("expected error for unknown colormap")
	}
	if _, err := RenderAmplitude(g, xs[:2], ys, MapOptions{}); err == nil {
		t.Error("expected error for mismatched axes")
	}
	if _, err := RenderAmplitude(scan.NewGrid(3, 3), xs[:3], ys[:3], MapOptions{}); err == nil {
		t.Error("expected error for all-NaN grid")
	}
}

func TestColormapLookup(t *testing.T) {
	cm, err := LookupColormap("")
	if err != nil {
		t.Fatalf("default colormap lookup failed: %v", err)
	}
	if cm.Name() != "thermal" {
		t.Errorf("default colormap: got %s, want thermal", cm.Name())
	}

	lo := cm.Lookup(0)
	hi := cm.Lookup(1)
	if lo == hi {
		t.Error("colormap endpoints should differ")
	}
	if cm.Lookup(-5) != lo || cm.Lookup(5) != hi {
		t.Error("out-of-range values should clamp to the endpoints")
	}

	for _, name := range ColormapNames() {
		if _, err := LookupColormap(name); err != nil {
			t.Errorf("registered colormap %q failed lookup: %v", name, err)
		}
	}

	if _, err := LookupColormap("sunburst"); err == nil {
		t.Error("expected error for unknown colormap")
	}
}

func TestAxisTicks(t *testing.T) {
	ticks := axisTicks(-5, 5, 2)
	want := []float64{-4, -2, 0, 2, 4}
	if len(ticks) != len(want) {
		t.Fatalf("ticks: got %v, want %v", ticks, want)
	}
	for i := range want {
		if math.Abs(ticks[i]-want[i]) > 1e-9 {
			t.Errorf("tick %d: got %v, want %v", i, ticks[i], want[i])
		}
	}
}
