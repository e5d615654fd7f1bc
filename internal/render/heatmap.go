package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// MapOptions control heatmap rendering.
type MapOptions struct {
	// Colormap names the color ramp. Empty selects "thermal" for
	// amplitude maps and "phase" for phase maps.
	Colormap string

	// FloorDB is the amplitude clipping level in dB below the peak.
	// Zero means -40; positive values are treated as their negation.
	FloorDB float64

	// CellSize is the rendered size of one grid cell in pixels.
	// Zero means 8.
	CellSize int

	// SmoothSigma applies a Gaussian blur of that radius to the
	// rendered map. Zero disables smoothing.
	SmoothSigma float64

	// GridSpacing draws axis lines every that many axis units, with
	// coordinate labels. Zero disables the overlay.
	GridSpacing float64

	// GridColor is the overlay line color as a hex string. Empty means
	// semi-transparent white.
	GridColor string
}

func (o *MapOptions) fill() {
	if o.FloorDB == 0 {
		o.FloorDB = -40
	}
	// A positive floor would flip the amplitude normalization.
	if o.FloorDB > 0 {
		o.FloorDB = -o.FloorDB
	}
	if o.CellSize == 0 {
		o.CellSize = 8
	}
	if o.GridColor == "" {
		o.GridColor = "#FFFFFF80"
	}
}

// MapResult is a rendered field map.
type MapResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
	Quantity    string  `json:"quantity"`
	Colormap    string  `json:"colormap"`
	MinValue    float64 `json:"min_value"`
	MaxValue    float64 `json:"max_value"`
}

// RenderAmplitude renders the grid magnitude in dB relative to its
// peak, clipped at the floor. xs and ys give the axis positions used
// for the optional grid overlay; unsampled cells come out transparent
// and the map is oriented with y increasing upward.
func RenderAmplitude(g *scan.Grid, xs, ys []float64, opts MapOptions) (*MapResult, error) {
	opts.fill()
	cm, err := LookupColormap(opts.Colormap)
	if err != nil {
		return nil, err
	}

	peak, pix, _ := g.MaxAbs()
	if pix < 0 || peak == 0 {
		return nil, fmt.Errorf("grid holds no samples to render")
	}

	value := func(v complex128) float64 {
		db := scan.AmplitudeDB(v, peak)
		if math.IsInf(db, -1) {
			db = opts.FloorDB
		}
		return (db - opts.FloorDB) / -opts.FloorDB
	}
	img, err := renderMap(g, xs, ys, cm, value, opts)
	if err != nil {
		return nil, err
	}
	return encodeMap(img, "amplitude_db", cm.Name(), opts.FloorDB, 0)
}

// RenderPhase renders the grid phase in degrees on a diverging ramp.
func RenderPhase(g *scan.Grid, xs, ys []float64, opts MapOptions) (*MapResult, error) {
	if opts.Colormap == "" {
		opts.Colormap = "phase"
	}
	opts.fill()
	cm, err := LookupColormap(opts.Colormap)
	if err != nil {
		return nil, err
	}

	value := func(v complex128) float64 {
		return (scan.PhaseDeg(v) + 180) / 360
	}
	img, err := renderMap(g, xs, ys, cm, value, opts)
	if err != nil {
		return nil, err
	}
	return encodeMap(img, "phase_deg", cm.Name(), -180, 180)
}

// renderMap paints one pixel per cell, scales up, flips to put the
// minimum y at the bottom, then applies smoothing and the axis overlay.
func renderMap(g *scan.Grid, xs, ys []float64, cm *Colormap, value func(complex128) float64, opts MapOptions) (image.Image, error) {
	nx, ny := g.Nx(), g.Ny()
	if nx != len(xs) || ny != len(ys) {
		return nil, fmt.Errorf("axis lengths %dx%d do not match grid %dx%d", len(xs), len(ys), nx, ny)
	}

	base := image.NewNRGBA(image.Rect(0, 0, nx, ny))
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			v := g.At(ix, iy)
			if scan.IsNaN(v) {
				base.SetNRGBA(ix, iy, color.NRGBA{})
				continue
			}
			r, gc, b := cm.Lookup(value(v)).RGB255()
			base.SetNRGBA(ix, iy, color.NRGBA{R: r, G: gc, B: b, A: 255})
		}
	}

	scaled := imaging.Resize(base, nx*opts.CellSize, ny*opts.CellSize, imaging.NearestNeighbor)
	flipped := imaging.FlipV(scaled)

	var img image.Image = flipped
	if opts.SmoothSigma > 0 {
		img = blur.Gaussian(img, opts.SmoothSigma)
	}

	if opts.GridSpacing > 0 {
		rgba := image.NewRGBA(img.Bounds())
		drawImage(rgba, img)
		drawAxes(rgba, xs, ys, opts.GridSpacing, opts.GridColor)
		img = rgba
	}
	return img, nil
}

func drawImage(dst *image.RGBA, src image.Image) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}

func encodeMap(img image.Image, quantity, colormap string, minVal, maxVal float64) (*MapResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode map: %w", err)
	}
	b := img.Bounds()
	return &MapResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Quantity:    quantity,
		Colormap:    colormap,
		MinValue:    minVal,
		MaxValue:    maxVal,
	}, nil
}
