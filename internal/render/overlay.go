package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
)

// drawAxes overlays position grid lines on a rendered map. Lines are
// drawn at integer multiples of spacing (in axis units) and labeled
// with their coordinate value.
func drawAxes(img *image.RGBA, xs, ys []float64, spacing float64, colorHex string) {
	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = color.RGBA{255, 255, 255, 128}
	}
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	xmin, xmax := xs[0], xs[len(xs)-1]
	ymin, ymax := ys[0], ys[len(ys)-1]

	for _, x := range axisTicks(xmin, xmax, spacing) {
		px := int(math.Round((x - xmin) / (xmax - xmin) * float64(w-1)))
		for py := 0; py < h; py++ {
			img.Set(px, py, lineColor)
		}
		drawLabel(img, px+2, h-9, formatTick(x), labelColor, bgColor)
	}
	for _, y := range axisTicks(ymin, ymax, spacing) {
		// The map is rendered with y increasing upward.
		py := int(math.Round((ymax - y) / (ymax - ymin) * float64(h-1)))
		for px := 0; px < w; px++ {
			img.Set(px, py, lineColor)
		}
		drawLabel(img, 2, py+2, formatTick(y), labelColor, bgColor)
	}
}

// axisTicks returns the multiples of spacing inside [min, max].
func axisTicks(min, max, spacing float64) []float64 {
	var ticks []float64
	for t := math.Ceil(min/spacing) * spacing; t <= max+1e-9; t += spacing {
		ticks = append(ticks, t)
	}
	return ticks
}

func formatTick(v float64) string {
	// Avoid -0 labels from rounding.
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a small coordinate label using a built-in 3x5 pixel
// font. Characters outside the font are skipped.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		'-': {"000", "000", "111", "000", "000"},
		'.': {"000", "000", "000", "000", "010"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
