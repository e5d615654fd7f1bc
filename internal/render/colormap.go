package render

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized value in [0,1] to a color by blending
// between fixed stops in Lab space, which keeps the ramp perceptually
// even.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Name returns the colormap's registered name.
func (c *Colormap) Name() string { return c.name }

// Lookup returns the color for t. Values outside [0,1] are clamped.
func (c *Colormap) Lookup(t float64) colorful.Color {
	if t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	scaled := t * float64(len(c.stops)-1)
	i := int(scaled)
	return c.stops[i].BlendLab(c.stops[i+1], scaled-float64(i)).Clamped()
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var colormaps = map[string]*Colormap{
	// Dark blue through green to yellow, for amplitude maps.
	"thermal": {name: "thermal", stops: []colorful.Color{
		mustHex("#440154"),
		mustHex("#3b528b"),
		mustHex("#21918c"),
		mustHex("#5ec962"),
		mustHex("#fde725"),
	}},
	// Grayscale ramp.
	"gray": {name: "gray", stops: []colorful.Color{
		mustHex("#000000"),
		mustHex("#ffffff"),
	}},
	// Diverging blue-white-red, for phase maps where zero is neutral.
	"phase": {name: "phase", stops: []colorful.Color{
		mustHex("#2166ac"),
		mustHex("#f7f7f7"),
		mustHex("#b2182b"),
	}},
}

// LookupColormap returns the named colormap. An empty name selects
// "thermal".
func LookupColormap(name string) (*Colormap, error) {
	if name == "" {
		name = "thermal"
	}
	cm, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s", name)
	}
	return cm, nil
}

// ColormapNames lists the registered colormaps.
func ColormapNames() []string {
	return []string{"thermal", "gray", "phase"}
}
