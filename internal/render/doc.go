// Package render turns field grids into heatmap images: amplitude maps
// in dB below the peak, phase maps on a diverging ramp, region zooms,
// and point probes. Maps carry an optional coordinate grid overlay and
// are returned base64-encoded for transport.
package render
