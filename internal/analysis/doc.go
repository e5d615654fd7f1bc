// Package analysis derives beam figures of merit from field grids:
// peak and centroid positions, -3 dB beamwidths, sidelobe levels, and
// co/cross-polarization comparisons.
package analysis
