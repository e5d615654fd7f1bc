// Package scan loads and holds single-polarization beam-scan data.
//
// A scan file is the CSV output of the beamscanner acquisition
// application: one record per stage position with the complex
// transmission sample and, optionally, a complex reference sample taken
// during the scan for drift calibration.
//
// The loader derives the raster geometry from the distinct stage
// positions in the file, tolerates row-major and serpentine acquisition
// orders, and resamples irregular rasters onto a uniform grid. Reference
// columns can be smoothed with a Kaiser window before gridding.
package scan
