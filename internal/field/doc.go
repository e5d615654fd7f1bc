// Package field models a full beamscanner run and its far-field
// pattern. A Nearfield couples the co- and cross-polarization scans
// with the measurement frequency; Transform converts a scan to a
// far-field pattern by plane-wave spectrum decomposition.
package field
