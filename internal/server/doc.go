// Package server implements the MCP (Model Context Protocol) server for beam scan analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes near-field scan
// processing through the MCP protocol. It works with any MCP-compatible
// client, letting an assistant load scans, transform them to the far field,
// and inspect beam quality interactively.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 13 scan analysis tools organized into categories:
//
// Scan Loading and Information:
//   - scan_load: Load a scan file and get raster geometry
//   - scan_info: Geometry, limits, and peak position
//   - scan_apply_cal: Normalize by the reference measurements
//
// Field Inspection:
//   - scan_probe: Complex field value at a stage position
//   - scan_render: Amplitude or phase heatmap
//   - scan_render_region: Heatmap of a rectangular sub-area
//   - scan_cut: E- and H-plane cuts through the peak
//
// Far-Field Operations:
//   - farfield_compute: Plane-wave spectrum transform
//   - farfield_render: Pattern heatmap on the (u,v) grid
//   - farfield_cut: Principal-plane pattern cuts
//
// Beam Analysis:
//   - beam_metrics: Peak, centroid, beamwidths, total power
//   - sidelobe_search: Local maxima outside the main lobe
//   - scan_compare_pol: Cross-pol levels against a co-pol scan
//
// # Caching
//
// The server maintains an in-memory cache of loaded scans, keyed by path
// and reused across tool calls. Computed far-field patterns are cached the
// same way, so farfield_render and farfield_cut work without recomputing
// the transform. Both caches persist for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
