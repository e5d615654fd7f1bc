package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the scan CSV file",
	}
}

func renderProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"quantity": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"amplitude", "phase"},
			"description": "Field quantity to render. Default amplitude",
		},
		"colormap": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"thermal", "gray", "phase"},
			"description": "Color ramp. Default thermal (phase maps default to phase)",
		},
		"floor_db": map[string]interface{}{
			"type":        "number",
			"description": "Amplitude clipping level in dB below the peak. Default -40",
		},
		"cell_size": map[string]interface{}{
			"type":        "integer",
			"description": "Rendered pixels per grid cell. Default 8 (2 for far-field maps)",
		},
		"smooth_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied to the rendered map. Default 0 (off)",
		},
		"grid_spacing": map[string]interface{}{
			"type":        "number",
			"description": "Draw labeled axis lines every this many axis units. Default 0 (off)",
		},
		"grid_color": map[string]interface{}{
			"type":        "string",
			"description": "Axis line color as hex, e.g. #FFFFFF80. Default semi-transparent white",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Scan Loading and Information
		{
			Name:        "scan_load",
			Description: "Load a beamscanner CSV file and return the scan geometry. Caches the scan for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"cal_table": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether the file carries reference measurement columns. Default true",
					},
					"cal_smooth": map[string]interface{}{
						"type":        "integer",
						"description": "Kaiser window length for smoothing the reference columns. Default 0 (off)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scan_info",
			Description: "Get the raster geometry, limits, and peak position of a scan.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scan_apply_cal",
			Description: "Divide the transmission grid by the reference grid, normalizing out drift recorded during the scan.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Field Inspection
		{
			Name:        "scan_probe",
			Description: "Get the complex field value at a stage position, with amplitude in dB relative to the scan peak.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "number",
						"description": "X stage position in mm",
					},
					"y": map[string]interface{}{
						"type":        "number",
						"description": "Y stage position in mm",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "scan_render",
			Description: "Render the near-field amplitude or phase map as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "scan_render_region",
			Description: "Render a rectangular sub-area of the near-field map, given in stage coordinates. Use this to zoom into beam features.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(renderProperties(), map[string]interface{}{
					"x1": map[string]interface{}{"type": "number", "description": "Left edge in mm"},
					"y1": map[string]interface{}{"type": "number", "description": "Bottom edge in mm"},
					"x2": map[string]interface{}{"type": "number", "description": "Right edge in mm"},
					"y2": map[string]interface{}{"type": "number", "description": "Top edge in mm"},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "scan_cut",
			Description: "Extract the E- and H-plane cuts through the near-field peak as position/amplitude/phase samples.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Far-Field Operations
		{
			Name:        "farfield_compute",
			Description: "Compute the far-field pattern of a scan by plane-wave spectrum decomposition and cache it for rendering and analysis.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"frequency_ghz": map[string]interface{}{
						"type":        "number",
						"description": "Measurement frequency in GHz",
					},
					"pad_factor": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-padding factor for the transform. Default 4",
					},
				},
				"required": []string{"path", "frequency_ghz"},
			},
		},
		{
			Name:        "farfield_render",
			Description: "Render the computed far-field pattern on the direction-cosine (u,v) grid. Requires farfield_compute first.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "farfield_cut",
			Description: "Extract the principal-plane cuts through the far-field peak. Requires farfield_compute first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Beam Analysis
		{
			Name:        "beam_metrics",
			Description: "Measure peak and centroid positions, -3 dB beamwidths, and integrated power of the beam.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"domain": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"nearfield", "farfield"},
						"description": "Grid to analyze. Default nearfield",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sidelobe_search",
			Description: "Find local maxima outside the main lobe and report their levels relative to the peak.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"domain": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"nearfield", "farfield"},
						"description": "Grid to search. Default nearfield",
					},
					"min_level_db": map[string]interface{}{
						"type":        "number",
						"description": "Discard sidelobes below this level. Default -60",
					},
					"max_count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of sidelobes to report. Default 10",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scan_compare_pol",
			Description: "Compare a cross-polarization scan against its co-polarization scan and report relative levels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"co_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the co-polarization scan",
					},
					"cross_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the cross-polarization scan",
					},
				},
				"required": []string{"co_path", "cross_path"},
			},
		},
	}
}

func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
