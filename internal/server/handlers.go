package server

import (
	"encoding/json"
	"fmt"

	"github.com/PaulKGrimes/beamscanner/internal/analysis"
	"github.com/PaulKGrimes/beamscanner/internal/field"
	"github.com/PaulKGrimes/beamscanner/internal/render"
	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "scan_load", "scan_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads scans from cache as needed
//  4. Calls the appropriate scan/field/render/analysis function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Scan Loading and Information
	case "scan_load":
		return s.handleScanLoad(args)
	case "scan_info":
		return s.handleScanInfo(args)
	case "scan_apply_cal":
		return s.handleScanApplyCal(args)

	// Field Inspection
	case "scan_probe":
		return s.handleScanProbe(args)
	case "scan_render":
		return s.handleScanRender(args)
	case "scan_render_region":
		return s.handleScanRenderRegion(args)
	case "scan_cut":
		return s.handleScanCut(args)

	// Far-Field Operations
	case "farfield_compute":
		return s.handleFarfieldCompute(args)
	case "farfield_render":
		return s.handleFarfieldRender(args)
	case "farfield_cut":
		return s.handleFarfieldCut(args)

	// Beam Analysis
	case "beam_metrics":
		return s.handleBeamMetrics(args)
	case "sidelobe_search":
		return s.handleSidelobeSearch(args)
	case "scan_compare_pol":
		return s.handleScanComparePol(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Scan Loading and Information Handlers ===

type scanLoadArgs struct {
	Path      string `json:"path"`
	CalTable  *bool  `json:"cal_table,omitempty"`
	CalSmooth int    `json:"cal_smooth"`
}

func (s *Server) handleScanLoad(args json.RawMessage) (interface{}, error) {
	var a scanLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := scan.DefaultOptions()
	if a.CalTable != nil {
		opts.CalTable = *a.CalTable
	}
	opts.CalSmooth = a.CalSmooth

	if opts == scan.DefaultOptions() {
		return scan.LoadInfo(s.scans, a.Path)
	}

	// Non-default parse options bypass the cache, then replace the
	// entry so later tool calls see the same data.
	sd, err := scan.LoadFile(a.Path, opts)
	if err != nil {
		return nil, err
	}
	s.scans.Put(a.Path, sd)
	return scan.LoadInfo(s.scans, a.Path)
}

type scanPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleScanInfo(args json.RawMessage) (interface{}, error) {
	var a scanPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return scan.LoadInfo(s.scans, a.Path)
}

type applyCalResult struct {
	Applied bool `json:"applied"`
}

func (s *Server) handleScanApplyCal(args json.RawMessage) (interface{}, error) {
	var a scanPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	// The cached scan is shared across tool calls, so a retried call
	// reports applied:false instead of dividing the field again.
	if sd.CalApplied() {
		return &applyCalResult{Applied: false}, nil
	}
	if err := sd.ApplyCal(); err != nil {
		return nil, err
	}
	return &applyCalResult{Applied: true}, nil
}

// === Field Inspection Handlers ===

type scanProbeArgs struct {
	Path string  `json:"path"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) handleScanProbe(args json.RawMessage) (interface{}, error) {
	var a scanProbeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return render.Probe(sd.S21, sd.XValues(), sd.YValues(), a.X, a.Y)
}

type renderArgs struct {
	Path        string  `json:"path"`
	Quantity    string  `json:"quantity"`
	Colormap    string  `json:"colormap"`
	FloorDB     float64 `json:"floor_db"`
	CellSize    int     `json:"cell_size"`
	SmoothSigma float64 `json:"smooth_sigma"`
	GridSpacing float64 `json:"grid_spacing"`
	GridColor   string  `json:"grid_color"`
}

func (a *renderArgs) options() render.MapOptions {
	return render.MapOptions{
		Colormap:    a.Colormap,
		FloorDB:     a.FloorDB,
		CellSize:    a.CellSize,
		SmoothSigma: a.SmoothSigma,
		GridSpacing: a.GridSpacing,
		GridColor:   a.GridColor,
	}
}

func renderGrid(g *scan.Grid, xs, ys []float64, quantity string, opts render.MapOptions) (interface{}, error) {
	switch quantity {
	case "", "amplitude":
		return render.RenderAmplitude(g, xs, ys, opts)
	case "phase":
		return render.RenderPhase(g, xs, ys, opts)
	default:
		return nil, fmt.Errorf("unknown quantity: %s", quantity)
	}
}

func (s *Server) handleScanRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return renderGrid(sd.S21, sd.XValues(), sd.YValues(), a.Quantity, a.options())
}

type renderRegionArgs struct {
	renderArgs
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) handleScanRenderRegion(args json.RawMessage) (interface{}, error) {
	var a renderRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return render.RenderRegion(sd.S21, sd.XValues(), sd.YValues(),
		a.X1, a.Y1, a.X2, a.Y2, a.Quantity, a.options())
}

func (s *Server) handleScanCut(args json.RawMessage) (interface{}, error) {
	var a scanPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return field.PrincipalCuts(sd.S21, sd.XValues(), sd.YValues())
}

// === Far-Field Operation Handlers ===

type farfieldComputeArgs struct {
	Path         string  `json:"path"`
	FrequencyGHz float64 `json:"frequency_ghz"`
	PadFactor    int     `json:"pad_factor"`
}

type farfieldSummary struct {
	UPoints      int     `json:"u_points"`
	VPoints      int     `json:"v_points"`
	UMax         float64 `json:"u_max"`
	VMax         float64 `json:"v_max"`
	FrequencyGHz float64 `json:"frequency_ghz"`
}

func (s *Server) handleFarfieldCompute(args json.RawMessage) (interface{}, error) {
	var a farfieldComputeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PadFactor == 0 {
		a.PadFactor = 4
	}
	sd, err := s.scans.Load(a.Path)
	if err != nil {
		return nil, err
	}
	ff, err := field.Transform(sd, a.FrequencyGHz, a.PadFactor)
	if err != nil {
		return nil, err
	}
	s.putFarfield(a.Path, ff)

	return &farfieldSummary{
		UPoints:      len(ff.U),
		VPoints:      len(ff.V),
		UMax:         ff.U[len(ff.U)-1],
		VMax:         ff.V[len(ff.V)-1],
		FrequencyGHz: ff.FrequencyGHz,
	}, nil
}

func (s *Server) requireFarfield(path string) (*field.Farfield, error) {
	ff, ok := s.farfieldFor(path)
	if !ok {
		return nil, fmt.Errorf("no far-field pattern for %s; run farfield_compute first", path)
	}
	return ff, nil
}

func (s *Server) handleFarfieldRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ff, err := s.requireFarfield(a.Path)
	if err != nil {
		return nil, err
	}
	opts := a.options()
	if opts.CellSize == 0 {
		// Far-field grids are already padded large; keep maps compact.
		opts.CellSize = 2
	}
	return renderGrid(ff.Pattern, ff.U, ff.V, a.Quantity, opts)
}

func (s *Server) handleFarfieldCut(args json.RawMessage) (interface{}, error) {
	var a scanPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ff, err := s.requireFarfield(a.Path)
	if err != nil {
		return nil, err
	}
	return field.PrincipalCuts(ff.Pattern, ff.U, ff.V)
}

// === Beam Analysis Handlers ===

type domainArgs struct {
	Path   string `json:"path"`
	Domain string `json:"domain"`
}

// domainGrid resolves the grid and axes for the requested domain:
// "nearfield" (default) uses the scan raster, "farfield" the computed
// pattern.
func (s *Server) domainGrid(a domainArgs) (*scan.Grid, []float64, []float64, error) {
	switch a.Domain {
	case "", "nearfield":
		sd, err := s.scans.Load(a.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return sd.S21, sd.XValues(), sd.YValues(), nil
	case "farfield":
		ff, err := s.requireFarfield(a.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return ff.Pattern, ff.U, ff.V, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown domain: %s", a.Domain)
	}
}

func (s *Server) handleBeamMetrics(args json.RawMessage) (interface{}, error) {
	var a domainArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, xs, ys, err := s.domainGrid(a)
	if err != nil {
		return nil, err
	}
	return analysis.Measure(g, xs, ys)
}

type sidelobeSearchArgs struct {
	domainArgs
	MinLevelDB float64 `json:"min_level_db"`
	MaxCount   int     `json:"max_count"`
}

func (s *Server) handleSidelobeSearch(args json.RawMessage) (interface{}, error) {
	var a sidelobeSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinLevelDB == 0 {
		a.MinLevelDB = -60
	}
	if a.MaxCount == 0 {
		a.MaxCount = 10
	}
	g, xs, ys, err := s.domainGrid(a.domainArgs)
	if err != nil {
		return nil, err
	}
	return analysis.FindSidelobes(g, xs, ys, a.MinLevelDB, a.MaxCount)
}

type comparePolArgs struct {
	CoPath    string `json:"co_path"`
	CrossPath string `json:"cross_path"`
}

func (s *Server) handleScanComparePol(args json.RawMessage) (interface{}, error) {
	var a comparePolArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	co, err := s.scans.Load(a.CoPath)
	if err != nil {
		return nil, err
	}
	cross, err := s.scans.Load(a.CrossPath)
	if err != nil {
		return nil, err
	}
	return analysis.ComparePol(co, cross)
}
