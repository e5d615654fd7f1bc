package server

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PaulKGrimes/beamscanner/internal/analysis"
	"github.com/PaulKGrimes/beamscanner/internal/field"
	"github.com/PaulKGrimes/beamscanner/internal/render"
	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

// createTestScanFile writes a 17x17 raster with a Gaussian beam centered
// on the origin, unit reference columns, and the given peak amplitude.
func createTestScanFile(t *testing.T, peak float64) string {
	t.Helper()

	var sb strings.Builder
	for iy := 0; iy < 17; iy++ {
		for ix := 0; ix < 17; ix++ {
			x := float64(ix) - 8
			y := float64(iy) - 8
			amp := peak * math.Exp(-(x*x+y*y)/18)
			fmt.Fprintf(&sb, "%g,%g,%g,%g,1,0\n", x, y, amp, 0.0)
		}
	}

	path := filepath.Join(t.TempDir(), "scan.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("failed to write scan fixture: %v", err)
	}
	return path
}

// callTool runs a tool through the full tools/call path.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	return s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
}

// decodeToolResult unwraps the MCP content envelope and unmarshals the
// embedded JSON payload into out.
func decodeToolResult(t *testing.T, resp *MCPResponse, out interface{}) {
	t.Helper()

	if resp == nil {
		t.Fatal("nil response")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result is not a map: %T", resp.Result)
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatalf("missing content: %+v", result)
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatalf("content[0].text is not a string: %+v", content[0])
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

func TestHandleToolsCall_ScanLoad(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var info scan.Info
	decodeToolResult(t, callTool(t, s, "scan_load", map[string]interface{}{
		"path": path,
	}), &info)

	if info.XPoints != 17 || info.YPoints != 17 {
		t.Errorf("raster: got %dx%d, want 17x17", info.XPoints, info.YPoints)
	}
	if info.XMin != -8 || info.XMax != 8 {
		t.Errorf("x limits: got [%v,%v], want [-8,8]", info.XMin, info.XMax)
	}
	if !info.HasCal {
		t.Error("fixture carries reference columns, HasCal should be true")
	}
	if info.PeakX != 0 || info.PeakY != 0 {
		t.Errorf("peak: got (%v,%v), want origin", info.PeakX, info.PeakY)
	}
	if info.Format != "csv" {
		t.Errorf("format: got %s, want csv", info.Format)
	}
}

func TestHandleToolsCall_ScanLoadWithSmoothing(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	// Non-default parse options take the direct load path.
	var info scan.Info
	decodeToolResult(t, callTool(t, s, "scan_load", map[string]interface{}{
		"path":       path,
		"cal_smooth": 5,
	}), &info)

	if info.XPoints != 17 {
		t.Errorf("XPoints: got %d, want 17", info.XPoints)
	}
	if !info.HasCal {
		t.Error("HasCal should survive cal smoothing")
	}
}

func TestHandleToolsCall_ScanInfo(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var info scan.Info
	decodeToolResult(t, callTool(t, s, "scan_info", map[string]interface{}{
		"path": path,
	}), &info)

	if info.XStep != 1 || info.YStep != 1 {
		t.Errorf("steps: got (%v,%v), want (1,1)", info.XStep, info.YStep)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestHandleToolsCall_ScanApplyCal(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var res applyCalResult
	decodeToolResult(t, callTool(t, s, "scan_apply_cal", map[string]interface{}{
		"path": path,
	}), &res)
	if !res.Applied {
		t.Error("Applied should be true")
	}

	// Unit reference, so the field is unchanged.
	var probe render.ProbeResult
	decodeToolResult(t, callTool(t, s, "scan_probe", map[string]interface{}{
		"path": path, "x": 0.0, "y": 0.0,
	}), &probe)
	if math.Abs(probe.AmplitudeDB) > 1e-9 {
		t.Errorf("peak after cal: got %v dB, want 0", probe.AmplitudeDB)
	}
}

func TestHandleToolsCall_ScanApplyCalTwice(t *testing.T) {
	s := New()

	// Reference 2+0i so a second division would show up in the raw values.
	var sb strings.Builder
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 3; ix++ {
			fmt.Fprintf(&sb, "%d,%d,4,0,2,0\n", ix, iy)
		}
	}
	path := filepath.Join(t.TempDir(), "scan.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("failed to write scan fixture: %v", err)
	}

	var res applyCalResult
	decodeToolResult(t, callTool(t, s, "scan_apply_cal", map[string]interface{}{
		"path": path,
	}), &res)
	if !res.Applied {
		t.Error("first call: Applied should be true")
	}

	decodeToolResult(t, callTool(t, s, "scan_apply_cal", map[string]interface{}{
		"path": path,
	}), &res)
	if res.Applied {
		t.Error("second call: Applied should be false")
	}

	// The cached scan holds the once-divided field.
	var probe render.ProbeResult
	decodeToolResult(t, callTool(t, s, "scan_probe", map[string]interface{}{
		"path": path, "x": 1.0, "y": 1.0,
	}), &probe)
	if math.Abs(probe.Real-2) > 1e-12 {
		t.Errorf("sample after two scan_apply_cal calls: got %v, want 2", probe.Real)
	}
}

func TestHandleToolsCall_ScanProbe(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var probe render.ProbeResult
	decodeToolResult(t, callTool(t, s, "scan_probe", map[string]interface{}{
		"path": path, "x": 0.2, "y": -0.3,
	}), &probe)

	// Snaps to the nearest raster node.
	if probe.GridX != 0 || probe.GridY != 0 {
		t.Errorf("snapped to (%v,%v), want origin", probe.GridX, probe.GridY)
	}
	if math.Abs(probe.AmplitudeDB) > 1e-9 {
		t.Errorf("peak amplitude: got %v dB, want 0", probe.AmplitudeDB)
	}
}

func TestHandleToolsCall_ScanRender(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var m render.MapResult
	decodeToolResult(t, callTool(t, s, "scan_render", map[string]interface{}{
		"path": path,
	}), &m)

	if m.Width != 17*8 || m.Height != 17*8 {
		t.Errorf("dimensions: got %dx%d, want 136x136", m.Width, m.Height)
	}
	if m.MimeType != "image/png" {
		t.Errorf("mime type: got %s", m.MimeType)
	}
	if m.ImageBase64 == "" {
		t.Error("ImageBase64 is empty")
	}
	if m.Quantity != "amplitude_db" {
		t.Errorf("quantity: got %s, want amplitude_db", m.Quantity)
	}
}

func TestHandleToolsCall_ScanRenderPhase(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var m render.MapResult
	decodeToolResult(t, callTool(t, s, "scan_render", map[string]interface{}{
		"path": path, "quantity": "phase", "cell_size": 2,
	}), &m)

	if m.Quantity != "phase_deg" {
		t.Errorf("quantity: got %s, want phase_deg", m.Quantity)
	}
	if m.Width != 34 {
		t.Errorf("width: got %d, want 34", m.Width)
	}
}

func TestHandleToolsCall_ScanRenderRegion(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var m render.MapResult
	decodeToolResult(t, callTool(t, s, "scan_render_region", map[string]interface{}{
		"path": path, "x1": -2.0, "y1": -2.0, "x2": 2.0, "y2": 2.0,
	}), &m)

	// 5x5 nodes at the default 8 px/cell.
	if m.Width != 40 || m.Height != 40 {
		t.Errorf("dimensions: got %dx%d, want 40x40", m.Width, m.Height)
	}
}

func TestHandleToolsCall_ScanCut(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var cuts field.Cuts
	decodeToolResult(t, callTool(t, s, "scan_cut", map[string]interface{}{
		"path": path,
	}), &cuts)

	if len(cuts.E) != 17 || len(cuts.H) != 17 {
		t.Errorf("cut lengths: got E=%d H=%d, want 17", len(cuts.E), len(cuts.H))
	}
	// Peak sample sits at the center of both cuts.
	if math.Abs(cuts.E[8].AmplitudeDB) > 1e-9 {
		t.Errorf("E-cut center: got %v dB, want 0", cuts.E[8].AmplitudeDB)
	}
}

func TestHandleToolsCall_FarfieldFlow(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var summary farfieldSummary
	decodeToolResult(t, callTool(t, s, "farfield_compute", map[string]interface{}{
		"path": path, "frequency_ghz": 100.0,
	}), &summary)

	// 17 points padded by the default factor of 4 lands on 128.
	if summary.UPoints != 128 || summary.VPoints != 128 {
		t.Errorf("pattern size: got %dx%d, want 128x128", summary.UPoints, summary.VPoints)
	}
	if summary.FrequencyGHz != 100 {
		t.Errorf("frequency: got %v, want 100", summary.FrequencyGHz)
	}
	if summary.UMax <= 0 {
		t.Errorf("UMax: got %v, want positive", summary.UMax)
	}

	var m render.MapResult
	decodeToolResult(t, callTool(t, s, "farfield_render", map[string]interface{}{
		"path": path,
	}), &m)
	if m.Width != 256 {
		t.Errorf("far-field map width: got %d, want 256", m.Width)
	}

	var cuts field.Cuts
	decodeToolResult(t, callTool(t, s, "farfield_cut", map[string]interface{}{
		"path": path,
	}), &cuts)
	if len(cuts.E) != 128 || len(cuts.H) != 128 {
		t.Errorf("cut lengths: got E=%d H=%d, want 128", len(cuts.E), len(cuts.H))
	}
}

func TestHandleToolsCall_FarfieldBeforeCompute(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	for _, tool := range []string{"farfield_render", "farfield_cut"} {
		resp := callTool(t, s, tool, map[string]interface{}{"path": path})
		if resp.Error == nil {
			t.Errorf("%s without farfield_compute should fail", tool)
			continue
		}
		if resp.Error.Code != -32000 {
			t.Errorf("%s error code: got %d, want -32000", tool, resp.Error.Code)
		}
	}
}

func TestHandleToolsCall_BeamMetrics(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var m analysis.BeamMetrics
	decodeToolResult(t, callTool(t, s, "beam_metrics", map[string]interface{}{
		"path": path,
	}), &m)

	if m.PeakX != 0 || m.PeakY != 0 {
		t.Errorf("peak: got (%v,%v), want origin", m.PeakX, m.PeakY)
	}
	// exp(-r^2/18) drops 3 dB at r = 3*sqrt(ln 2).
	want := 6 * math.Sqrt(math.Ln2)
	if math.Abs(m.BeamwidthX-want) > 0.1 {
		t.Errorf("BeamwidthX: got %v, want %v", m.BeamwidthX, want)
	}
	if math.Abs(m.BeamwidthY-want) > 0.1 {
		t.Errorf("BeamwidthY: got %v, want %v", m.BeamwidthY, want)
	}
}

func TestHandleToolsCall_SidelobeSearch(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	var res analysis.SidelobeResult
	decodeToolResult(t, callTool(t, s, "sidelobe_search", map[string]interface{}{
		"path": path,
	}), &res)

	// A clean Gaussian has no secondary maxima.
	if res.Count != 0 {
		t.Errorf("sidelobes on a clean beam: got %d, want 0", res.Count)
	}
}

func TestHandleToolsCall_ScanComparePol(t *testing.T) {
	s := New()
	co := createTestScanFile(t, 1)
	cross := createTestScanFile(t, 0.1)

	var cmp analysis.PolComparison
	decodeToolResult(t, callTool(t, s, "scan_compare_pol", map[string]interface{}{
		"co_path": co, "cross_path": cross,
	}), &cmp)

	if math.Abs(cmp.CrossPeakDB+20) > 0.01 {
		t.Errorf("CrossPeakDB: got %v, want -20", cmp.CrossPeakDB)
	}
}

func TestHandleToolsCall_UnknownDomain(t *testing.T) {
	s := New()
	path := createTestScanFile(t, 1)

	resp := callTool(t, s, "beam_metrics", map[string]interface{}{
		"path": path, "domain": "sideways",
	})
	if resp.Error == nil {
		t.Error("expected error for unknown domain")
	}
}

func TestHandleToolsCall_MissingFile(t *testing.T) {
	s := New()

	resp := callTool(t, s, "scan_load", map[string]interface{}{
		"path": "/nonexistent/scan.csv",
	})
	if resp.Error == nil {
		t.Fatal("expected error for missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New()

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":`),
	})
	if resp.Error == nil {
		t.Fatal("expected error for malformed params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code: got %d, want -32602", resp.Error.Code)
	}
}
