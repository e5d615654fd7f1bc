package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ScanData holds the data from a single polarization scan: the complex
// transmission grid, the optional reference (calibration) grid, and the
// geometry of the scan raster.
//
// The grid is uniform: XValues and YValues are evenly spaced between the
// recorded limits, with as many points as there were distinct stage
// positions in the source file. Source files sampled on an irregular
// raster are interpolated onto this grid at load time.
type ScanData struct {
	xLimits [2]float64
	yLimits [2]float64
	xPoints int
	yPoints int
	xStep   float64
	yStep   float64

	// S21 is the grid of complex transmission values.
	S21 *Grid

	// CalData is the grid of complex reference values taken during the
	// scan, or nil when the source file carried no reference columns.
	CalData *Grid

	calApplied bool
}

// XLimits returns the minimum and maximum x position.
func (s *ScanData) XLimits() (min, max float64) {
	return s.xLimits[0], s.xLimits[1]
}

// YLimits returns the minimum and maximum y position.
func (s *ScanData) YLimits() (min, max float64) {
	return s.yLimits[0], s.yLimits[1]
}

// XPoints returns the number of x positions.
func (s *ScanData) XPoints() int { return s.xPoints }

// YPoints returns the number of y positions.
func (s *ScanData) YPoints() int { return s.yPoints }

// XStep returns the spacing between adjacent x positions.
func (s *ScanData) XStep() float64 { return s.xStep }

// YStep returns the spacing between adjacent y positions.
func (s *ScanData) YStep() float64 { return s.yStep }

// XValues returns the x positions of the grid columns.
func (s *ScanData) XValues() []float64 {
	return linspace(s.xLimits[0], s.xLimits[1], s.xPoints)
}

// YValues returns the y positions of the grid rows.
func (s *ScanData) YValues() []float64 {
	return linspace(s.yLimits[0], s.yLimits[1], s.yPoints)
}

// HasCal reports whether reference data was loaded with the scan.
func (s *ScanData) HasCal() bool { return s.CalData != nil }

// CalApplied reports whether ApplyCal has already normalized the scan.
func (s *ScanData) CalApplied() bool { return s.calApplied }

// ApplyCal divides every transmission sample by the reference sample at
// the same cell, normalizing out drift recorded during the scan. The
// reference grid is left untouched so the operation can be inspected.
// Applying a second time is a no-op: cached scans are shared, and a
// repeated call must not divide the field again.
func (s *ScanData) ApplyCal() error {
	if s.CalData == nil {
		return fmt.Errorf("scan has no reference data")
	}
	if s.calApplied {
		return nil
	}
	s.calApplied = true
	for iy := 0; iy < s.yPoints; iy++ {
		for ix := 0; ix < s.xPoints; ix++ {
			c := s.CalData.At(ix, iy)
			if IsNaN(c) || c == 0 {
				continue
			}
			s.S21.Set(ix, iy, s.S21.At(ix, iy)/c)
		}
	}
	return nil
}

func linspace(min, max float64, n int) []float64 {
	vals := make([]float64, n)
	if n == 1 {
		vals[0] = min
		return vals
	}
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	// Pin the endpoint so accumulated rounding never overshoots the limit.
	vals[n-1] = max
	return vals
}

// Cache provides thread-safe caching of loaded scans to avoid redundant
// parsing. Scans are keyed by the exact path string used to load them.
type Cache struct {
	mu    sync.RWMutex
	scans map[string]*ScanData
}

// NewCache creates an empty scan cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{scans: make(map[string]*ScanData)}
}

// Load returns the cached scan for path, reading and parsing the file
// with DefaultOptions on a cache miss.
func (c *Cache) Load(path string) (*ScanData, error) {
	c.mu.RLock()
	if s, ok := c.scans[path]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	s, err := LoadFile(path, DefaultOptions())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.scans[path] = s
	c.mu.Unlock()

	return s, nil
}

// Put stores a scan under path, replacing any cached entry.
func (c *Cache) Put(path string, s *ScanData) {
	c.mu.Lock()
	c.scans[path] = s
	c.mu.Unlock()
}

// Evict removes the cached scan for path, if present.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.scans, path)
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.scans = make(map[string]*ScanData)
	c.mu.Unlock()
}

// Info describes a loaded scan file.
type Info struct {
	XPoints       int     `json:"x_points"`
	YPoints       int     `json:"y_points"`
	XMin          float64 `json:"x_min"`
	XMax          float64 `json:"x_max"`
	YMin          float64 `json:"y_min"`
	YMax          float64 `json:"y_max"`
	XStep         float64 `json:"x_step"`
	YStep         float64 `json:"y_step"`
	HasCal        bool    `json:"has_cal"`
	PeakDB        float64 `json:"peak_db"`
	PeakX         float64 `json:"peak_x"`
	PeakY         float64 `json:"peak_y"`
	Format        string  `json:"format"`
	FileSizeBytes int64   `json:"file_size_bytes"`
}

// LoadInfo loads a scan through the cache and returns its metadata.
// PeakDB is always 0 since amplitudes are reported relative to the peak;
// PeakX and PeakY give the stage position of the strongest sample.
func LoadInfo(cache *Cache, path string) (*Info, error) {
	s, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "csv"
	if ext := filepath.Ext(path); ext == ".tsv" {
		format = "tsv"
	}

	_, pix, piy := s.S21.MaxAbs()
	xs, ys := s.XValues(), s.YValues()
	info := &Info{
		XPoints:       s.xPoints,
		YPoints:       s.yPoints,
		XMin:          s.xLimits[0],
		XMax:          s.xLimits[1],
		YMin:          s.yLimits[0],
		YMax:          s.yLimits[1],
		XStep:         s.xStep,
		YStep:         s.yStep,
		HasCal:        s.HasCal(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}
	if pix >= 0 {
		info.PeakX = xs[pix]
		info.PeakY = ys[piy]
	}
	return info, nil
}
