package scan

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Options control how a scan file is parsed.
type Options struct {
	// CalTable indicates that the file carries reference measurement
	// columns (re, im) after the transmission columns.
	CalTable bool

	// CalSmooth is the Kaiser window length applied to the reference
	// columns before gridding. Zero disables smoothing.
	CalSmooth int

	// Comma is the field delimiter. Zero means comma.
	Comma rune
}

// DefaultOptions matches the output of the beamscanner acquisition
// application: comma-delimited with a reference table and no smoothing.
func DefaultOptions() Options {
	return Options{CalTable: true}
}

// universalReader wraps an io.Reader and replaces carriage returns with
// newlines, so classic-Mac and DOS line endings both parse.
type universalReader struct {
	r io.Reader
}

func (u *universalReader) Read(buf []byte) (int, error) {
	n, err := u.r.Read(buf)
	for i := 0; i < n; i++ {
		if buf[i] == '\r' {
			buf[i] = '\n'
		}
	}
	return n, err
}

// LoadFile reads a scan from disk. Files with a .tsv extension are
// parsed tab-delimited unless Options.Comma overrides the delimiter.
func LoadFile(path string, opts Options) (*ScanData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scan file: %w", err)
	}
	defer f.Close()

	if opts.Comma == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts.Comma = '\t'
	}
	s, err := LoadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

type sample struct {
	x, y  float64
	trans complex128
	ref   complex128
}

// LoadCSV parses scan data from r. Each record holds a stage position
// and a complex transmission sample:
//
//	x, y, re(trans), im(trans)[, re(ref), im(ref)]
//
// The number of distinct x and y positions defines the scan raster; the
// motion stage is assumed repeatable, so positions are matched exactly.
// Samples may arrive in any acquisition order (row-major or serpentine).
// The raster is then interpolated onto a uniform grid spanning the
// recorded limits, one grid point per distinct stage position.
func LoadCSV(r io.Reader, opts Options) (*ScanData, error) {
	cr := csv.NewReader(&universalReader{r})
	cr.Comma = ','
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	want := 4
	if opts.CalTable {
		want = 6
	}

	var samples []sample
	var calRe, calIm []float64
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		line++
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < want {
			return nil, fmt.Errorf("record %d: expected %d fields, got %d", line, want, len(record))
		}

		fields := make([]float64, want)
		for i := 0; i < want; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("record %d field %d: %w", line, i+1, err)
			}
			fields[i] = v
		}

		s := sample{
			x:     fields[0],
			y:     fields[1],
			trans: complex(fields[2], fields[3]),
		}
		if opts.CalTable {
			calRe = append(calRe, fields[4])
			calIm = append(calIm, fields[5])
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no scan records found")
	}

	// Smooth the reference columns in acquisition order before they are
	// placed on the grid, matching the drift timescale of the scan.
	if opts.CalTable {
		if opts.CalSmooth > 0 {
			var err error
			calRe, err = KaiserSmooth(calRe, 1.0, opts.CalSmooth)
			if err != nil {
				return nil, fmt.Errorf("smoothing reference data: %w", err)
			}
			calIm, err = KaiserSmooth(calIm, 1.0, opts.CalSmooth)
			if err != nil {
				return nil, fmt.Errorf("smoothing reference data: %w", err)
			}
		}
		for i := range samples {
			samples[i].ref = complex(calRe[i], calIm[i])
		}
	}

	xs := uniqueSorted(samples, func(s sample) float64 { return s.x })
	ys := uniqueSorted(samples, func(s sample) float64 { return s.y })
	nx, ny := len(xs), len(ys)
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("degenerate scan raster: %d x positions, %d y positions", nx, ny)
	}

	xIndex := indexOf(xs)
	yIndex := indexOf(ys)

	rawS := NewGrid(nx, ny)
	var rawCal *Grid
	if opts.CalTable {
		rawCal = NewGrid(nx, ny)
	}
	for _, s := range samples {
		ix, iy := xIndex[s.x], yIndex[s.y]
		rawS.Set(ix, iy, s.trans)
		if rawCal != nil {
			rawCal.Set(ix, iy, s.ref)
		}
	}

	sd := &ScanData{
		xLimits: [2]float64{xs[0], xs[nx-1]},
		yLimits: [2]float64{ys[0], ys[ny-1]},
		xPoints: nx,
		yPoints: ny,
		xStep:   (xs[nx-1] - xs[0]) / float64(nx-1),
		yStep:   (ys[ny-1] - ys[0]) / float64(ny-1),
	}

	// The stage raster may be irregularly spaced; resample onto the
	// uniform grid the rest of the pipeline expects.
	txs, tys := sd.XValues(), sd.YValues()
	sd.S21 = interpRectilinear(rawS, xs, ys, txs, tys)
	if rawCal != nil {
		sd.CalData = interpRectilinear(rawCal, xs, ys, txs, tys)
	}
	return sd, nil
}

func uniqueSorted(samples []sample, key func(sample) float64) []float64 {
	seen := make(map[float64]struct{}, len(samples))
	var vals []float64
	for _, s := range samples {
		v := key(s)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	return vals
}

func indexOf(vals []float64) map[float64]int {
	m := make(map[float64]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}
