package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PaulKGrimes/beamscanner/internal/render"
	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

var renderCmd = &cobra.Command{
	Use: "render <scan> <output.png>",

	Short: "Renders a near-field amplitude or phase map to a PNG file.",

	Example: `
  $ beamscan render scans/110GHz_copol.csv beam.png

  $ beamscan render --quantity phase --grid-spacing 10 scans/110GHz_copol.csv phase.png

  $ beamscan render --config render.yaml scans/110GHz_copol.csv beam.png
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			cmd.Usage()
			return
		}

		sd, err := loadScan(cmd, args[0])
		if err != nil {
			fatal(err)
		}

		opts, quantity, err := renderOptions(cmd)
		if err != nil {
			fatal(err)
		}

		res, err := renderQuantity(sd.S21, sd.XValues(), sd.YValues(), quantity, opts)
		if err != nil {
			fatal(err)
		}

		if err := writeMap(res, args[1]); err != nil {
			fatal(err)
		}

		fmt.Printf("wrote %s (%dx%d, %s)\n", args[1], res.Width, res.Height, res.Quantity)
	},
}

// renderOptions merges the optional config file with flag overrides.
func renderOptions(cmd *cobra.Command) (render.MapOptions, string, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := render.LoadConfig(configPath)
	if err != nil {
		return render.MapOptions{}, "", err
	}
	opts := cfg.Options()

	if v, _ := flags.GetString("colormap"); v != "" {
		opts.Colormap = v
	}
	if flags.Changed("floor-db") {
		opts.FloorDB, _ = flags.GetFloat64("floor-db")
	}
	if flags.Changed("cell-size") {
		opts.CellSize, _ = flags.GetInt("cell-size")
	}
	if flags.Changed("smooth-sigma") {
		opts.SmoothSigma, _ = flags.GetFloat64("smooth-sigma")
	}
	if flags.Changed("grid-spacing") {
		opts.GridSpacing, _ = flags.GetFloat64("grid-spacing")
	}
	if v, _ := flags.GetString("grid-color"); v != "" {
		opts.GridColor = v
	}

	quantity, _ := flags.GetString("quantity")

	return opts, quantity, nil
}

func renderQuantity(g *scan.Grid, xs, ys []float64, quantity string, opts render.MapOptions) (*render.MapResult, error) {
	switch quantity {
	case "", "amplitude":
		return render.RenderAmplitude(g, xs, ys, opts)
	case "phase":
		return render.RenderPhase(g, xs, ys, opts)
	default:
		return nil, fmt.Errorf("unknown quantity: %s", quantity)
	}
}

func writeMap(res *render.MapResult, path string) error {
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func addRenderFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("quantity", "amplitude", "Field quantity to render, amplitude or phase.")
	flags.String("config", "", "YAML file with rendering defaults.")
	flags.String("colormap", "", "Color ramp, one of thermal, gray, phase.")
	flags.Float64("floor-db", 0, "Amplitude clipping level in dB below the peak.")
	flags.Int("cell-size", 0, "Rendered pixels per grid cell.")
	flags.Float64("smooth-sigma", 0, "Gaussian blur radius applied to the map.")
	flags.Float64("grid-spacing", 0, "Draw labeled axis lines every this many axis units.")
	flags.String("grid-color", "", "Axis line color as hex, e.g. #FFFFFF80.")
}

func init() {
	addRenderFlags(renderCmd)
}
