package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PaulKGrimes/beamscanner/internal/analysis"
	"github.com/PaulKGrimes/beamscanner/internal/field"
	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

var metricsCmd = &cobra.Command{
	Use: "metrics <scan>",

	Short: "Measures beam peak, centroid, -3 dB widths, and sidelobes.",

	Example: `
  $ beamscan metrics scans/110GHz_copol.csv

  $ beamscan metrics --freq 110 --sidelobes scans/110GHz_copol.csv
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			return
		}

		flags := cmd.Flags()
		freq, _ := flags.GetFloat64("freq")

		sd, err := loadScan(cmd, args[0])
		if err != nil {
			fatal(err)
		}

		g, xs, ys := sd.S21, sd.XValues(), sd.YValues()
		if freq > 0 {
			pad, _ := flags.GetInt("pad")
			ff, err := field.Transform(sd, freq, pad)
			if err != nil {
				fatal(err)
			}
			g, xs, ys = ff.Pattern, ff.U, ff.V
		}

		m, err := analysis.Measure(g, xs, ys)
		if err != nil {
			fatal(err)
		}

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"peak", "centroid", "-3db width", "total power"})
		tw.Append([]string{
			fmt.Sprintf("(%.4g, %.4g)", m.PeakX, m.PeakY),
			fmt.Sprintf("(%.4g, %.4g)", m.CentroidX, m.CentroidY),
			fmt.Sprintf("%.4g x %.4g", m.BeamwidthX, m.BeamwidthY),
			fmt.Sprintf("%.2f dB", m.TotalPowerDB),
		})
		tw.Render()

		if wantSidelobes, _ := flags.GetBool("sidelobes"); wantSidelobes {
			printSidelobes(g, xs, ys, cmd)
		}
	},
}

func printSidelobes(g *scan.Grid, xs, ys []float64, cmd *cobra.Command) {
	flags := cmd.Flags()
	minLevel, _ := flags.GetFloat64("min-level")
	maxCount, _ := flags.GetInt("max-count")

	res, err := analysis.FindSidelobes(g, xs, ys, minLevel, maxCount)
	if err != nil {
		fatal(err)
	}

	if res.Count == 0 {
		fmt.Println("No sidelobes found.")
		return
	}

	fmt.Println()
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"x", "y", "level (dB)"})
	for _, sl := range res.Sidelobes {
		tw.Append([]string{
			fmt.Sprintf("%.4g", sl.X),
			fmt.Sprintf("%.4g", sl.Y),
			fmt.Sprintf("%.2f", sl.LevelDB),
		})
	}
	tw.Render()
}

func init() {
	flags := metricsCmd.Flags()

	flags.Float64("freq", 0, "Measure the far-field pattern at this frequency in GHz instead of the raw scan.")
	flags.Int("pad", 4, "Zero-padding factor for the far-field transform.")
	flags.Bool("sidelobes", false, "Also search for sidelobes outside the main lobe.")
	flags.Float64("min-level", -60, "Discard sidelobes below this level in dB.")
	flags.Int("max-count", 10, "Maximum number of sidelobes to report.")
}
