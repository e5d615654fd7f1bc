package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PaulKGrimes/beamscanner/internal/field"
)

var farfieldCmd = &cobra.Command{
	Use: "farfield <scan>",

	Short: "Computes the far-field pattern of a scan by plane-wave spectrum decomposition.",

	Example: `
  $ beamscan farfield --freq 110 scans/110GHz_copol.csv

  $ beamscan farfield --freq 110 --out pattern.png scans/110GHz_copol.csv
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			return
		}

		flags := cmd.Flags()
		freq, _ := flags.GetFloat64("freq")
		pad, _ := flags.GetInt("pad")

		sd, err := loadScan(cmd, args[0])
		if err != nil {
			fatal(err)
		}

		ff, err := field.Transform(sd, freq, pad)
		if err != nil {
			fatal(err)
		}

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"frequency", "wavelength", "points", "u range", "v range"})
		tw.Append([]string{
			fmt.Sprintf("%g GHz", ff.FrequencyGHz),
			fmt.Sprintf("%.4g mm", ff.Wavelength()),
			fmt.Sprintf("%dx%d", len(ff.U), len(ff.V)),
			fmt.Sprintf("[%.4g, %.4g]", ff.U[0], ff.U[len(ff.U)-1]),
			fmt.Sprintf("[%.4g, %.4g]", ff.V[0], ff.V[len(ff.V)-1]),
		})
		tw.Render()

		out, _ := flags.GetString("out")
		if out == "" {
			return
		}

		opts, quantity, err := renderOptions(cmd)
		if err != nil {
			fatal(err)
		}
		if opts.CellSize == 0 {
			opts.CellSize = 2
		}

		res, err := renderQuantity(ff.Pattern, ff.U, ff.V, quantity, opts)
		if err != nil {
			fatal(err)
		}
		if err := writeMap(res, out); err != nil {
			fatal(err)
		}

		fmt.Printf("wrote %s (%dx%d, %s)\n", out, res.Width, res.Height, res.Quantity)
	},
}

func init() {
	flags := farfieldCmd.Flags()

	flags.Float64("freq", 0, "Measurement frequency in GHz.")
	flags.Int("pad", 4, "Zero-padding factor for the transform.")
	flags.String("out", "", "Write the pattern map to this PNG file.")

	addRenderFlags(farfieldCmd)
}
