package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/PaulKGrimes/beamscanner/internal/field"
)

var cutCmd = &cobra.Command{
	Use: "cut <scan>",

	Short: "Prints the principal-plane cuts through the beam peak.",

	Example: `
Near-field cuts:

  $ beamscan cut scans/110GHz_copol.csv

Far-field cuts, computing the pattern first:

  $ beamscan cut --freq 110 scans/110GHz_copol.csv
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

		var cuts *field.Cuts
		if freq > 0 {
			pad, _ := flags.GetInt("pad")
			ff, err := field.Transform(sd, freq, pad)
			if err != nil {
				fatal(err)
			}
			cuts, err = field.PrincipalCuts(ff.Pattern, ff.U, ff.V)
			if err != nil {
				fatal(err)
			}
		} else {
			cuts, err = field.PrincipalCuts(sd.S21, sd.XValues(), sd.YValues())
			if err != nil {
				fatal(err)
			}
		}

		printCut("E-plane", cuts.E)
		fmt.Println()
		printCut("H-plane", cuts.H)
	},
}

func printCut(name string, points []field.CutPoint) {
	fmt.Println(name)

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"position", "amplitude (dB)", "phase (deg)"})

	for _, p := range points {
		tw.Append([]string{
			fmt.Sprintf("%.4g", p.Position),
			fmt.Sprintf("%.2f", p.AmplitudeDB),
			fmt.Sprintf("%.2f", p.PhaseDeg),
		})
	}

	tw.Render()
}

func init() {
	flags := cutCmd.Flags()

	flags.Float64("freq", 0, "Cut the far-field pattern at this frequency in GHz instead of the raw scan.")
	flags.Int("pad", 4, "Zero-padding factor for the far-field transform.")
}
