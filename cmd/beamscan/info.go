package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use: "info <scan>...",

	Short: "Prints the raster geometry and peak position of scan files.",

	Example: `
  $ beamscan info scans/110GHz_copol.csv

  $ beamscan info --apply-cal scans/*.csv
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			return
		}

		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{
			"file",
			"points",
			"x range",
			"y range",
			"step",
			"cal",
			"peak",
		})

		for _, path := range args {
			sd, err := loadScan(cmd, path)
			if err != nil {
				fatal(err)
			}

			xmin, xmax := sd.XLimits()
			ymin, ymax := sd.YLimits()

			peak := "none"
			if _, pix, piy := sd.S21.MaxAbs(); pix >= 0 {
				peak = fmt.Sprintf("(%g, %g)", sd.XValues()[pix], sd.YValues()[piy])
			}

			tw.Append([]string{
				path,
				fmt.Sprintf("%dx%d", sd.XPoints(), sd.YPoints()),
				fmt.Sprintf("[%g, %g]", xmin, xmax),
				fmt.Sprintf("[%g, %g]", ymin, ymax),
				fmt.Sprintf("%gx%g", sd.XStep(), sd.YStep()),
				strconv.FormatBool(sd.HasCal()),
				peak,
			})
		}

		tw.Render()
	},
}
