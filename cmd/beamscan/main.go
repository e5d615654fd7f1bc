package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PaulKGrimes/beamscanner/internal/scan"
)

var mainCmd = &cobra.Command{
	Use: "beamscan",

	Short: "Commands for analyzing near-field beam scanner data.",

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// loadScan reads a scan file honoring the global load flags.
func loadScan(cmd *cobra.Command, path string) (*scan.ScanData, error) {
	flags := cmd.Flags()

	opts := scan.DefaultOptions()
	if noCal, _ := flags.GetBool("no-cal"); noCal {
		opts.CalTable = false
	}
	opts.CalSmooth, _ = flags.GetInt("cal-smooth")

	sd, err := scan.LoadFile(path, opts)
	if err != nil {
		return nil, err
	}

	if applyCal, _ := flags.GetBool("apply-cal"); applyCal {
		if err := sd.ApplyCal(); err != nil {
			return nil, err
		}
	}

	return sd, nil
}

func fatal(err error) {
	fmt.Println(err)
	os.Exit(1)
}

func main() {
	flags := mainCmd.PersistentFlags()

	flags.Bool("no-cal", false, "Parse files without reference measurement columns.")
	flags.Int("cal-smooth", 0, "Kaiser window length for smoothing the reference columns.")
	flags.Bool("apply-cal", false, "Normalize the field by the reference measurements after loading.")

	mainCmd.AddCommand(versionCmd)
	mainCmd.AddCommand(infoCmd)
	mainCmd.AddCommand(renderCmd)
	mainCmd.AddCommand(farfieldCmd)
	mainCmd.AddCommand(cutCmd)
	mainCmd.AddCommand(metricsCmd)

	mainCmd.Execute()
}
