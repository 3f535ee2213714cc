// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Command aigcube builds cubes from AIGER circuits and solves them
// by Cube and Conquer.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "aigcube",
		Short:         "cube and conquer SAT solving on and-inverter graphs",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.AddCommand(newCubeCmd(), newSolveCmd())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
