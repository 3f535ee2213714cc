// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Seva-Vaskin/aig-cube/circuit"
	"github.com/Seva-Vaskin/aig-cube/cnf"
	"github.com/Seva-Vaskin/aig-cube/cube"
)

func newCubeCmd() *cobra.Command {
	var (
		outDir     string
		depth      int
		candidates int
		scorer     string
	)
	cmd := &cobra.Command{
		Use:   "cube <circuit.aag|circuit.aig>",
		Short: "decompose a circuit and write one DIMACS file per cube",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := cube.ByName(scorer)
			if err != nil {
				return err
			}
			c, err := circuit.Load(args[0])
			if err != nil {
				return err
			}
			base, err := cnf.Encode(c)
			if err != nil {
				return err
			}
			cubes, trivial, err := cube.Generate(c, cube.Options{
				Depth:      depth,
				Candidates: candidates,
				Scorer:     sc,
			})
			if err != nil {
				return err
			}
			if trivial != cube.NotTrivial {
				status := "SATISFIABLE"
				if trivial == cube.TriviallyUnsat {
					status = "UNSATISFIABLE"
				}
				fmt.Printf("s %s\n", status)
				fmt.Println("c trivially decided, no cubes written")
				return nil
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrap(err, "cube output dir")
			}
			for i, cb := range cubes {
				p := filepath.Join(outDir, fmt.Sprintf("cube_%04d.cnf", i))
				if err := writeCubeFile(p, base, cb); err != nil {
					return err
				}
			}
			fmt.Printf("c wrote %d cubes to %s\n", len(cubes), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "directory for the cube CNF files")
	cmd.Flags().IntVarP(&depth, "depth", "d", 4, "cube splitting depth")
	cmd.Flags().IntVarP(&candidates, "candidates", "k", cube.DefaultCandidates, "lookahead candidate set size")
	cmd.Flags().StringVar(&scorer, "scorer", "propagation", "lookahead scorer (propagation|balance)")
	cmd.MarkFlagRequired("output-dir")
	return cmd
}

func writeCubeFile(path string, base *cnf.T, cb cube.Cube) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cube file")
	}
	if err := base.WithUnits(cb...).WriteDimacs(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
