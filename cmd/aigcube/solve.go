// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	aigcube "github.com/Seva-Vaskin/aig-cube"
	"github.com/Seva-Vaskin/aig-cube/circuit"
	"github.com/Seva-Vaskin/aig-cube/conquer"
	"github.com/Seva-Vaskin/aig-cube/cube"
)

func newSolveCmd() *cobra.Command {
	var (
		solver     string
		depth      int
		candidates int
		scorer     string
		timeout    time.Duration
		workers    int
		keepDir    string
		csvPath    string
		model      bool
	)
	cmd := &cobra.Command{
		Use:   "solve <circuit.aag|circuit.aig>",
		Short: "solve a circuit by cube and conquer",
		Long: `Solve decomposes the circuit into cubes and conquers them in
parallel.  Without -s the in-process gini solver is used; with -s
each cube is handed to the named external solver as DIMACS, with
exit status 10 read as sat and 20 as unsat.

The command exits 10 when satisfiable, 20 when unsatisfiable and 0
when the run is inconclusive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := cube.ByName(scorer)
			if err != nil {
				return err
			}
			c, err := circuit.Load(args[0])
			if err != nil {
				return err
			}
			var backend conquer.Backend = conquer.Gini{}
			if solver != "" {
				if keepDir != "" {
					if err := os.MkdirAll(keepDir, 0o755); err != nil {
						return errors.Wrap(err, "artifact dir")
					}
				}
				backend = &conquer.Exec{Path: solver, Dir: keepDir}
			} else if keepDir != "" {
				return errors.New("--keep-cnfs requires an external solver (-s)")
			}

			start := time.Now()
			res, verdicts, err := aigcube.Run(cmd.Context(), c, aigcube.Options{
				Depth:      depth,
				Candidates: candidates,
				Scorer:     sc,
				Backend:    backend,
				Timeout:    timeout,
				Workers:    workers,
			})
			if err != nil {
				return err
			}
			total := time.Since(start)

			switch res.Status {
			case conquer.Sat:
				fmt.Println("s SATISFIABLE")
				if model && len(res.Model) > 0 {
					printModel(res.Model)
				}
			case conquer.Unsat:
				fmt.Println("s UNSATISFIABLE")
			default:
				fmt.Println("s UNKNOWN")
				log.WithFields(log.Fields{
					"timed_out": res.TimedOut,
					"failed":    res.Failed,
				}).Warn("run inconclusive: unknown is not a proof of unsat")
			}
			fmt.Printf("c cubes %d conquer %s total %s\n", res.Cubes, res.Total, total)

			if csvPath != "" {
				if err := writeReport(csvPath, args[0], res, verdicts); err != nil {
					return err
				}
			}
			switch res.Status {
			case conquer.Sat:
				os.Exit(10)
			case conquer.Unsat:
				os.Exit(20)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&solver, "solver", "s", "", "path to an external SAT solver executable")
	cmd.Flags().IntVarP(&depth, "depth", "d", 4, "cube splitting depth")
	cmd.Flags().IntVarP(&candidates, "candidates", "k", cube.DefaultCandidates, "lookahead candidate set size")
	cmd.Flags().StringVar(&scorer, "scorer", "propagation", "lookahead scorer (propagation|balance)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-cube wall clock timeout (0 = none)")
	cmd.Flags().IntVar(&workers, "workers", 0, "conquer workers (0 = one per CPU)")
	cmd.Flags().StringVar(&keepDir, "keep-cnfs", "", "persist cube DIMACS files to this directory")
	cmd.Flags().StringVarP(&csvPath, "output", "o", "", "write a CSV report to this file")
	cmd.Flags().BoolVar(&model, "model", false, "output a satisfying assignment")
	return cmd
}

func printModel(ms []z.Lit) {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = fmt.Sprintf("%d", m.Dimacs())
	}
	fmt.Printf("v %s 0\n", strings.Join(parts, " "))
}

// writeReport emits the ordered (cube, verdict, seconds) tuples
// followed by a summary row.
func writeReport(path, input string, res conquer.Result, verdicts []conquer.Verdict) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "csv report")
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"cube", "verdict", "seconds"}); err != nil {
		return err
	}
	for _, v := range verdicts {
		status := v.Status.String()
		if v.Status == conquer.Unknown && v.Reason != conquer.None {
			status = fmt.Sprintf("%s (%s)", status, v.Reason)
		}
		rec := []string{
			fmt.Sprintf("%d", v.Cube),
			status,
			fmt.Sprintf("%.6f", v.Dur.Seconds()),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	final := []string{input, res.Status.String(), fmt.Sprintf("%.6f", res.Total.Seconds())}
	if err := w.Write(final); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
