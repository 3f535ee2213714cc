// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package conquer

import (
	"time"

	"github.com/go-air/gini/z"
)

// A Result combines per-cube verdicts into a final answer with run
// statistics.  The aggregation policy is commutative: if any cube
// is sat the union is sat; if every cube of the exhaustive
// partition is unsat the union is unsat; any other mix leaves the
// run inconclusive, which is reported as Unknown, never as Unsat.
type Result struct {
	Status Status

	// Model is the witness of the first sat verdict in cube
	// order, if any.
	Model []z.Lit

	// Witness is the index of the witnessing cube, -1 otherwise.
	Witness int

	// Cubes counts the verdicts aggregated.
	Cubes    int
	TimedOut int
	Failed   int

	// Total sums the solve times of all verdicts; Max is the
	// longest single solve.
	Total time.Duration
	Max   time.Duration
}

// Aggregate folds vs into a Result.  vs is expected in cube order;
// total is the size of the cube partition the verdicts were drawn
// from.  An unsat conclusion needs every cube refuted, so when a run
// is cut short (fewer verdicts than cubes, no witness) the result is
// Unknown, never Unsat.
func Aggregate(vs []Verdict, total int) Result {
	r := Result{Status: Unsat, Witness: -1, Cubes: len(vs)}
	if len(vs) == 0 {
		r.Status = Unknown
		return r
	}
	for _, v := range vs {
		r.Total += v.Dur
		if v.Dur > r.Max {
			r.Max = v.Dur
		}
		switch v.Status {
		case Sat:
			if r.Witness < 0 {
				r.Model = v.Model
				r.Witness = v.Cube
			}
		case Unknown:
			if v.Reason == Timeout {
				r.TimedOut++
			} else {
				r.Failed++
			}
			if r.Status == Unsat {
				r.Status = Unknown
			}
		}
	}
	if r.Witness >= 0 {
		r.Status = Sat
	} else if len(vs) < total && r.Status == Unsat {
		r.Status = Unknown
	}
	return r
}
