// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package conquer dispatches cube sub-problems to a SAT solver
// backend and combines the per-cube verdicts into a final answer.
package conquer

import (
	"time"

	"github.com/go-air/gini/z"
)

// Status is a solver verdict.  The values follow the solver
// convention used throughout: 1 sat, -1 unsat, 0 undetermined.
type Status int8

const (
	Sat     Status = 1
	Unknown Status = 0
	Unsat   Status = -1
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	}
	return "UNKNOWN"
}

// Reason qualifies an Unknown status.
type Reason int8

const (
	None Reason = iota
	Timeout
	SolverError
)

func (r Reason) String() string {
	switch r {
	case Timeout:
		return "timeout"
	case SolverError:
		return "solver error"
	}
	return ""
}

// A Verdict is the outcome of conquering one cube.
type Verdict struct {
	// Cube is the index of the cube in generation order.
	Cube   int
	Status Status
	Reason Reason

	// Model holds a satisfying assignment when Status is Sat and
	// the backend produced one.
	Model []z.Lit

	// Err is the backend failure when Reason is SolverError.
	Err error

	Dur time.Duration
}
