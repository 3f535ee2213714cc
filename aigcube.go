// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package aigcube solves circuit satisfiability by Cube and
// Conquer directly on and-inverter graphs.
//
// The problem, a single-output AIG whose output is asserted true,
// is first decomposed into cubes by a lookahead over the circuit
// structure (package cube), each cube is encoded as the shared
// Tseitin base plus unit assumptions (package cnf) and conquered
// in parallel by a solver backend (package conquer), and the
// per-cube verdicts are aggregated into SAT, UNSAT or UNKNOWN.
package aigcube

import (
	"context"
	"time"

	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/Seva-Vaskin/aig-cube/circuit"
	"github.com/Seva-Vaskin/aig-cube/cnf"
	"github.com/Seva-Vaskin/aig-cube/conquer"
	"github.com/Seva-Vaskin/aig-cube/cube"
)

// Options configures a full run.  The zero value solves with depth
// 0 (a single cube), the in-process backend, no per-cube timeout
// and one worker per CPU.
type Options struct {
	// Depth is the cube splitting depth; up to 2^Depth cubes are
	// generated.
	Depth int

	// Candidates is the lookahead candidate set size.  Zero means
	// cube.DefaultCandidates.
	Candidates int

	// Scorer is the lookahead scoring policy.  Nil means
	// cube.Propagation.
	Scorer cube.Scorer

	// Backend conquers individual cubes.  Nil means the
	// in-process conquer.Gini backend.
	Backend conquer.Backend

	// Timeout bounds each cube solve.  Zero means no limit.
	Timeout time.Duration

	// Workers is the conquer pool size.  Zero means
	// runtime.NumCPU.
	Workers int

	Logger logrus.FieldLogger
}

// Run cubes, conquers and aggregates the circuit c.  The verdicts
// of all conquered cubes are returned alongside the final result
// for reporting; both are ordered by cube index.
func Run(ctx context.Context, c *circuit.C, opts Options) (conquer.Result, []conquer.Verdict, error) {
	backend := opts.Backend
	if backend == nil {
		backend = conquer.Gini{}
	}
	base, err := cnf.Encode(c)
	if err != nil {
		return conquer.Result{Status: conquer.Unknown}, nil, err
	}
	cubes, trivial, err := cube.Generate(c, cube.Options{
		Depth:      opts.Depth,
		Candidates: opts.Candidates,
		Scorer:     opts.Scorer,
		Logger:     opts.Logger,
	})
	if err != nil {
		return conquer.Result{Status: conquer.Unknown}, nil, err
	}
	switch trivial {
	case cube.TriviallySat:
		return conquer.Result{
			Status:  conquer.Sat,
			Model:   trivialModel(c),
			Witness: -1,
		}, nil, nil
	case cube.TriviallyUnsat:
		return conquer.Result{Status: conquer.Unsat, Witness: -1}, nil, nil
	}
	verdicts, err := conquer.RunAll(ctx, base, cubes, backend, conquer.Options{
		Timeout: opts.Timeout,
		Workers: opts.Workers,
		Logger:  opts.Logger,
	})
	if err != nil {
		return conquer.Result{Status: conquer.Unknown}, nil, err
	}
	return conquer.Aggregate(verdicts, len(cubes)), verdicts, nil
}

// trivialModel witnesses a constant-true output: any assignment
// works, so all inputs are reported false.
func trivialModel(c *circuit.C) []z.Lit {
	ins := c.Inputs()
	model := make([]z.Lit, len(ins))
	for i, in := range ins {
		model[i] = in.Not()
	}
	return model
}
