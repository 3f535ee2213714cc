// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package conquer

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/Seva-Vaskin/aig-cube/cnf"
)

// A Backend solves one encoded sub-problem.
//
// Solve returns 1 if f is satisfiable together with a model, -1 if
// unsatisfiable, and 0 if undetermined within timeout.  A non-nil
// error reports a backend failure, not an unsatisfiable formula.
// name identifies the task for any artifact the backend materializes.
//
// Backends must be safe for concurrent use.
type Backend interface {
	Solve(ctx context.Context, name string, f *cnf.T, timeout time.Duration) (int, []z.Lit, error)
}

// Gini solves in process with the gini solver library.
type Gini struct{}

func (Gini) Solve(ctx context.Context, name string, f *cnf.T, timeout time.Duration) (int, []z.Lit, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	g := gini.New()
	f.Add(g)
	var res int
	if timeout > 0 {
		res = g.GoSolve().Try(timeout)
	} else {
		res = g.Solve()
	}
	if res != 1 {
		return res, nil, nil
	}
	model := make([]z.Lit, 0, int(f.MaxVar))
	for v := z.Var(2); v <= f.MaxVar; v++ {
		m := v.Pos()
		if !g.Value(m) {
			m = m.Not()
		}
		model = append(model, m)
	}
	return 1, model, nil
}
