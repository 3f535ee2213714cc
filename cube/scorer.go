// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package cube

import "github.com/pkg/errors"

// A Scorer ranks a splitting candidate from the propagation deltas
// of its two lookahead probes: d0 and d1 are the numbers of
// variables resolved by fixing the candidate false and true
// respectively.  Higher is better.  Scorers must be pure functions
// of their arguments so that generation stays deterministic.
type Scorer interface {
	Score(d0, d1 int) int
}

// Propagation scores a candidate by the product of its two deltas,
// rewarding variables that simplify the circuit a lot in both
// branches.
type Propagation struct{}

func (Propagation) Score(d0, d1 int) int { return d0 * d1 }

// Balance scores a candidate by the smaller of its two deltas,
// penalizing variables whose simplification is one sided.
type Balance struct{}

func (Balance) Score(d0, d1 int) int {
	if d0 < d1 {
		return d0
	}
	return d1
}

// ByName resolves a scorer from its configuration name.
func ByName(name string) (Scorer, error) {
	switch name {
	case "propagation":
		return Propagation{}, nil
	case "balance":
		return Balance{}, nil
	}
	return nil, errors.Errorf("cube: unknown scorer %q", name)
}
