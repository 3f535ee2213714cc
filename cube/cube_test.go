// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package cube_test

import (
	"testing"

	"github.com/go-air/gini/z"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/Seva-Vaskin/aig-cube/circuit"
	"github.com/Seva-Vaskin/aig-cube/cube"
)

func quietOpts(depth int) cube.Options {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return cube.Options{Depth: depth, Logger: log}
}

// orChain returns a circuit computing the disjunction of n inputs.
func orChain(n int) *circuit.C {
	c := circuit.NewC()
	ins := make([]z.Lit, n)
	for i := range ins {
		ins[i] = c.NewIn()
	}
	c.SetOutput(c.Ors(ins...))
	return c
}

func TestGenerateDepthZero(t *testing.T) {
	cubes, triv, err := cube.Generate(orChain(3), quietOpts(0))
	if err != nil {
		t.Fatal(err)
	}
	if triv != cube.NotTrivial {
		t.Fatalf("unexpected trivial verdict %d", triv)
	}
	if len(cubes) != 1 || len(cubes[0]) != 0 {
		t.Errorf("got %v, want a single empty cube", cubes)
	}
}

func TestGenerateNegativeDepth(t *testing.T) {
	_, _, err := cube.Generate(orChain(2), quietOpts(-1))
	if err != cube.ErrDepth {
		t.Errorf("got %v, want ErrDepth", err)
	}
}

func TestGenerateTrivialSat(t *testing.T) {
	c := circuit.NewC()
	a := c.NewIn()
	c.SetOutput(c.Or(a, a.Not()))
	cubes, triv, err := cube.Generate(c, quietOpts(3))
	if err != nil {
		t.Fatal(err)
	}
	if triv != cube.TriviallySat || cubes != nil {
		t.Errorf("got %v, %d", cubes, triv)
	}
}

func TestGenerateTrivialUnsat(t *testing.T) {
	c := circuit.NewC()
	a := c.NewIn()
	c.SetOutput(c.And(a, a.Not()))
	_, triv, err := cube.Generate(c, quietOpts(3))
	if err != nil {
		t.Fatal(err)
	}
	if triv != cube.TriviallyUnsat {
		t.Errorf("got %d, want trivially unsat", triv)
	}
}

func TestGenerateConflictingOutput(t *testing.T) {
	// Asserting the output forces a both true and false, which
	// structural propagation alone discovers.
	c := circuit.NewC()
	a := c.NewIn()
	b := c.NewIn()
	c.SetOutput(c.And(c.And(a, b), a.Not()))
	_, triv, err := cube.Generate(c, quietOpts(3))
	if err != nil {
		t.Fatal(err)
	}
	if triv != cube.TriviallyUnsat {
		t.Errorf("got %d, want trivially unsat", triv)
	}
}

// cubeVars collects the set of variables any cube constrains.
func cubeVars(cubes []cube.Cube) map[z.Var]bool {
	vars := make(map[z.Var]bool)
	for _, cb := range cubes {
		for _, m := range cb {
			vars[m.Var()] = true
		}
	}
	return vars
}

// checkPartition verifies that every total assignment over the split
// variables is consistent with exactly one cube.
func checkPartition(t *testing.T, cubes []cube.Cube) {
	t.Helper()
	var vars []z.Var
	for v := range cubeVars(cubes) {
		vars = append(vars, v)
	}
	if len(vars) > 16 {
		t.Fatalf("too many split variables to enumerate: %d", len(vars))
	}
	for bits := 0; bits < 1<<len(vars); bits++ {
		asn := make(map[z.Var]bool, len(vars))
		for i, v := range vars {
			asn[v] = bits&(1<<i) != 0
		}
		n := 0
		for _, cb := range cubes {
			ok := true
			for _, m := range cb {
				if asn[m.Var()] != m.IsPos() {
					ok = false
					break
				}
			}
			if ok {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("assignment %v consistent with %d cubes, want 1", asn, n)
		}
	}
}

func TestGeneratePartition(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		c := orChain(4)
		cubes, triv, err := cube.Generate(c, quietOpts(depth))
		if err != nil {
			t.Fatal(err)
		}
		if triv != cube.NotTrivial {
			t.Fatalf("depth %d: unexpected trivial verdict", depth)
		}
		if len(cubes) == 0 || len(cubes) > 1<<depth {
			t.Fatalf("depth %d: %d cubes", depth, len(cubes))
		}
		for _, cb := range cubes {
			if len(cb) > depth {
				t.Errorf("depth %d: cube %v too long", depth, cb)
			}
		}
		checkPartition(t, cubes)
	}
}

func TestGenerateStopsWhenResolved(t *testing.T) {
	// Two free variables support at most four branches no matter
	// how deep the split is allowed to go.
	cubes, _, err := cube.Generate(orChain(2), quietOpts(5))
	if err != nil {
		t.Fatal(err)
	}
	if len(cubes) > 4 {
		t.Errorf("got %d cubes from a two variable circuit", len(cubes))
	}
	checkPartition(t, cubes)
}

func TestGenerateCoversSatisfyingInputs(t *testing.T) {
	c := circuit.NewC()
	ins := make([]z.Lit, 4)
	for i := range ins {
		ins[i] = c.NewIn()
	}
	// out = (i0 and i1) or (i2 xor i3)
	c.SetOutput(c.Or(c.And(ins[0], ins[1]), c.Xor(ins[2], ins[3])))
	cubes, _, err := cube.Generate(c, quietOpts(3))
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, cubes)
	// Every satisfying input assignment, extended to gate values by
	// evaluation, must land in exactly one cube.
	for bits := 0; bits < 16; bits++ {
		vs := make([]bool, c.Len())
		for i, m := range ins {
			vs[m.Var()] = bits&(1<<i) != 0
		}
		if !c.Eval(vs) {
			continue
		}
		n := 0
		for _, cb := range cubes {
			ok := true
			for _, m := range cb {
				if vs[m.Var()] != m.IsPos() {
					ok = false
					break
				}
			}
			if ok {
				n++
			}
		}
		if n != 1 {
			t.Errorf("satisfying inputs %04b land in %d cubes, want 1", bits, n)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	mk := func() []cube.Cube {
		c := circuit.NewC()
		ins := make([]z.Lit, 5)
		for i := range ins {
			ins[i] = c.NewIn()
		}
		c.SetOutput(c.Or(c.Ands(ins[0], ins[1], ins[2]), c.Xor(ins[3], ins[4])))
		cubes, _, err := cube.Generate(c, quietOpts(3))
		if err != nil {
			t.Fatal(err)
		}
		return cubes
	}
	if d := cmp.Diff(mk(), mk()); d != "" {
		t.Errorf("generation not deterministic:\n%s", d)
	}
}

func TestGenerateCandidateBound(t *testing.T) {
	c := orChain(8)
	opts := quietOpts(2)
	opts.Candidates = 1
	cubes, _, err := cube.Generate(c, opts)
	if err != nil {
		t.Fatal(err)
	}
	checkPartition(t, cubes)
}
