// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package cnf encodes circuits into conjunctive normal form.
//
// The encoding is structural (Tseitin): every and gate g with
// fan-ins a, b contributes the three clauses of g <-> (a and b),
// and the circuit output is asserted with a unit clause, so the
// formula is satisfiable exactly when some input assignment drives
// the output true.  Node ids double as propositional variables, so
// there is no translation table to maintain and every cube encoding
// of one circuit shares the same variable space.
package cnf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/Seva-Vaskin/aig-cube/circuit"
)

// EncodingError indicates an internal invariant violation, such as
// a dangling fan-in reference that survived load validation.  It is
// a bug in the caller or in this package, never a recoverable
// condition.
type EncodingError string

func (e EncodingError) Error() string { return string(e) }

// A T is a clause set.  Clauses holds the base encoding of a
// circuit; Units holds unit assumptions appended by WithUnits.  The
// base is shared, unmodified, between all augmented copies of one
// encoding.
type T struct {
	Clauses [][]z.Lit
	Units   []z.Lit
	MaxVar  z.Var
}

// Encode builds the base clause set for c.  The output literal must
// be set and all gate fan-ins must precede their gate, otherwise
// Encode returns an EncodingError.
func Encode(c *circuit.C) (*T, error) {
	out := c.Output()
	if out == z.LitNull {
		return nil, EncodingError("circuit output not set")
	}
	t := &T{
		Clauses: make([][]z.Lit, 0, 3*c.Len()+2),
		MaxVar:  z.Var(c.Len() - 1)}
	if int(out.Var()) >= c.Len() {
		return nil, EncodingError(fmt.Sprintf("output literal %s out of range", out))
	}
	for i := 2; i < c.Len(); i++ {
		g := c.At(i)
		if !c.IsAnd(g) {
			continue
		}
		a, b := c.Ins(g)
		// Both the circuit builders and the AIGER loader only
		// produce arenas where fan-ins precede their gate, so this
		// guards an invariant no public construction path can break.
		if a.Var() >= g.Var() || b.Var() >= g.Var() {
			return nil, EncodingError(fmt.Sprintf("gate %s has dangling fan-in", g))
		}
		t.Clauses = append(t.Clauses,
			[]z.Lit{g.Not(), a},
			[]z.Lit{g.Not(), b},
			[]z.Lit{g, a.Not(), b.Not()})
	}
	if out.Var() == 1 {
		// constant output: assert the constant's phase so the
		// formula is trivially sat or unsat accordingly
		t.Clauses = append(t.Clauses, []z.Lit{z.Var(1).Pos()})
	}
	t.Clauses = append(t.Clauses, []z.Lit{out})
	return t, nil
}

// WithUnits returns a clause set extending t with one unit clause
// per literal in ms.  The base clauses are shared with t, so the
// cost is proportional to len(ms), not to the size of t.
func (t *T) WithUnits(ms ...z.Lit) *T {
	units := t.Units[:len(t.Units):len(t.Units)]
	return &T{
		Clauses: t.Clauses,
		Units:   append(units, ms...),
		MaxVar:  t.MaxVar}
}

// NumClauses returns the total clause count, units included.
func (t *T) NumClauses() int {
	return len(t.Clauses) + len(t.Units)
}

// Add feeds every clause of t to dst in the z.LitNull-terminated
// stream format of inter.Adder.
func (t *T) Add(dst inter.Adder) {
	for _, cls := range t.Clauses {
		for _, m := range cls {
			dst.Add(m)
		}
		dst.Add(z.LitNull)
	}
	for _, m := range t.Units {
		dst.Add(m)
		dst.Add(z.LitNull)
	}
}

// WriteDimacs writes t to w in DIMACS CNF format.
func (t *T) WriteDimacs(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", t.MaxVar, t.NumClauses())
	for _, cls := range t.Clauses {
		for _, m := range cls {
			fmt.Fprintf(bw, "%d ", m.Dimacs())
		}
		fmt.Fprintf(bw, "0\n")
	}
	for _, m := range t.Units {
		fmt.Fprintf(bw, "%d 0\n", m.Dimacs())
	}
	return bw.Flush()
}
