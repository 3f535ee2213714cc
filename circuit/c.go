// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package circuit provides an in-memory model of combinational
// and-inverter graphs (AIGs) with a single designated output.
//
// A circuit is a flat arena of nodes.  Node i is addressed by the
// variable z.Var(i), so the node graph and the propositional
// variables of any CNF encoding of it share one namespace.  Variable
// 1 is reserved for the boolean constant, inputs and gates are
// numbered from 2 in creation order.  The arena is topologically
// sorted: both fan-ins of a gate precede the gate.
package circuit

import (
	"github.com/go-air/gini/z"
)

// A C represents a combinational and-inverter graph.  Once loaded
// from a source, a C is immutable and may be shared freely between
// goroutines.
type C struct {
	nodes  []node
	strash []uint32
	ins    []z.Lit
	out    z.Lit
	outSet bool

	// F and T are the constant false/true literals.
	F z.Lit
	T z.Lit
}

type node struct {
	a z.Lit
	b z.Lit
	n uint32 // next strash
}

// NewC creates a new empty circuit.
func NewC() *C {
	return NewCCap(128)
}

// NewCCap creates a new empty circuit with node capacity hint capHint.
func NewCCap(capHint int) *C {
	if capHint < 2 {
		capHint = 2
	}
	c := &C{
		nodes:  make([]node, 2, capHint),
		strash: make([]uint32, capHint)}
	c.F = z.Var(1).Neg()
	c.T = c.F.Not()
	return c
}

// NewIn creates a new primary input and returns its literal.
// Inputs are enumerated by Inputs in the order they were created.
func (c *C) NewIn() z.Lit {
	m := len(c.nodes)
	c.newNode()
	in := z.Var(m).Pos()
	c.ins = append(c.ins, in)
	return in
}

// Inputs returns the primary inputs in declaration order.  The
// returned slice is owned by c and must not be modified.
func (c *C) Inputs() []z.Lit {
	return c.ins
}

// SetOutput designates m as the output of c.
func (c *C) SetOutput(m z.Lit) {
	c.out = m
	c.outSet = true
}

// Output returns the designated output literal.
func (c *C) Output() z.Lit {
	return c.out
}

// Len returns the number of nodes in the arena, including the
// unused node 0 and the constant node 1.
func (c *C) Len() int {
	return len(c.nodes)
}

// At returns the i'th node as a positive literal.  Nodes are in
// topological order: if i < j then At(j) is not in the fan-in
// of At(i).
func (c *C) At(i int) z.Lit {
	return z.Var(i).Pos()
}

// Ins returns the fan-in literals of m.  If m is an input or the
// constant, Ins returns z.LitNull, z.LitNull.
func (c *C) Ins(m z.Lit) (z.Lit, z.Lit) {
	n := c.nodes[m.Var()]
	return n.a, n.b
}

// IsInput reports whether m refers to a primary input.
func (c *C) IsInput(m z.Lit) bool {
	v := m.Var()
	if v < 2 || int(v) >= len(c.nodes) {
		return false
	}
	n := c.nodes[v]
	return n.a == z.LitNull && n.b == z.LitNull
}

// IsAnd reports whether m refers to an and gate.
func (c *C) IsAnd(m z.Lit) bool {
	v := m.Var()
	if v < 2 || int(v) >= len(c.nodes) {
		return false
	}
	return c.nodes[v].a != z.LitNull
}

// And returns a literal equivalent to "a and b".  Structural
// hashing and constant simplification apply, so the result is not
// necessarily a new node.
func (c *C) And(a, b z.Lit) z.Lit {
	if a == b {
		return a
	}
	if a == b.Not() {
		return c.F
	}
	if a > b {
		a, b = b, a
	}
	if a == c.F {
		return c.F
	}
	if a == c.T {
		return b
	}
	h := strashCode(a, b)
	si := c.strash[h%uint32(cap(c.nodes))]
	for si != 0 {
		n := &c.nodes[si]
		if n.a == a && n.b == b {
			return z.Var(si).Pos()
		}
		si = n.n
	}
	m, j := c.newNode()
	m.a = a
	m.b = b
	k := h % uint32(cap(c.nodes))
	m.n = c.strash[k]
	c.strash[k] = j
	return z.Var(j).Pos()
}

// Ands constructs the conjunction of ms.  If ms is empty, Ands
// returns c.T.
func (c *C) Ands(ms ...z.Lit) z.Lit {
	a := c.T
	for _, m := range ms {
		a = c.And(a, m)
	}
	return a
}

// Or constructs the disjunction of a and b.
func (c *C) Or(a, b z.Lit) z.Lit {
	return c.And(a.Not(), b.Not()).Not()
}

// Ors constructs the disjunction of ms.  If ms is empty, Ors
// returns c.F.
func (c *C) Ors(ms ...z.Lit) z.Lit {
	d := c.F
	for _, m := range ms {
		d = c.Or(d, m)
	}
	return d
}

// Implies constructs a literal equivalent to (a implies b).
func (c *C) Implies(a, b z.Lit) z.Lit {
	return c.Or(a.Not(), b)
}

// Xor constructs a literal equivalent to (a xor b).
func (c *C) Xor(a, b z.Lit) z.Lit {
	return c.Or(c.And(a, b.Not()), c.And(a.Not(), b))
}

// Eval evaluates the circuit under the input assignment in vs,
// where vs[i] holds the value of variable i.  vs must have length
// at least Len().  Gate values are filled in place and the value
// of the output literal is returned.
func (c *C) Eval(vs []bool) bool {
	vs[1] = true // the constant
	for i := 2; i < len(c.nodes); i++ {
		n := &c.nodes[i]
		if n.a == z.LitNull {
			continue
		}
		vs[i] = c.Value(vs, n.a) && c.Value(vs, n.b)
	}
	return c.Value(vs, c.out)
}

// Value returns the value of literal m under the assignment vs.
func (c *C) Value(vs []bool, m z.Lit) bool {
	t := vs[m.Var()]
	if !m.IsPos() {
		return !t
	}
	return t
}

func (c *C) newNode() (*node, uint32) {
	if len(c.nodes) == cap(c.nodes) {
		c.grow()
	}
	id := len(c.nodes)
	c.nodes = c.nodes[:id+1]
	return &c.nodes[id], uint32(id)
}

func (c *C) grow() {
	newCap := cap(c.nodes) * 2
	nodes := make([]node, len(c.nodes), newCap)
	strash := make([]uint32, newCap)
	copy(nodes, c.nodes)
	ucap := uint32(newCap)
	for i := range nodes {
		n := &nodes[i]
		if n.a == z.LitNull {
			continue
		}
		h := strashCode(n.a, n.b) % ucap
		n.n = strash[h]
		strash[h] = uint32(i)
	}
	c.nodes = nodes
	c.strash = strash
}

func strashCode(a, b z.Lit) uint32 {
	return uint32((a << 13) * b)
}
