// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

// Package cube decomposes a circuit satisfiability problem into
// independent sub-problems.
//
// A cube is a conjunction of unit literals over circuit variables.
// The generator grows a binary decision tree of depth at most d:
// at every branch it picks a splitting variable by a two stage
// lookahead over the residual circuit of that branch, and the
// leaves, read root to leaf, are the cubes.  Sibling branches fix
// the chosen variable to opposite phases, so the cube set
// partitions the assignment space over the split variables.
package cube

import (
	"sort"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Seva-Vaskin/aig-cube/circuit"
)

// A Cube is an ordered sequence of unit literals fixing the
// polarities of the splitting variables chosen on one branch.
type Cube []z.Lit

// Trivial reports a verdict discovered structurally during cube
// generation, before any solver runs.
type Trivial int8

const (
	TriviallySat   Trivial = 1
	NotTrivial     Trivial = 0
	TriviallyUnsat Trivial = -1
)

// DefaultCandidates is the default size of the stage one candidate
// set considered by the lookahead.
const DefaultCandidates = 10

// ErrDepth is returned when a negative splitting depth is requested.
var ErrDepth = errors.New("cube: depth must be non-negative")

// Options configures cube generation.
type Options struct {
	// Depth is the maximum number of splitting variables per
	// branch.  Depth 0 yields a single empty cube.
	Depth int

	// Candidates bounds the stage one candidate set.  Zero means
	// DefaultCandidates.
	Candidates int

	// Scorer ranks lookahead probes.  Nil means Propagation.
	Scorer Scorer

	Logger logrus.FieldLogger
}

// Generate produces the cube set of c.  It returns a non-empty cube
// sequence, or a Trivial verdict when constant folding alone decides
// the instance (in which case the cube slice is nil).
//
// Generation is deterministic: the same circuit and options yield
// the same cube sequence on every run.
func Generate(c *circuit.C, opts Options) ([]Cube, Trivial, error) {
	if opts.Depth < 0 {
		return nil, NotTrivial, ErrDepth
	}
	if opts.Candidates <= 0 {
		opts.Candidates = DefaultCandidates
	}
	if opts.Scorer == nil {
		opts.Scorer = Propagation{}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	out := c.Output()
	if out == z.LitNull {
		return nil, NotTrivial, errors.New("cube: circuit output not set")
	}
	if out == c.T {
		return nil, TriviallySat, nil
	}
	if out == c.F {
		return nil, TriviallyUnsat, nil
	}

	s := newState(c)
	s.assume(out)
	if s.conflict {
		log.Info("cube: output assertion conflicts, trivially unsat")
		return nil, TriviallyUnsat, nil
	}
	log.WithFields(logrus.Fields{
		"nodes": c.Len() - 2,
		"depth": opts.Depth,
	}).Info("cube: starting decomposition")

	g := &generator{c: c, opts: opts}
	g.expand(s, opts.Depth, nil)
	log.WithField("cubes", len(g.cubes)).Info("cube: decomposition done")
	return g.cubes, NotTrivial, nil
}

type generator struct {
	c     *circuit.C
	opts  Options
	cubes []Cube
}

func (g *generator) expand(s *state, depth int, lits []z.Lit) {
	if depth == 0 || s.conflict || s.free() == 0 {
		g.cubes = append(g.cubes, Cube(append([]z.Lit{}, lits...)))
		return
	}
	v := g.selectVar(s)
	for _, m := range [2]z.Lit{v.Neg(), v.Pos()} {
		child := s.clone()
		child.assume(m)
		g.expand(child, depth-1, append(lits[:len(lits):len(lits)], m))
	}
}

// selectVar picks the splitting variable for the branch state s.
// Stage one ranks unresolved variables by the structural score
// sigma(v) = (indegree+1) * (fanout+1) and keeps the top K.  Stage
// two probes each candidate with both polarities and scores the
// pair of propagation deltas; the highest score wins, ties go to
// the candidate ranked first by stage one (higher sigma, then
// lowest variable id).
func (g *generator) selectVar(s *state) z.Var {
	cands := s.candidates(g.opts.Candidates)
	best := cands[0]
	bestScore := -1
	for _, v := range cands {
		d0 := s.probe(v.Neg())
		d1 := s.probe(v.Pos())
		sc := g.opts.Scorer.Score(d0, d1)
		if sc > bestScore {
			best, bestScore = v, sc
		}
	}
	return best
}

// state is the residual assignment of one branch: a three valued
// assignment over the node variables together with the structural
// consequences of every decision taken so far.
type state struct {
	c        *circuit.C
	val      []int8 // 0 unknown, 1 true, -1 false
	resolved int
	conflict bool
}

func newState(c *circuit.C) *state {
	s := &state{c: c, val: make([]int8, c.Len())}
	s.val[1] = 1 // the constant
	s.resolved = 1
	return s
}

func (s *state) clone() *state {
	val := make([]int8, len(s.val))
	copy(val, s.val)
	return &state{c: s.c, val: val, resolved: s.resolved, conflict: s.conflict}
}

// free returns the number of unresolved variables.
func (s *state) free() int {
	return len(s.val) - 2 - (s.resolved - 1)
}

// assume makes literal m true and propagates to a fixpoint.
func (s *state) assume(m z.Lit) {
	s.setLit(m)
	s.sweep()
}

// setLit records m as true.  A true and gate forces both of its
// fan-ins true, transitively.
func (s *state) setLit(m z.Lit) {
	if s.conflict {
		return
	}
	v := m.Var()
	want := int8(-1)
	if m.IsPos() {
		want = 1
	}
	switch s.val[v] {
	case want:
		return
	case 0:
		s.val[v] = want
		s.resolved++
	default:
		s.conflict = true
		return
	}
	if want == 1 && s.c.IsAnd(m) {
		a, b := s.c.Ins(m)
		s.setLit(a)
		s.setLit(b)
	}
}

// sweep folds constants forward through the topological order until
// nothing changes: a gate with a false fan-in is false, a gate with
// both fan-ins true is true, and a gate whose known value
// contradicts its derived value is a conflict.
func (s *state) sweep() {
	changed := true
	for changed && !s.conflict {
		changed = false
		for i := 2; i < s.c.Len(); i++ {
			g := s.c.At(i)
			if !s.c.IsAnd(g) {
				continue
			}
			a, b := s.c.Ins(g)
			av, bv := s.litVal(a), s.litVal(b)
			var derived int8
			if av == -1 || bv == -1 {
				derived = -1
			} else if av == 1 && bv == 1 {
				derived = 1
			}
			if derived == 0 {
				if s.val[i] == 1 {
					// backward: a true gate needs both fan-ins
					n := s.resolved
					s.setLit(a)
					s.setLit(b)
					if s.conflict {
						return
					}
					if s.resolved != n {
						changed = true
					}
				}
				continue
			}
			switch s.val[i] {
			case 0:
				s.val[i] = derived
				s.resolved++
				changed = true
			case derived:
			default:
				s.conflict = true
				return
			}
		}
	}
}

func (s *state) litVal(m z.Lit) int8 {
	v := s.val[m.Var()]
	if !m.IsPos() {
		return -v
	}
	return v
}

// probe measures how many variables fixing literal m would resolve.
// A structural conflict counts as resolving everything that is left.
func (s *state) probe(m z.Lit) int {
	t := s.clone()
	t.assume(m)
	if t.conflict {
		return len(s.val) - 1 - s.resolved
	}
	return t.resolved - s.resolved
}

// candidates returns up to k unresolved variables ranked by the
// structural score, ties broken by lowest id.
func (s *state) candidates(k int) []z.Var {
	fan := make([]int, len(s.val))
	for i := 2; i < s.c.Len(); i++ {
		g := s.c.At(i)
		if !s.c.IsAnd(g) || s.val[i] != 0 {
			continue
		}
		a, b := s.c.Ins(g)
		if s.val[a.Var()] == 0 {
			fan[a.Var()]++
		}
		if s.val[b.Var()] == 0 {
			fan[b.Var()]++
		}
	}
	type cand struct {
		v     z.Var
		score int
	}
	cands := make([]cand, 0, s.free())
	for i := 2; i < len(s.val); i++ {
		if s.val[i] != 0 {
			continue
		}
		indeg := 0
		if s.c.IsAnd(z.Var(i).Pos()) {
			indeg = 2
		}
		cands = append(cands, cand{v: z.Var(i), score: (indeg + 1) * (fan[i] + 1)})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].v < cands[j].v
	})
	if len(cands) > k {
		cands = cands[:k]
	}
	vs := make([]z.Var, len(cands))
	for i, c := range cands {
		vs[i] = c.v
	}
	return vs
}
