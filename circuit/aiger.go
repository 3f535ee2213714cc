// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package circuit

import (
	"bufio"
	"io"
	"os"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// FormatError describes a malformed circuit source.  All errors
// produced while loading, other than plain I/O failures, are
// FormatErrors.
type FormatError string

func (e FormatError) Error() string { return string(e) }

// Errors produced by the AIGER reader.
var (
	ErrPrematureEOF   = FormatError("premature EOF")
	ErrBadHeader      = FormatError("bad header")
	ErrUnexpectedChar = FormatError("unexpected character")
	ErrLitOOB         = FormatError("literal out of bounds")
	ErrSignedInput    = FormatError("input is negated")
	ErrSignedAnd      = FormatError("and gate definition is negated")
	ErrRedefined      = FormatError("literal multiply defined")
	ErrCombLoop       = FormatError("combinational logic has a loop")
	ErrUndefinedLit   = FormatError("literal not defined")
	ErrNoOutput       = FormatError("circuit has no output")
	ErrMultiOutput    = FormatError("circuit has more than one output")
	ErrLatches        = FormatError("sequential circuits are not supported")
	ErrUnsupported    = FormatError("aiger properties are not supported")
	ErrBadDelta       = FormatError("bad delta encoding")
)

// Load reads the AIGER file at path and returns the circuit it
// describes.  Both the ascii ("aag") and the binary ("aig") variants
// of AIGER version 1 are accepted; the variant is detected from the
// header.  Only single-output combinational circuits are supported.
func Load(path string) (*C, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return c, nil
}

// Read reads an AIGER description from r.  See Load.
func Read(r io.Reader) (*C, error) {
	br := bufio.NewReader(r)
	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.latch != 0 {
		return nil, ErrLatches
	}
	if hdr.out == 0 {
		return nil, ErrNoOutput
	}
	if hdr.out > 1 {
		return nil, ErrMultiOutput
	}
	if hdr.in+hdr.and > hdr.max {
		return nil, ErrBadHeader
	}
	ar := &aigReader{
		C:      NewCCap(int(hdr.max) + 2),
		hdr:    hdr,
		litMap: make([]z.Lit, hdr.max+1)}
	if hdr.binary {
		err = ar.readBinary(br)
	} else {
		err = ar.readAscii(br)
	}
	if err != nil {
		return nil, err
	}
	out := ar.litFor(ar.outLit)
	if out == z.LitNull {
		return nil, ErrUndefinedLit
	}
	ar.SetOutput(out)
	return ar.C, nil
}

type aigReader struct {
	*C
	hdr    aigHeader
	litMap []z.Lit // aiger variable -> built literal for the positive phase
	outLit uint
	ands   []aigAnd // ascii only: gate definitions pending topological mapping
}

// aigAnd buffers an ascii gate definition.  Ascii files need not list
// gates in topological order, so gates are mapped by depth first
// search after reading, which also detects loops and dangling
// references.
type aigAnd struct {
	children [2]uint
	defined  bool
	mapped   bool
	color    uint8
}

type aigHeader struct {
	binary bool
	max    uint
	in     uint
	latch  uint
	out    uint
	and    uint
}

func (ar *aigReader) litFor(u uint) z.Lit {
	if u == 0 {
		return ar.F
	}
	if u == 1 {
		return ar.T
	}
	m := ar.litMap[u>>1]
	if m == z.LitNull {
		return z.LitNull
	}
	if u&1 != 0 {
		return m.Not()
	}
	return m
}

func (ar *aigReader) mapLit(u uint, m z.Lit) {
	ar.litMap[u>>1] = m
}

func (ar *aigReader) readAscii(r *bufio.Reader) error {
	for i := uint(0); i < ar.hdr.in; i++ {
		u, err := readUint(r)
		if err != nil {
			return err
		}
		if err := checkInputLit(u, ar.hdr.max); err != nil {
			return err
		}
		if ar.litMap[u>>1] != z.LitNull {
			return ErrRedefined
		}
		ar.mapLit(u, ar.NewIn())
		if err := readNL(r); err != nil {
			return err
		}
	}
	if err := ar.readOutput(r); err != nil {
		return err
	}
	ar.ands = make([]aigAnd, ar.hdr.max+1)
	for i := uint(0); i < ar.hdr.and; i++ {
		g, err := readUint(r)
		if err != nil {
			return err
		}
		if g > 2*ar.hdr.max+1 {
			return ErrLitOOB
		}
		if g&1 != 0 || g < 2 {
			return ErrSignedAnd
		}
		if ar.ands[g>>1].defined || ar.litMap[g>>1] != z.LitNull {
			return ErrRedefined
		}
		var cs [2]uint
		for j := 0; j < 2; j++ {
			if err := readSpace(r); err != nil {
				return err
			}
			c, err := readUint(r)
			if err != nil {
				return err
			}
			if c > 2*ar.hdr.max+1 {
				return ErrLitOOB
			}
			cs[j] = c
		}
		if err := readNL(r); err != nil {
			return err
		}
		ar.ands[g>>1] = aigAnd{children: cs, defined: true}
	}
	if err := ar.mapAnds(); err != nil {
		return err
	}
	return skipSymsAndComments(r)
}

func (ar *aigReader) mapAnds() error {
	for v := range ar.ands {
		if ar.ands[v].defined && !ar.ands[v].mapped {
			if err := ar.mapAndsRec(uint(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ar *aigReader) mapAndsRec(v uint) error {
	ag := &ar.ands[v]
	switch ag.color {
	case 1:
		return ErrCombLoop
	case 2:
		return nil
	}
	ag.color = 1
	ms := [2]z.Lit{}
	for j, c := range ag.children {
		cv := c >> 1
		if c >= 2 && ar.litMap[cv] == z.LitNull {
			if !ar.ands[cv].defined {
				return ErrUndefinedLit
			}
			if err := ar.mapAndsRec(cv); err != nil {
				return err
			}
		}
		ms[j] = ar.litFor(c)
	}
	ar.mapLit(v*2, ar.And(ms[0], ms[1]))
	ag.color = 2
	ag.mapped = true
	return nil
}

func (ar *aigReader) readBinary(r *bufio.Reader) error {
	for i := uint(0); i < ar.hdr.in; i++ {
		ar.mapLit((i+1)*2, ar.NewIn())
	}
	if err := ar.readOutput(r); err != nil {
		return err
	}
	id := (ar.hdr.in + 1) * 2
	for i := uint(0); i < ar.hdr.and; i++ {
		delta0, err := read7(r)
		if err != nil {
			return err
		}
		if delta0 > id || delta0 == 0 {
			return ErrBadDelta
		}
		c0 := id - delta0
		delta1, err := read7(r)
		if err != nil {
			return err
		}
		if delta1 > c0 {
			return ErrBadDelta
		}
		c1 := c0 - delta1
		a, b := ar.litFor(c1), ar.litFor(c0)
		if a == z.LitNull || b == z.LitNull {
			return ErrUndefinedLit
		}
		ar.mapLit(id, ar.And(a, b))
		id += 2
	}
	return skipSymsAndComments(r)
}

func (ar *aigReader) readOutput(r *bufio.Reader) error {
	u, err := readUint(r)
	if err != nil {
		return err
	}
	if u > 2*ar.hdr.max+1 {
		return ErrLitOOB
	}
	ar.outLit = u
	return readNL(r)
}

func checkInputLit(u, max uint) error {
	if u > 2*max+1 {
		return ErrLitOOB
	}
	if u&1 != 0 {
		return ErrSignedInput
	}
	if u < 2 {
		return ErrLitOOB
	}
	return nil
}

// readHeader reads the "aag"/"aig" magic and the M I L O A counts.
// The extended counts B C J F of AIGER 1.9 are accepted only when
// zero: properties other than a plain output are not circuits this
// package models.
func readHeader(r *bufio.Reader) (aigHeader, error) {
	var hdr aigHeader
	magic := make([]byte, 3)
	if _, err := io.ReadFull(r, magic); err != nil {
		return hdr, ErrPrematureEOF
	}
	switch string(magic) {
	case "aag":
		hdr.binary = false
	case "aig":
		hdr.binary = true
	default:
		return hdr, ErrBadHeader
	}
	var counts [9]uint
	n := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return hdr, ErrPrematureEOF
		}
		if b == '\n' {
			break
		}
		if b != ' ' {
			return hdr, ErrBadHeader
		}
		if n == len(counts) {
			return hdr, ErrBadHeader
		}
		u, err := readUint(r)
		if err != nil {
			return hdr, err
		}
		counts[n] = u
		n++
	}
	if n < 5 {
		return hdr, ErrBadHeader
	}
	for i := 5; i < n; i++ {
		if counts[i] != 0 {
			return hdr, ErrUnsupported
		}
	}
	hdr.max = counts[0]
	hdr.in = counts[1]
	hdr.latch = counts[2]
	hdr.out = counts[3]
	hdr.and = counts[4]
	return hdr, nil
}

func readUint(r *bufio.Reader) (uint, error) {
	var u uint
	first := true
	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			if first {
				return 0, ErrPrematureEOF
			}
			break
		}
		if err != nil {
			return 0, err
		}
		if b < '0' || b > '9' {
			r.UnreadByte()
			break
		}
		u = u*10 + uint(b-'0')
		first = false
	}
	if first {
		return 0, ErrUnexpectedChar
	}
	return u, nil
}

func readNL(r *bufio.Reader) error {
	b, err := r.ReadByte()
	if err == io.EOF {
		return ErrPrematureEOF
	}
	if err != nil {
		return err
	}
	if b != '\n' {
		return ErrUnexpectedChar
	}
	return nil
}

func readSpace(r *bufio.Reader) error {
	b, err := r.ReadByte()
	if err == io.EOF {
		return ErrPrematureEOF
	}
	if err != nil {
		return err
	}
	if b != ' ' {
		return ErrUnexpectedChar
	}
	return nil
}

// read7 decodes one 7-bit variable length delta of the binary
// and gate encoding.
func read7(r *bufio.Reader) (uint, error) {
	var u uint
	var shift uint8
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrPrematureEOF
		}
		u |= (uint(b) & 0x7f) << shift
		if b&0x80 == 0 {
			return u, nil
		}
		shift += 7
	}
}

// The symbol table and comment section carry names for reporting
// tools, which this loader has no use for.
func skipSymsAndComments(r *bufio.Reader) error {
	for {
		_, err := r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
