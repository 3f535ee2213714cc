// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package conquer

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/Seva-Vaskin/aig-cube/cnf"
)

// Exec solves by invoking an external SAT solver on a DIMACS file,
// interpreting the exit status by the SAT competition convention:
// 10 is sat, 20 is unsat, anything else is undetermined.  On sat,
// "v " model lines on stdout are parsed when present.
type Exec struct {
	// Path locates the solver executable.
	Path string

	// Args are extra arguments placed before the DIMACS path.
	Args []string

	// Dir, when non-empty, is a directory in which the generated
	// DIMACS files are kept.  When empty each file is transient
	// and removed as soon as its solve finishes.
	Dir string
}

func (e *Exec) Solve(ctx context.Context, name string, f *cnf.T, timeout time.Duration) (int, []z.Lit, error) {
	path, cleanup, err := e.artifact(name)
	if err != nil {
		return 0, nil, err
	}
	defer cleanup()
	if err := writeFile(path, f); err != nil {
		return 0, nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	args := append(append([]string{}, e.Args...), path)
	cmd := exec.CommandContext(ctx, e.Path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return 0, nil, nil
	}

	code := 0
	if runErr != nil {
		var xerr *exec.ExitError
		if !errors.As(runErr, &xerr) {
			return 0, nil, errors.Wrapf(runErr, "conquer: running %s", e.Path)
		}
		code = xerr.ExitCode()
	}
	switch code {
	case 10:
		return 1, parseModel(&out), nil
	case 20:
		return -1, nil, nil
	}
	return 0, nil, errors.Errorf("conquer: %s exited with status %d", e.Path, code)
}

// artifact returns the DIMACS path for the task plus a release
// function, run on every outcome, that removes transient files.
func (e *Exec) artifact(name string) (string, func(), error) {
	if e.Dir != "" {
		return filepath.Join(e.Dir, name+".cnf"), func() {}, nil
	}
	fh, err := os.CreateTemp("", name+"-*.cnf")
	if err != nil {
		return "", nil, errors.Wrap(err, "conquer: temp artifact")
	}
	p := fh.Name()
	fh.Close()
	return p, func() { os.Remove(p) }, nil
}

func writeFile(path string, f *cnf.T) error {
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "conquer: write artifact")
	}
	if err := f.WriteDimacs(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// parseModel extracts the "v " value lines of a solver's output.
func parseModel(out *bytes.Buffer) []z.Lit {
	var ms []z.Lit
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "v ") {
			continue
		}
		for _, tok := range strings.Fields(line[2:]) {
			d, err := strconv.Atoi(tok)
			if err != nil || d == 0 {
				continue
			}
			ms = append(ms, z.Dimacs2Lit(d))
		}
	}
	return ms
}
