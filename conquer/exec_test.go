// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package conquer_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-air/gini/z"
	"github.com/stretchr/testify/require"

	"github.com/Seva-Vaskin/aig-cube/conquer"
)

func fakeSolver(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell solver stubs need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "solver.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestExecSat(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: fakeSolver(t, "echo 's SATISFIABLE'\necho 'v 2 3 4 0'\nexit 10\n")}
	res, model, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.NoError(t, err)
	require.Equal(t, 1, res)
	require.Equal(t, []z.Lit{z.Var(2).Pos(), z.Var(3).Pos(), z.Var(4).Pos()}, model)
}

func TestExecSatSplitModelLines(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: fakeSolver(t, "echo 'v 2 -3'\necho 'v 4 0'\nexit 10\n")}
	res, model, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.NoError(t, err)
	require.Equal(t, 1, res)
	require.Equal(t, []z.Lit{z.Var(2).Pos(), z.Var(3).Neg(), z.Var(4).Pos()}, model)
}

func TestExecUnsat(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: fakeSolver(t, "exit 20\n")}
	res, model, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.NoError(t, err)
	require.Equal(t, -1, res)
	require.Nil(t, model)
}

func TestExecBadStatus(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: fakeSolver(t, "exit 3\n")}
	_, _, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 3")
}

func TestExecMissingBinary(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: filepath.Join(t.TempDir(), "no-such-solver")}
	_, _, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.Error(t, err)
}

func TestExecTimeout(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	e := &conquer.Exec{Path: fakeSolver(t, "sleep 10\nexit 20\n")}
	start := time.Now()
	res, model, err := e.Solve(context.Background(), "cube_0000", f, 100*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 0, res)
	require.Nil(t, model)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestExecKeepsArtifacts(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	dir := t.TempDir()
	e := &conquer.Exec{Path: fakeSolver(t, "exit 20\n"), Dir: dir}
	_, _, err := e.Solve(context.Background(), "cube_0007", f, 0)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "cube_0007.cnf"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "p cnf "))
}

func TestExecExtraArgs(t *testing.T) {
	f, _, _, _ := andEncoding(t)
	// The DIMACS path must come last, after any configured args.
	e := &conquer.Exec{
		Path: fakeSolver(t, "test \"$1\" = \"--quiet\" || exit 1\ntest -f \"$2\" || exit 1\nexit 20\n"),
		Args: []string{"--quiet"},
	}
	res, _, err := e.Solve(context.Background(), "cube_0000", f, 0)
	require.NoError(t, err)
	require.Equal(t, -1, res)
}
