// Copyright 2026 The Aig-Cube Authors. All rights reserved.  Use of this
// source code is governed by a license that can be found in the License file.

package conquer

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Seva-Vaskin/aig-cube/cnf"
	"github.com/Seva-Vaskin/aig-cube/cube"
)

// ErrWorkers reports an invalid worker pool size.
var ErrWorkers = errors.New("conquer: worker count must be non-negative")

// Options configures a conquer run.
type Options struct {
	// Timeout bounds each cube solve independently.  Zero means
	// no limit.
	Timeout time.Duration

	// Workers is the pool size.  Zero means runtime.NumCPU.
	Workers int

	Logger logrus.FieldLogger
}

// RunAll conquers every cube against the shared base encoding and
// returns the verdicts ordered by cube index.
//
// Tasks move Pending -> Dispatched -> one of Solved, TimedOut or
// SolverFailed.  Dispatch stops as soon as some worker reports sat,
// since the final answer is then determined; tasks already in
// flight drain naturally rather than being killed, so cubes that
// were never dispatched have no verdict in the result.  Timeouts
// and backend failures are contained: they yield Unknown verdicts
// and do not disturb sibling cubes.
func RunAll(ctx context.Context, base *cnf.T, cubes []cube.Cube, b Backend, opts Options) ([]Verdict, error) {
	if opts.Workers < 0 {
		return nil, ErrWorkers
	}
	workers := opts.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if len(cubes) < workers {
		workers = len(cubes)
	}

	tasks := make(chan int)
	verdicts := make([]Verdict, 0, len(cubes))
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		stop atomic.Bool
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				v := solveOne(ctx, base, cubes[i], i, b, opts.Timeout, log)
				if v.Status == Sat {
					stop.Store(true)
				}
				mu.Lock()
				verdicts = append(verdicts, v)
				mu.Unlock()
			}
		}()
	}

feed:
	for i := range cubes {
		if stop.Load() {
			break
		}
		select {
		case tasks <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()

	sort.Slice(verdicts, func(i, j int) bool { return verdicts[i].Cube < verdicts[j].Cube })
	return verdicts, nil
}

func solveOne(ctx context.Context, base *cnf.T, cb cube.Cube, i int, b Backend, timeout time.Duration, log logrus.FieldLogger) Verdict {
	start := time.Now()
	res, model, err := b.Solve(ctx, fmt.Sprintf("cube_%04d", i), base.WithUnits(cb...), timeout)
	v := Verdict{Cube: i, Dur: time.Since(start)}
	switch {
	case err != nil:
		v.Status = Unknown
		v.Reason = SolverError
		v.Err = err
		log.WithField("cube", i).WithError(err).Warn("conquer: solver failed")
	case res == 1:
		v.Status = Sat
		v.Model = model
	case res == -1:
		v.Status = Unsat
	default:
		v.Status = Unknown
		v.Reason = Timeout
	}
	log.WithFields(logrus.Fields{
		"cube":    i,
		"verdict": v.Status.String(),
		"dur":     v.Dur,
	}).Debug("conquer: cube retired")
	return v
}
