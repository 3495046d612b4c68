/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package harness

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/thestormforge/optimize-bridge/internal/channel"
	"golang.org/x/sync/errgroup"
)

// Session runs one side of the protocol over the supplied connection.
type Session func(ctx context.Context, conn channel.Conn) error

// RunLocal runs the solver and the problem in-process, relaying between them with the harness.
// The first failure closes every channel and is the error returned.
func RunLocal(ctx context.Context, h *Harness, solve, serve Session) (*Report, error) {
	solverConn, solverEnd, closeSolver := channel.Pipe(h.Log.WithName("solver-channel"))
	problemConn, problemEnd, closeProblem := channel.Pipe(h.Log.WithName("problem-channel"))
	h.Solver, h.Problem = solverConn, problemConn

	var once sync.Once
	var cause error
	abort := func(err error) error {
		once.Do(func() {
			cause = err
			closeSolver()
			closeProblem()
		})
		return err
	}

	var report *Report
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := solve(ctx, solverEnd); err != nil {
			return abort(err)
		}
		return nil
	})
	g.Go(func() error {
		if err := serve(ctx, problemEnd); err != nil {
			return abort(err)
		}
		return nil
	})
	g.Go(func() error {
		r, err := h.Run(ctx)
		if err == io.EOF {
			// A session closed its channel early, it reports the cause
			err = nil
		}
		report = r
		return abort(err)
	})

	err := g.Wait()
	switch {
	case cause != nil:
		return nil, cause
	case report != nil:
		return report, nil
	case err != nil:
		return nil, err
	}
	return nil, fmt.Errorf("session ended before the benchmark finished")
}
