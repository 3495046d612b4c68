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

package problem

import (
	"context"
	"io"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/channel"
)

// Runner answers harness messages on behalf of a session table.
type Runner struct {
	// Log is the runner logger.
	Log logr.Logger

	conn  channel.Conn
	table *SessionTable
}

// NewRunner returns a runner for the connection.
func NewRunner(conn channel.Conn, table *SessionTable, log logr.Logger) *Runner {
	return &Runner{Log: log, conn: conn, table: table}
}

// Run announces the problem specification and handles messages until the harness closes the channel.
// Any protocol violation stops the runner.
func (r *Runner) Run(ctx context.Context) error {
	spec := r.table.Spec()
	if err := spec.Validate(); err != nil {
		return err
	}
	if err := r.conn.Send(&v1alpha1.ProblemSpecCast{ProblemSpec: spec}); err != nil {
		return err
	}
	r.Log.Info("Announced problem", "problem", spec.Name, "evaluationExpense", spec.EvaluationExpense)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m, err := r.conn.Receive()
		if err == io.EOF {
			r.Log.Info("Channel closed", "sessions", r.table.Len())
			return nil
		} else if err != nil {
			return err
		}

		if err := r.handle(ctx, m); err != nil {
			return err
		}
	}
}

func (r *Runner) handle(ctx context.Context, m v1alpha1.Message) error {
	switch m := m.(type) {
	case *v1alpha1.CreateEvaluatorCast:
		return r.table.Create(m.ID)
	case *v1alpha1.DropEvaluatorCast:
		return r.table.Drop(m.ID)
	case *v1alpha1.EvaluateCall:
		values, b, err := r.table.Evaluate(ctx, m.ID, m.Params, m.Budget)
		if err != nil {
			return err
		}
		return r.conn.Send(&v1alpha1.EvaluateOkReply{Values: values, Budget: b})
	}
	return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "unexpected %s on the problem channel", m.MessageType())
}
