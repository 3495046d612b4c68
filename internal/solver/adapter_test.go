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

package solver

import (
	"context"
	"io"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"go.uber.org/zap"
)

// scriptedConn replays canned harness messages and records everything sent.
type scriptedConn struct {
	incoming []v1alpha1.Message
	sent     []v1alpha1.Message
}

func (c *scriptedConn) Send(m v1alpha1.Message) error {
	c.sent = append(c.sent, m)
	return nil
}

func (c *scriptedConn) Receive() (v1alpha1.Message, error) {
	if len(c.incoming) == 0 {
		return nil, io.EOF
	}
	m := c.incoming[0]
	c.incoming = c.incoming[1:]
	return m, nil
}

// fakeTrial suggests the lower bound of every range and prunes on values above a threshold.
type fakeTrial struct {
	threshold float64
	reported  []int64
}

func (t *fakeTrial) SuggestFloat(name string, low, high float64, log bool) (float64, error) {
	return low, nil
}

func (t *fakeTrial) SuggestInt(name string, low, high int64) (int64, error) {
	return low, nil
}

func (t *fakeTrial) SuggestCategorical(name string, choices []string) (int, error) {
	return 0, nil
}

func (t *fakeTrial) Report(value float64, step int64) {
	t.reported = append(t.reported, step)
}

func (t *fakeTrial) ShouldPrune(value float64, step int64) bool {
	return value > t.threshold
}

func problemCast(expense int64, domains ...v1alpha1.ParamDomain) *v1alpha1.ProblemSpecCast {
	return &v1alpha1.ProblemSpecCast{ProblemSpec: v1alpha1.ProblemSpec{
		Name:              "test",
		ParamsDomain:      domains,
		ValuesDomain:      []v1alpha1.ValueRange{{Min: 0, Max: 1}},
		EvaluationExpense: expense,
	}}
}

func solverSpec() v1alpha1.SolverSpec {
	return v1alpha1.SolverSpec{Name: "test", Capabilities: v1alpha1.AllCapabilities()}
}

func askReply(id int64, amount, consumption int64) *v1alpha1.AskReply {
	return &v1alpha1.AskReply{
		ID:     id,
		Params: []v1alpha1.ParamValue{v1alpha1.ContinuousValue(0)},
		Budget: v1alpha1.Budget{Amount: amount, Consumption: consumption},
	}
}

func tell(id int64, value float64, amount, consumption int64) *v1alpha1.TellCall {
	return &v1alpha1.TellCall{ID: id, Values: []float64{value}, Budget: v1alpha1.Budget{Amount: amount, Consumption: consumption}}
}

func TestAdapter_Evaluate(t *testing.T) {
	cases := []struct {
		desc     string
		expense  int64
		stepwise bool
		harness  []v1alpha1.Message
		outcome  Outcome
		sent     []v1alpha1.Message
		reported []int64
		nextID   int64
		done     bool
	}{
		{
			desc:    "single step without pruning",
			expense: 1,
			harness: []v1alpha1.Message{
				tell(0, 0.42, 1, 1),
				&v1alpha1.AskCall{IDHint: 1},
			},
			outcome: Completed(0.42, 1),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
				&v1alpha1.TellReply{},
			},
			nextID: 1,
		},
		{
			desc:     "pruned at first step",
			expense:  5,
			stepwise: true,
			harness: []v1alpha1.Message{
				tell(0, 0.9, 1, 1),
				&v1alpha1.AskCall{IDHint: 1},
			},
			outcome: Pruned(1),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
				&v1alpha1.TellReply{},
			},
			reported: []int64{1},
			nextID:   1,
		},
		{
			desc:     "stepwise completion",
			expense:  3,
			stepwise: true,
			harness: []v1alpha1.Message{
				tell(0, 0.3, 1, 1),
				&v1alpha1.AskCall{IDHint: 5},
				tell(0, 0.2, 2, 2),
				&v1alpha1.AskCall{IDHint: 6},
				tell(0, 0.1, 3, 3),
				&v1alpha1.AskCall{IDHint: 7},
			},
			outcome: Completed(0.1, 3),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
				&v1alpha1.TellReply{},
				askReply(0, 2, 1),
				&v1alpha1.TellReply{},
				askReply(0, 3, 2),
				&v1alpha1.TellReply{},
			},
			reported: []int64{1, 2},
			nextID:   7,
		},
		{
			desc:     "widened amount",
			expense:  20,
			stepwise: true,
			harness: []v1alpha1.Message{
				tell(0, 0.3, 10, 10),
				&v1alpha1.AskCall{IDHint: 1},
				tell(0, 0.2, 20, 20),
				&v1alpha1.AskCall{IDHint: 2},
			},
			outcome: Completed(0.2, 20),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
				&v1alpha1.TellReply{},
				askReply(0, 11, 10),
				&v1alpha1.TellReply{},
			},
			reported: []int64{10},
			nextID:   2,
		},
		{
			desc:     "preempted by the harness",
			expense:  5,
			stepwise: true,
			harness: []v1alpha1.Message{
				&v1alpha1.AskCall{IDHint: 4},
			},
			outcome: Preempted(0),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
			},
			nextID: 4,
		},
		{
			desc:    "closed after completion",
			expense: 1,
			harness: []v1alpha1.Message{
				tell(0, 0.5, 1, 1),
			},
			outcome: Completed(0.5, 1),
			sent: []v1alpha1.Message{
				askReply(0, 1, 0),
				&v1alpha1.TellReply{},
			},
			done: true,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			conn := &scriptedConn{incoming: append([]v1alpha1.Message{
				problemCast(c.expense, v1alpha1.Uniform("x", 0, 1)),
				&v1alpha1.AskCall{IDHint: 0},
			}, c.harness...)}
			a := NewAdapter(conn, solverSpec(), c.stepwise, zapr.NewLogger(zap.NewNop()))
			require.NoError(t, a.Start(context.Background()))
			require.Equal(t, &v1alpha1.SolverSpecCast{SolverSpec: solverSpec()}, conn.sent[0])
			conn.sent = nil

			trial := &fakeTrial{threshold: 0.5}
			outcome, err := a.Evaluate(context.Background(), trial)
			require.NoError(t, err)
			assert.Equal(t, c.outcome, outcome)
			assert.Equal(t, c.sent, conn.sent)
			assert.Equal(t, c.reported, trial.reported)
			assert.Equal(t, c.done, a.Done())
			if !c.done {
				assert.Equal(t, c.nextID, a.nextID)
			}
		})
	}
}

func TestAdapter_Violations(t *testing.T) {
	cases := []struct {
		desc     string
		expense  int64
		stepwise bool
		harness  []v1alpha1.Message
	}{
		{
			desc:    "partial consumption without pruning",
			expense: 5,
			harness: []v1alpha1.Message{tell(0, 0.1, 5, 3)},
		},
		{
			desc:     "consumption exceeds amount",
			expense:  5,
			stepwise: true,
			harness:  []v1alpha1.Message{tell(0, 0.1, 1, 2)},
		},
		{
			desc:     "wrong trial",
			expense:  5,
			stepwise: true,
			harness:  []v1alpha1.Message{tell(3, 0.1, 1, 1)},
		},
		{
			desc:    "unexpected message",
			expense: 1,
			harness: []v1alpha1.Message{&v1alpha1.EvaluateOkReply{}},
		},
		{
			desc:    "tell reply instead of ask",
			expense: 1,
			harness: []v1alpha1.Message{tell(0, 0.1, 1, 1), &v1alpha1.TellReply{}},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			conn := &scriptedConn{incoming: append([]v1alpha1.Message{
				problemCast(c.expense, v1alpha1.Uniform("x", 0, 1)),
				&v1alpha1.AskCall{IDHint: 0},
			}, c.harness...)}
			a := NewAdapter(conn, solverSpec(), c.stepwise, zapr.NewLogger(zap.NewNop()))
			require.NoError(t, a.Start(context.Background()))

			_, err := a.Evaluate(context.Background(), &fakeTrial{threshold: 1})
			assert.True(t, v1alpha1.IsProtocolViolation(err), "expected violation, got %v", err)
		})
	}
}

func TestAdapter_Start(t *testing.T) {
	t.Run("incapable", func(t *testing.T) {
		conn := &scriptedConn{incoming: []v1alpha1.Message{
			problemCast(1, v1alpha1.Categorical("c", "a", "b")),
		}}
		spec := v1alpha1.SolverSpec{Name: "test", Capabilities: v1alpha1.Capabilities{v1alpha1.CapabilityDiscrete}}
		a := NewAdapter(conn, spec, false, zapr.NewLogger(zap.NewNop()))
		assert.True(t, v1alpha1.IsUnsupportedParameter(a.Start(context.Background())))
	})

	t.Run("closed before first ask", func(t *testing.T) {
		conn := &scriptedConn{incoming: []v1alpha1.Message{
			problemCast(1, v1alpha1.Uniform("x", 0, 1)),
		}}
		a := NewAdapter(conn, solverSpec(), false, zapr.NewLogger(zap.NewNop()))
		require.NoError(t, a.Start(context.Background()))
		assert.True(t, a.Done())

		_, err := a.Evaluate(context.Background(), &fakeTrial{})
		assert.Equal(t, io.EOF, err)
	})

	t.Run("closed during trial", func(t *testing.T) {
		conn := &scriptedConn{incoming: []v1alpha1.Message{
			problemCast(1, v1alpha1.Uniform("x", 0, 1)),
			&v1alpha1.AskCall{},
		}}
		a := NewAdapter(conn, solverSpec(), false, zapr.NewLogger(zap.NewNop()))
		require.NoError(t, a.Start(context.Background()))

		_, err := a.Evaluate(context.Background(), &fakeTrial{})
		assert.Equal(t, io.EOF, err)
		assert.True(t, a.Done())
	})
}
