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

package bench

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/config"
	"github.com/thestormforge/optimize-bridge/internal/harness"
	"go.uber.org/zap"
)

func TestReportTableMeta(t *testing.T) {
	report := &harness.Report{
		Solver:  "random",
		Problem: "curve",
		Trials: []harness.TrialReport{
			{ID: 0, State: harness.StateCompleted, Steps: 10, Evaluations: 10, Value: 0.25, Params: "learning_rate=0.01"},
			{ID: 1, State: harness.StatePruned, Steps: 2, Evaluations: 2, Value: 0.9, Params: "learning_rate=0.5"},
		},
	}

	meta := &reportTableMeta{}
	rows, err := meta.ExtractList(report)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var lines []string
	for _, row := range rows {
		var cells []string
		for _, column := range meta.Columns(report, "csv") {
			v, err := meta.ExtractValue(row, column)
			require.NoError(t, err)
			cells = append(cells, v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	assert.Equal(t, []string{
		"0,completed,10,10,0.25,learning_rate=0.01",
		"1,pruned,2,2,,learning_rate=0.5",
	}, lines)

	_, err = meta.ExtractValue(rows[0], "color")
	assert.Error(t, err)
	assert.Equal(t, "STEPS", meta.Header("", "steps"))
}

func TestBench(t *testing.T) {
	t.Setenv("BRIDGE_SEED", "")

	cfg := &config.BridgeConfig{Filename: t.TempDir() + "/config"}
	cfg.Overrides.Problem = "curve"
	cfg.Overrides.EvaluationExpense = 4
	cfg.Overrides.Pruner = "nop"
	cfg.Overrides.Seed = 5
	require.NoError(t, cfg.Load())

	var out, errOut bytes.Buffer
	o := &Options{
		Config:    cfg,
		IOStreams: commander.IOStreams{Out: &out, ErrOut: &errOut},
		Log:       zapr.NewLogger(zap.NewNop()),
		MaxTrials: 3,
	}
	o.Printer = commander.ResourcePrinterFunc(func(obj interface{}, w io.Writer) error {
		r := obj.(*harness.Report)
		assert.Len(t, r.Trials, 3)
		assert.Equal(t, 3, r.Count(harness.StateCompleted))
		assert.Equal(t, int64(12), r.TotalSteps())
		return nil
	})

	require.NoError(t, o.bench(context.Background()))
	assert.Contains(t, errOut.String(), "3 completed, 12 steps")
	assert.Contains(t, errOut.String(), "Best trial")
}
