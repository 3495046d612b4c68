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
	"fmt"
	"strconv"
	"strings"

	"github.com/thestormforge/optimize-bridge/internal/harness"
)

// reportTableMeta renders the trials of a benchmark report
type reportTableMeta struct{}

func (*reportTableMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	r, ok := obj.(*harness.Report)
	if !ok {
		return nil, fmt.Errorf("expected benchmark report")
	}

	l := make([]interface{}, len(r.Trials))
	for i := range r.Trials {
		l[i] = &r.Trials[i]
	}
	return l, nil
}

func (*reportTableMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"id", "state", "steps", "evaluations", "value", "params"}
	}
	return []string{"id", "state", "steps", "value"}
}

func (*reportTableMeta) ExtractValue(obj interface{}, column string) (string, error) {
	t, ok := obj.(*harness.TrialReport)
	if !ok {
		return "", fmt.Errorf("expected trial report")
	}

	switch column {
	case "id":
		return strconv.FormatInt(t.ID, 10), nil
	case "state":
		return string(t.State), nil
	case "steps":
		return strconv.FormatInt(t.Steps, 10), nil
	case "evaluations":
		return strconv.Itoa(t.Evaluations), nil
	case "value":
		if t.State != harness.StateCompleted {
			return "", nil
		}
		return strconv.FormatFloat(t.Value, 'g', 6, 64), nil
	case "params":
		return t.Params, nil
	}

	return "", fmt.Errorf("unable to extract: %s", column)
}

func (*reportTableMeta) Header(outputFormat string, column string) string {
	if outputFormat == "csv" {
		return column
	}
	return strings.ToUpper(column)
}
