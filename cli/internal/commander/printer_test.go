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

package commander

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type rowMeta struct{}

func (rowMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	rows, ok := obj.([]row)
	if !ok {
		return nil, fmt.Errorf("expected rows")
	}
	l := make([]interface{}, len(rows))
	for i := range rows {
		l[i] = rows[i]
	}
	return l, nil
}

func (rowMeta) Columns(_ interface{}, outputFormat string) []string {
	if outputFormat == "wide" || outputFormat == "csv" {
		return []string{"name", "value"}
	}
	return []string{"name"}
}

func (rowMeta) ExtractValue(obj interface{}, column string) (string, error) {
	r := obj.(row)
	switch column {
	case "name":
		return r.Name, nil
	case "value":
		return fmt.Sprintf("%d", r.Value), nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (rowMeta) Header(_ string, column string) string {
	return strings.ToUpper(column)
}

func TestPrintFlags(t *testing.T) {
	rows := []row{{Name: "a", Value: 1}, {Name: "bb", Value: 22}}
	cases := []struct {
		desc     string
		config   map[string]string
		format   string
		expected string
		err      bool
	}{
		{
			desc:     "default table",
			expected: "NAME\na\nbb\n",
		},
		{
			desc:     "wide table",
			format:   "wide",
			expected: "NAME   VALUE   \na      1       \nbb     22      \n",
		},
		{
			desc:     "csv without headers",
			config:   map[string]string{PrinterNoHeader: "true"},
			format:   "csv",
			expected: "a,1\nbb,22\n",
		},
		{
			desc:     "json",
			format:   "json",
			expected: "[\n    {\n        \"name\": \"a\",\n        \"value\": 1\n    },\n    {\n        \"name\": \"bb\",\n        \"value\": 22\n    }\n]\n",
		},
		{
			desc:     "yaml",
			format:   "yaml",
			expected: "- name: a\n  value: 1\n- name: bb\n  value: 22\n",
		},
		{
			desc:   "restricted formats",
			config: map[string]string{PrinterAllowedFormats: "json,yaml"},
			format: "csv",
			err:    true,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			pf := newPrintFlags(rowMeta{}, c.config)
			pf.outputFormat = c.format

			var p ResourcePrinter
			err := pf.toPrinter(&p)
			if c.err {
				assert.IsType(t, NoPrinterError{}, err)
				return
			}
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, p.PrintObj(rows, &buf))
			assert.Equal(t, c.expected, buf.String())
		})
	}
}

func TestPrintFlags_NoMeta(t *testing.T) {
	pf := newPrintFlags(nil, map[string]string{PrinterOutputFormat: "yaml"})
	assert.Equal(t, []string{"json", "yaml"}, pf.allowedFormats)
	assert.Equal(t, "yaml", pf.outputFormat)
}
