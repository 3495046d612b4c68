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

package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	cases := []struct {
		desc     string
		args     []string
		expected string
	}{
		{
			desc:     "banner",
			expected: "optimize-bridge/0.0.0-source\n",
		},
		{
			desc:     "json",
			args:     []string{"-o", "json"},
			expected: "{\n    \"version\": \"0.0.0-source\"\n}\n",
		},
		{
			desc:     "yaml",
			args:     []string{"--output=yaml"},
			expected: "version: 0.0.0-source\n",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			var out bytes.Buffer
			cmd := NewCommand(&Options{})
			cmd.SetOut(&out)
			cmd.SetArgs(c.args)
			require.NoError(t, cmd.Execute())
			assert.Equal(t, c.expected, out.String())
		})
	}
}

func TestVersion_UnknownFormat(t *testing.T) {
	cmd := NewCommand(&Options{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "csv"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "no printer for csv"))
}
