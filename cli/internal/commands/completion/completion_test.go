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

package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, Shells())

	for _, shell := range Shells() {
		t.Run(shell, func(t *testing.T) {
			root := &cobra.Command{Use: "optimize-bridge"}
			root.AddCommand(&cobra.Command{Use: "bench", Run: func(*cobra.Command, []string) {}})
			root.AddCommand(NewCommand(&Options{}))

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "optimize-bridge")
		})
	}

	root := &cobra.Command{Use: "optimize-bridge"}
	root.AddCommand(NewCommand(&Options{}))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	assert.Error(t, root.Execute())
}
