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

package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

func TestUsage(t *testing.T) {
	testCommandUsage(t, NewRootCommand())
}

func testCommandUsage(t *testing.T, cmd *cobra.Command) {
	// Short descriptions use sentence case without the period and fit an 80 column layout,
	// flag usage is lower case without the period.

	t.Run(cmd.Name(), func(t *testing.T) {
		fw := strings.Fields(cmd.Short)[0]
		assert.Equal(t, strings.Title(fw), fw)
		assert.False(t, strings.HasSuffix(cmd.Short, "."))
		assert.Greater(t, 60, len(cmd.Short))

		cmd.Flags().VisitAll(func(f *flag.Flag) {
			t.Run("--"+f.Name, func(t *testing.T) {
				assert.False(t, strings.HasSuffix(f.Usage, "."))

				if _, u := flag.UnquoteUsage(f); assert.NotEmpty(t, u) {
					fw := strings.Fields(u)[0]
					assert.Equal(t, strings.ToLower(fw), fw)
				}

				if strings.Contains(f.Usage, "one of") {
					assert.Regexp(t, ".*; one of: (.+)(|.+)*", f.Usage)
				}
			})
		})

		for _, c := range cmd.Commands() {
			testCommandUsage(t, c)
		}
	})
}

func TestMapError(t *testing.T) {
	err := mapError(v1alpha1.NewError(v1alpha1.ErrDuplicateSession, "session %d already exists", 7))
	assert.True(t, strings.HasPrefix(err.Error(), "protocol violation: "))
	assert.True(t, v1alpha1.IsProtocolViolation(err))

	plain := errors.New("boom")
	assert.Equal(t, plain, mapError(plain))
	assert.Nil(t, mapError(nil))
}
