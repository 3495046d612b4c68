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
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

func TestAddPreRunE(t *testing.T) {
	var calls []string
	cmd := &cobra.Command{
		PreRun: func(*cobra.Command, []string) { calls = append(calls, "existing") },
	}
	AddPreRunE(cmd, func(*cobra.Command, []string) error {
		calls = append(calls, "added")
		return nil
	})

	require.NoError(t, cmd.PreRunE(cmd, nil))
	assert.Nil(t, cmd.PreRun)
	assert.Equal(t, []string{"added", "existing"}, calls)
}

func TestMapErrors(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{
		Use:  "child",
		RunE: func(*cobra.Command, []string) error { return errors.New("boom") },
	}
	root.AddCommand(child)

	MapErrors(root, func(err error) error {
		if err != nil {
			return errors.New("mapped " + err.Error())
		}
		return nil
	})

	assert.EqualError(t, child.RunE(child, nil), "mapped boom")
	assert.Nil(t, root.RunE)
}

func TestCapabilitiesValue(t *testing.T) {
	cs := v1alpha1.Capabilities{v1alpha1.CapabilityConcurrent}
	v := &CapabilitiesValue{Capabilities: &cs}
	assert.Equal(t, "CONCURRENT", v.String())
	assert.False(t, v.Changed())

	require.NoError(t, v.Set("discrete, log-uniform"))
	assert.Equal(t, v1alpha1.Capabilities{v1alpha1.CapabilityDiscrete, v1alpha1.CapabilityLogUniform}, cs)
	require.NoError(t, v.Set("categorical"))
	assert.Equal(t, "CATEGORICAL,DISCRETE,LOG_UNIFORM", v.String())
	assert.True(t, v.Changed())

	assert.Error(t, v.Set("teleport"))
}
