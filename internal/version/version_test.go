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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_String(t *testing.T) {
	cases := []struct {
		desc     string
		info     Info
		expected string
	}{
		{
			desc:     "empty",
			expected: defaultVersion,
		},
		{
			desc:     "release ignores metadata",
			info:     Info{Version: "v1.2.3", BuildMetadata: "test"},
			expected: "v1.2.3",
		},
		{
			desc:     "pre-release includes metadata",
			info:     Info{Version: "v1.2.3-rc.1", BuildMetadata: "test"},
			expected: "v1.2.3-rc.1+test",
		},
		{
			desc:     "pre-release without metadata",
			info:     Info{Version: "v2.0.0-beta"},
			expected: "v2.0.0-beta",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, c.info.String())
		})
	}
}

func TestGetInfo(t *testing.T) {
	defer resetVersion()
	Version, BuildMetadata, GitCommit = "v1.0.0-dev", "ci", "0123abc"

	info := GetInfo()
	assert.Equal(t, "v1.0.0-dev+ci", info.String())

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"v1.0.0-dev","build":"ci","gitCommit":"0123abc"}`, string(data))
}

func resetVersion() {
	Version = defaultVersion
	BuildMetadata = ""
	GitCommit = ""
}
