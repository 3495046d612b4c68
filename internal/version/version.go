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
	"strings"
)

const defaultVersion = "0.0.0-source"

var (
	// Version is the semantic version of the bridge, set at build time
	Version = defaultVersion
	// BuildMetadata is additional build information, only reported for pre-release versions
	BuildMetadata = ""
	// GitCommit is the commit the bridge was built from
	GitCommit = ""
)

// Info is the version information of the running binary.
type Info struct {
	Version       string `json:"version"`
	BuildMetadata string `json:"build,omitempty"`
	GitCommit     string `json:"gitCommit,omitempty"`
}

// GetInfo returns the version information.
func GetInfo() *Info {
	return &Info{
		Version:       Version,
		BuildMetadata: BuildMetadata,
		GitCommit:     GitCommit,
	}
}

// String returns the semantic version, including build metadata for pre-release versions.
func (i *Info) String() string {
	if i.Version == "" {
		return defaultVersion
	}
	if strings.Contains(i.Version, "-") && i.BuildMetadata != "" {
		return i.Version + "+" + i.BuildMetadata
	}
	return i.Version
}
