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
	"strings"

	"github.com/spf13/pflag"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

// CapabilitiesValue is a flag value holding a comma separated list of capabilities.
type CapabilitiesValue struct {
	Capabilities *v1alpha1.Capabilities
	changed      bool
}

var _ pflag.Value = &CapabilitiesValue{}

// String returns the current list of capabilities.
func (v *CapabilitiesValue) String() string {
	if v.Capabilities == nil {
		return ""
	}
	return v.Capabilities.String()
}

// Set replaces the default capabilities the first time it is called and adds to them on each later call.
func (v *CapabilitiesValue) Set(s string) error {
	var cs v1alpha1.Capabilities
	if v.changed {
		cs = *v.Capabilities
	}
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := v1alpha1.ParseCapability(name)
		if err != nil {
			return err
		}
		cs = cs.Add(c)
	}
	*v.Capabilities = cs
	v.changed = true
	return nil
}

// Type returns the flag value type name.
func (v *CapabilitiesValue) Type() string {
	return "capabilities"
}

// Changed returns true if the value was set from the command line.
func (v *CapabilitiesValue) Changed() bool {
	return v.changed
}
