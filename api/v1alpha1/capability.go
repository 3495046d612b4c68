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

package v1alpha1

import (
	"fmt"
	"sort"
	"strings"
)

// Capability is a feature flag negotiated once during the specification exchange.
type Capability string

const (
	CapabilityCategorical Capability = "CATEGORICAL"
	CapabilityConditional Capability = "CONDITIONAL"
	CapabilityDiscrete    Capability = "DISCRETE"
	CapabilityLogUniform  Capability = "LOG_UNIFORM"
	CapabilityConcurrent  Capability = "CONCURRENT"
)

// AllCapabilities returns every known capability.
func AllCapabilities() Capabilities {
	return Capabilities{
		CapabilityCategorical,
		CapabilityConditional,
		CapabilityDiscrete,
		CapabilityLogUniform,
		CapabilityConcurrent,
	}
}

// ParseCapability returns the capability for the supplied (case insensitive) name.
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, known := range AllCapabilities() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability: %q", s)
}

// Capabilities is a set of capabilities, it is serialized as a list.
type Capabilities []Capability

// Has checks for the supplied capability.
func (cs Capabilities) Has(c Capability) bool {
	for i := range cs {
		if cs[i] == c {
			return true
		}
	}
	return false
}

// Add returns a set which includes the supplied capabilities.
func (cs Capabilities) Add(more ...Capability) Capabilities {
	out := append(Capabilities{}, cs...)
	for _, c := range more {
		if !out.Has(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Incapables returns the capabilities from the required set that are not present in this set.
func (cs Capabilities) Incapables(required Capabilities) Capabilities {
	var missing Capabilities
	for _, c := range required {
		if !cs.Has(c) && !missing.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// String returns the comma separated capability names.
func (cs Capabilities) String() string {
	names := make([]string, len(cs))
	for i := range cs {
		names[i] = string(cs[i])
	}
	return strings.Join(names, ",")
}
