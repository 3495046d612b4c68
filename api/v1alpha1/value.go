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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ParamValue is a tagged variant mirroring ParamDomain. The zero value is invalid.
type ParamValue struct {
	kind        ParamKind
	continuous  float64
	discrete    int64
	categorical int
	conditional *ParamValue
}

// ContinuousValue returns a continuous parameter value.
func ContinuousValue(v float64) ParamValue {
	return ParamValue{kind: ParamKindContinuous, continuous: v}
}

// DiscreteValue returns a discrete parameter value.
func DiscreteValue(v int64) ParamValue {
	return ParamValue{kind: ParamKindDiscrete, discrete: v}
}

// CategoricalValue returns a categorical parameter value, the index of the chosen category.
func CategoricalValue(index int) ParamValue {
	return ParamValue{kind: ParamKindCategorical, categorical: index}
}

// ConditionalValue returns a conditional parameter value; nil means the condition was not met.
func ConditionalValue(v *ParamValue) ParamValue {
	return ParamValue{kind: ParamKindConditional, conditional: v}
}

// Kind returns the variant tag.
func (v ParamValue) Kind() ParamKind { return v.kind }

// Continuous returns the continuous value.
func (v ParamValue) Continuous() float64 { return v.continuous }

// Discrete returns the discrete value.
func (v ParamValue) Discrete() int64 { return v.discrete }

// Categorical returns the index of the categorical value.
func (v ParamValue) Categorical() int { return v.categorical }

// Conditional returns the nested value, or nil if the condition was not met.
func (v ParamValue) Conditional() *ParamValue { return v.conditional }

// Equal compares two values, including nested conditional values.
func (v ParamValue) Equal(o ParamValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ParamKindContinuous:
		return v.continuous == o.continuous || (math.IsNaN(v.continuous) && math.IsNaN(o.continuous))
	case ParamKindDiscrete:
		return v.discrete == o.discrete
	case ParamKindCategorical:
		return v.categorical == o.categorical
	case ParamKindConditional:
		if v.conditional == nil || o.conditional == nil {
			return v.conditional == nil && o.conditional == nil
		}
		return v.conditional.Equal(*o.conditional)
	}
	return true
}

// String returns a compact representation of the value.
func (v ParamValue) String() string {
	switch v.kind {
	case ParamKindContinuous:
		return fmt.Sprintf("%g", v.continuous)
	case ParamKindDiscrete:
		return fmt.Sprintf("%d", v.discrete)
	case ParamKindCategorical:
		return fmt.Sprintf("#%d", v.categorical)
	case ParamKindConditional:
		if v.conditional == nil {
			return "-"
		}
		return v.conditional.String()
	}
	return "<invalid>"
}

// MarshalJSON encodes the value externally tagged, e.g. `{"continuous":0.5}`.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch v.kind {
	case ParamKindContinuous:
		if math.IsNaN(v.continuous) || math.IsInf(v.continuous, 0) {
			return nil, fmt.Errorf("unable to encode continuous value %v", v.continuous)
		}
		payload = v.continuous
	case ParamKindDiscrete:
		payload = v.discrete
	case ParamKindCategorical:
		payload = v.categorical
	case ParamKindConditional:
		payload = v.conditional
	default:
		return nil, fmt.Errorf("unable to encode parameter value without a kind")
	}
	return json.Marshal(map[ParamKind]interface{}{v.kind: payload})
}

// UnmarshalJSON decodes an externally tagged value.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	var tagged map[ParamKind]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if len(tagged) != 1 {
		return fmt.Errorf("parameter value must have exactly one variant, got %d", len(tagged))
	}

	for kind, raw := range tagged {
		out := ParamValue{kind: kind}
		var err error
		switch kind {
		case ParamKindContinuous:
			err = json.Unmarshal(raw, &out.continuous)
		case ParamKindDiscrete:
			err = json.Unmarshal(raw, &out.discrete)
		case ParamKindCategorical:
			err = json.Unmarshal(raw, &out.categorical)
		case ParamKindConditional:
			if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				out.conditional = &ParamValue{}
				err = json.Unmarshal(raw, out.conditional)
			}
		default:
			return fmt.Errorf("unknown parameter value kind %q", kind)
		}
		if err != nil {
			return err
		}
		*v = out
	}
	return nil
}
