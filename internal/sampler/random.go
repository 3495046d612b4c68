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

package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
)

// Sampler produces parameter suggestions for new trials.
type Sampler interface {
	// Name returns the name reported in the solver specification.
	Name() string
	// Capabilities returns the kinds of parameters the sampler can suggest.
	Capabilities() v1alpha1.Capabilities
	// NewTrial returns the suggester for the numbered trial.
	NewTrial(number int) parameter.Suggester
}

// RandomSampler draws every parameter independently and uniformly (in log space for log-uniform ranges).
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler returns a random sampler using the supplied seed.
func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSampler) Name() string { return "random" }

func (s *RandomSampler) Capabilities() v1alpha1.Capabilities {
	return v1alpha1.Capabilities{
		v1alpha1.CapabilityCategorical,
		v1alpha1.CapabilityConditional,
		v1alpha1.CapabilityDiscrete,
		v1alpha1.CapabilityLogUniform,
	}
}

func (s *RandomSampler) NewTrial(int) parameter.Suggester { return s }

func (s *RandomSampler) SuggestFloat(_ string, low, high float64, log bool) (float64, error) {
	var v float64
	switch {
	case log:
		v = math.Exp(math.Log(low) + s.rng.Float64()*(math.Log(high)-math.Log(low)))
	case math.IsInf(high-low, 0):
		// The span overflows, interpolate instead
		f := s.rng.Float64()
		v = low*(1-f) + high*f
	default:
		v = low + s.rng.Float64()*(high-low)
	}
	return clamp(v, low, high), nil
}

func (s *RandomSampler) SuggestInt(_ string, low, high int64) (int64, error) {
	span := uint64(high) - uint64(low)
	if span < math.MaxInt64 {
		return low + s.rng.Int63n(int64(span)+1), nil
	}

	// Full width ranges need 64 random bits, reject the biased tail
	if span == math.MaxUint64 {
		return int64(s.rng.Uint64()), nil
	}
	n := span + 1
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		if r := s.rng.Uint64(); r < limit {
			return int64(uint64(low) + r%n), nil
		}
	}
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func (s *RandomSampler) SuggestCategorical(_ string, choices []string) (int, error) {
	return s.rng.Intn(len(choices)), nil
}

// ContinuousSampler is a random sampler restricted to uniform continuous parameters.
type ContinuousSampler struct {
	*RandomSampler
}

// NewContinuousSampler returns a continuous only sampler using the supplied seed.
func NewContinuousSampler(seed int64) *ContinuousSampler {
	return &ContinuousSampler{RandomSampler: NewRandomSampler(seed)}
}

func (s *ContinuousSampler) Name() string { return "continuous" }

func (s *ContinuousSampler) Capabilities() v1alpha1.Capabilities { return v1alpha1.Capabilities{} }

func (s *ContinuousSampler) NewTrial(int) parameter.Suggester { return s }

func (s *ContinuousSampler) SuggestFloat(name string, low, high float64, log bool) (float64, error) {
	if log {
		return 0, v1alpha1.NewError(v1alpha1.ErrUnsupportedParameter, "log-uniform parameter %q", name)
	}
	return s.RandomSampler.SuggestFloat(name, low, high, false)
}

func (s *ContinuousSampler) SuggestInt(name string, _, _ int64) (int64, error) {
	return 0, v1alpha1.NewError(v1alpha1.ErrUnsupportedParameter, "discrete parameter %q", name)
}

func (s *ContinuousSampler) SuggestCategorical(name string, _ []string) (int, error) {
	return 0, v1alpha1.NewError(v1alpha1.ErrUnsupportedParameter, "categorical parameter %q", name)
}

// New returns the named sampler.
func New(name string, seed int64) (Sampler, error) {
	switch name {
	case "", "random":
		return NewRandomSampler(seed), nil
	case "continuous":
		return NewContinuousSampler(seed), nil
	}
	return nil, fmt.Errorf("unknown sampler %q", name)
}
