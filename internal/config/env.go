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

package config

import (
	"fmt"
	"os"
	"strconv"
)

// envLoader adds environment variable overrides to the configuration
func envLoader(cfg *BridgeConfig) error {
	mergeString(&cfg.data.Log.Level, os.Getenv("BRIDGE_LOG_LEVEL"))
	mergeString(&cfg.data.Log.Format, os.Getenv("BRIDGE_LOG_FORMAT"))
	mergeString(&cfg.data.Solver.Sampler, os.Getenv("BRIDGE_SAMPLER"))
	mergeString(&cfg.data.Solver.Pruner, os.Getenv("BRIDGE_PRUNER"))
	mergeString(&cfg.data.Metrics.Address, os.Getenv("BRIDGE_METRICS_ADDR"))
	mergeString(&cfg.data.Metrics.File, os.Getenv("BRIDGE_METRICS_FILE"))

	if seed := os.Getenv("BRIDGE_SEED"); seed != "" {
		s, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BRIDGE_SEED: %w", err)
		}
		mergeInt64(&cfg.data.Solver.Seed, s)
	}
	return nil
}
