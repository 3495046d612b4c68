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
	"encoding/json"
)

// Loader is used to initially populate a bridge configuration
type Loader func(cfg *BridgeConfig) error

// Change is used to apply a configuration change that should be persisted
type Change func(cfg *Config) error

// BridgeConfig is the structure used to manage configuration data
type BridgeConfig struct {
	// Filename is the path to the configuration file; if left blank, it will be populated using XDG base directory conventions on the next Load
	Filename string
	// Overrides are applied after the file and environment, usually from the command line
	Overrides Overrides

	data        Config
	unpersisted []Change
}

// MarshalJSON ensures only the configuration data is marshalled
func (bc *BridgeConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(bc.data)
}

// Load will populate the bridge configuration
func (bc *BridgeConfig) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader, migrationLoader, envLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, overridesLoader, defaultLoader)
	for i := range loaders {
		if err := loaders[i](bc); err != nil {
			return err
		}
	}
	return nil
}

// Update will make a change to the configuration data that should be persisted on the next call to Write
func (bc *BridgeConfig) Update(change Change) error {
	if err := change(&bc.data); err != nil {
		return err
	}
	bc.unpersisted = append(bc.unpersisted, change)
	return nil
}

// Write all unpersisted changes to disk
func (bc *BridgeConfig) Write() error {
	if bc.Filename == "" || len(bc.unpersisted) == 0 {
		return nil
	}

	data, err := readConfigFile(bc.Filename)
	if err != nil {
		return err
	}

	for i := range bc.unpersisted {
		if err := bc.unpersisted[i](&data); err != nil {
			return err
		}
	}

	if err := writeConfigFile(bc.Filename, &data); err != nil {
		return err
	}

	bc.unpersisted = nil
	return nil
}

// Merge combines the supplied data with what is already present in this configuration; unlike Update, changes
// will not be persisted on the next write
func (bc *BridgeConfig) Merge(data *Config) {
	mergeLog(&bc.data.Log, &data.Log)
	mergeSolver(&bc.data.Solver, &data.Solver)
	mergeProblem(&bc.data.Problem, &data.Problem)
	mergeMetrics(&bc.data.Metrics, &data.Metrics)
}

// Log returns the logging configuration
func (bc *BridgeConfig) Log() Log { return bc.data.Log }

// Solver returns the solver configuration
func (bc *BridgeConfig) Solver() Solver { return bc.data.Solver }

// Problem returns the problem configuration
func (bc *BridgeConfig) Problem() Problem { return bc.data.Problem }

// Metrics returns the metrics configuration
func (bc *BridgeConfig) Metrics() Metrics { return bc.data.Metrics }
