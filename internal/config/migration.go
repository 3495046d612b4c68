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
	"strings"
)

// migrationLoader rewrites values accepted by earlier releases (and the original solver scripts) to their current form
func migrationLoader(cfg *BridgeConfig) error {
	switch strings.ToLower(cfg.data.Solver.Pruner) {
	case "none":
		cfg.data.Solver.Pruner = "nop"
	case "successive-halving", "sha":
		cfg.data.Solver.Pruner = "asha"
	}

	if strings.EqualFold(cfg.data.Log.Level, "warning") {
		cfg.data.Log.Level = "warn"
	}

	return nil
}
