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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Search locations follow the XDG base directory conventions.
const (
	configFileEnv     = "BRIDGE_CONFIG"
	configHomeEnv     = "XDG_CONFIG_HOME"
	configDirsEnv     = "XDG_CONFIG_DIRS"
	defaultConfigDirs = "/etc/xdg"
	configFilename    = "optimize-bridge/config"
)

// fileLoader merges the bridge configuration file. When no filename is set, the first existing
// file on the search path is read and changes are directed to the user's own file.
func fileLoader(cfg *BridgeConfig) error {
	filename := cfg.Filename
	if filename == "" {
		filename, cfg.Filename = searchConfigFile()
	}

	data, err := readConfigFile(filename)
	if err != nil {
		return err
	}

	cfg.Merge(&data)
	return nil
}

// readConfigFile decodes a YAML or JSON configuration file; a missing file is empty, unknown keys are rejected.
func readConfigFile(filename string) (Config, error) {
	var data Config
	b, err := os.ReadFile(filename)
	switch {
	case os.IsNotExist(err):
		return data, nil
	case err != nil:
		return data, err
	}

	if err := yaml.UnmarshalStrict(b, &data); err != nil {
		return data, errors.Wrapf(err, "invalid bridge configuration %s", filename)
	}
	return data, nil
}

// writeConfigFile stores the configuration as YAML, creating the user only directory if needed.
func writeConfigFile(filename string, data *Config) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0600)
}

// searchConfigFile returns the file to read and the file changes are written to.
func searchConfigFile() (current string, user string) {
	if explicit := os.Getenv(configFileEnv); explicit != "" {
		return explicit, explicit
	}

	home := os.Getenv(configHomeEnv)
	if home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			dir = "~"
		}
		home = filepath.Join(dir, ".config")
	}

	dirs := os.Getenv(configDirsEnv)
	if dirs == "" {
		dirs = defaultConfigDirs
	}

	user = filepath.Join(home, configFilename)
	for _, dir := range append([]string{home}, filepath.SplitList(dirs)...) {
		candidate := filepath.Join(dir, configFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, user
		}
	}
	return user, user
}
