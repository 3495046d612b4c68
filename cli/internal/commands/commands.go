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

package commands

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/bench"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/completion"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/configure"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/docs"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/problem"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/solve"
	"github.com/thestormforge/optimize-bridge/cli/internal/commands/version"
	"github.com/thestormforge/optimize-bridge/internal/config"
)

// NewRootCommand creates a new top-level command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "optimize-bridge",
		Short:             "Connect optimizers and problems over the ask/tell protocol",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create a global configuration
	cfg := &config.BridgeConfig{}
	commander.ConfigGlobals(cfg, rootCmd)

	// Protocol Commands
	rootCmd.AddCommand(solve.NewCommand(&solve.Options{Config: cfg}))
	rootCmd.AddCommand(problem.NewCommand(&problem.Options{Config: cfg}))
	rootCmd.AddCommand(bench.NewCommand(&bench.Options{Config: cfg, MaxTrials: 20}))

	// Administrative Commands
	rootCmd.AddCommand(configure.NewCommand(&configure.Options{Config: cfg}))
	rootCmd.AddCommand(completion.NewCommand(&completion.Options{}))
	rootCmd.AddCommand(version.NewCommand(&version.Options{}))
	rootCmd.AddCommand(docs.NewCommand(&docs.Options{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// mapError intercepts errors returned by commands before they are reported.
func mapError(err error) error {
	if v1alpha1.IsProtocolViolation(err) {
		return fmt.Errorf("protocol violation: %w", err)
	}

	// It's really annoying to just get an "exit status was one" message.
	var e *exec.ExitError
	if errors.As(err, &e) && !e.Success() && len(e.Stderr) > 0 {
		return fmt.Errorf("%w\n%s", err, string(e.Stderr))
	}

	return err
}
