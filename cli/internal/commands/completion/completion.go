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

package completion

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// Options is the configuration for generating shell completion scripts
type Options struct {
	Shell string
}

// generators write the completion script of the root command for each supported shell.
var generators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// Shells returns the names of the shells with completion support.
func Shells() []string {
	shells := make([]string, 0, len(generators))
	for shell := range generators {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	return shells
}

func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion SHELL",
		Short: "Output shell completion code",
		Long: "Output shell completion code for the bridge commands. Besides command names, the generated code " +
			"completes the choices of the sampler, pruner and problem flags used by solve, problem and bench.",

		Example: `# Complete the bench flags in the current bash session
source <(optimize-bridge completion bash)
optimize-bridge bench --problem <TAB>

# Install the zsh completion (assuming '$ZSH/completions' is part of 'fpath')
optimize-bridge completion zsh > $ZSH/completions/_optimize-bridge`,

		Args:      cobra.ExactValidArgs(1),
		ValidArgs: Shells(),

		PreRun: func(_ *cobra.Command, args []string) { o.Shell = args[0] },
		RunE:   func(cmd *cobra.Command, _ []string) error { return o.completion(cmd) },
	}

	return cmd
}

func (o *Options) completion(cmd *cobra.Command) error {
	gen, ok := generators[o.Shell]
	if !ok {
		return fmt.Errorf("completion is not implemented for %s", o.Shell)
	}
	return gen(cmd.Root(), cmd.OutOrStdout())
}
