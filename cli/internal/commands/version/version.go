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

package version

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/version"
)

// Options is the configuration for reporting the version
type Options struct {
	// Printer is the resource printer used to render structured version information
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Structured is set when the output format was explicitly requested
	Structured bool
}

// NewCommand creates a new command for reporting the version
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Annotations: map[string]string{
			commander.PrinterAllowedFormats: "json,yaml",
			commander.PrinterOutputFormat:   "json",
		},

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Structured = cmd.Flags().Changed("output")
		},
		RunE: commander.WithoutArgsE(o.version),
	}

	commander.SetPrinter(nil, &o.Printer, cmd)

	return cmd
}

func (o *Options) version() error {
	if o.Structured {
		return o.Printer.PrintObj(version.GetInfo(), o.Out)
	}

	_, err := fmt.Fprintln(o.Out, version.Banner("optimize-bridge", version.GitCommit))
	return err
}
