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

package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/evaluator"
)

// Options is the configuration for generating documentation
type Options struct {
	// Directory is the output directory for generated documentation
	Directory string
	// DocType is type of documentation to generate
	DocType string
}

// NewCommand returns a new documentation command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "docs",
		Short:  "Generate documentation",
		Long:   "Generate documentation for the bridge commands and the built-in problems",
		Hidden: true,

		RunE: func(cmd *cobra.Command, _ []string) error { return o.docs(cmd) },
	}

	cmd.Flags().StringVarP(&o.Directory, "directory", "d", "./", "directory where documentation is written")
	cmd.Flags().StringVar(&o.DocType, "doc-type", "markdown", "documentation type to write")

	_ = cmd.MarkFlagDirname("directory")

	commander.SetFlagValues(cmd, "doc-type", "markdown", "man", "problems")

	return cmd
}

func (o *Options) docs(cmd *cobra.Command) error {
	// Create the directory to write documentation into
	if err := os.MkdirAll(o.Directory, 0777); err != nil {
		return err
	}

	// Generate the requested type of documentation
	switch o.DocType {

	case "markdown", "md", "":
		return doc.GenMarkdownTree(cmd.Root(), o.Directory)

	case "man":
		return doc.GenManTree(cmd.Root(), &doc.GenManHeader{Title: "OPTIMIZE BRIDGE", Section: "1"}, o.Directory)

	case "problems":
		return genProblemSpecs(o.Directory)

	}

	return fmt.Errorf("unknown documentation type: %s", o.DocType)
}

// genProblemSpecs writes the PROBLEM_SPEC_CAST message of each built-in problem using the default options
func genProblemSpecs(dir string) error {
	for _, name := range evaluator.Names() {
		p, err := evaluator.New(name, evaluator.Options{Dimension: 2, EvaluationExpense: 100})
		if err != nil {
			return err
		}

		data, err := v1alpha1.EncodeMessage(&v1alpha1.ProblemSpecCast{ProblemSpec: p.Spec()})
		if err != nil {
			return err
		}

		var pretty map[string]interface{}
		if err := json.Unmarshal(data, &pretty); err != nil {
			return err
		}
		output, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}

		if err := os.WriteFile(filepath.Join(dir, name+".json"), append(output, '\n'), 0644); err != nil {
			return err
		}
	}
	return nil
}
