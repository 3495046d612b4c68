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
	"strings"
)

// Banner returns a "product/version (comments)" string identifying the running binary, for
// example "optimize-bridge/1.2.3 (random)".
func Banner(product, comment string) string {
	if product == "" {
		return ""
	}

	b := strings.Builder{}
	b.WriteString(product)
	b.WriteRune('/')
	b.WriteString(strings.TrimPrefix(Version, "v"))

	var comments []string

	// Only include build metadata for pre-release versions
	if strings.Contains(Version, "-") && BuildMetadata != "" {
		comments = append(comments, BuildMetadata)
	}

	comment = strings.TrimSpace(comment)
	comment = strings.TrimLeft(comment, "(")
	comment = strings.TrimRight(comment, ")")
	comment = strings.TrimSpace(comment)
	if comment != "" {
		comments = append(comments, comment)
	}

	if len(comments) > 0 {
		b.WriteString(" (" + strings.Join(comments, "; ") + ")")
	}

	return b.String()
}
