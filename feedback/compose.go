/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package feedback

import (
	"fmt"
	"strings"
)

// ComposeReleaseBackport renders the aggregated error comment for the
// release/backport domains. valueErrs are contributor-fixable invalid
// values; adminErrs are label-creation failures only an administrator can
// resolve. Both may be present in one run.
func ComposeReleaseBackport(valueErrs, adminErrs []string) string {
	var sb strings.Builder
	sb.WriteString("## 🚨 YAML Validation Error\n\n")

	if len(valueErrs) > 0 {
		sb.WriteString("The fenced YAML block in this pull request's description has problems:\n\n")
		for _, e := range valueErrs {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n**How to fix:** edit the PR description and correct the values in the fenced YAML block. The automation re-runs when the description changes.\n\n")
		sb.WriteString("**Valid YAML format:**\n\n")
		sb.WriteString("```yaml\nrelease: \"1.5\"\nbackport: [\"1.0\", \"2.0\"]\n```\n")
	}

	if len(adminErrs) > 0 {
		if len(valueErrs) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("### Repository configuration\n\n")
		sb.WriteString("The requested values are valid, but the matching labels could not be created:\n\n")
		for _, e := range adminErrs {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		sb.WriteString("\n**How to fix:** ask a repository administrator to create the labels above, then re-run the workflow.\n")
	}

	return sb.String()
}

// ComposeFeatureBranch renders the comment for an invalid boolean
// feature-branch directive.
func ComposeFeatureBranch(raw string) string {
	var sb strings.Builder
	sb.WriteString("## 🚨 YAML Validation Error: feature branch\n\n")
	fmt.Fprintf(&sb, "Invalid needs_feature_branch value: %q\n\n", raw)
	sb.WriteString("Accepted values are `true` and `false` (quotes optional, case ignored). The feature-branch automation re-runs when the description changes.\n\n")
	sb.WriteString("**Valid YAML format:**\n\n")
	sb.WriteString("```yaml\nneeds_feature_branch: true\n```\n")
	return sb.String()
}
