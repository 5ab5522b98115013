/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package labeler

import (
	"fmt"
	"strings"
)

// ValidationError reports directive values the PR author can fix by editing
// the description. The feedback comment is already posted by the time this
// is returned.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("directive validation failed: %s", strings.Join(e.Messages, "; "))
}

// ConfigurationError reports label-creation failures that need repository
// administrator attention, typically a missing permission. As with
// ValidationError, the comment is posted before this is returned.
type ConfigurationError struct {
	Messages []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("repository configuration problem: %s", strings.Join(e.Messages, "; "))
}
