/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/keeper/githubauth"
	"github.com/google/go-github/v75/github"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

type config struct {
	Token             string `env:"GITHUB_TOKEN"`
	AppID             int64  `env:"GITHUB_APP_ID"`
	AppInstallationID int64  `env:"GITHUB_APP_INSTALLATION_ID"`
	AppPrivateKey     string `env:"GITHUB_APP_PRIVATE_KEY"`
	AppPrivateKeyPath string `env:"GITHUB_APP_PRIVATE_KEY_PATH"`

	Repository  string `env:"GITHUB_REPOSITORY"`
	EventPath   string `env:"GITHUB_EVENT_PATH"`
	StepSummary string `env:"GITHUB_STEP_SUMMARY"`

	AcceptedReleases  []string      `env:"KEEPER_ACCEPTED_RELEASES"`
	AcceptedBackports []string      `env:"KEEPER_ACCEPTED_BACKPORTS"`
	FeatureBranch     bool          `env:"KEEPER_FEATURE_BRANCH,default=true"`
	TitleSync         bool          `env:"KEEPER_TITLE_SYNC,default=true"`
	SettleDelay       time.Duration `env:"KEEPER_SETTLE_DELAY,default=10s"`
	StaleThreshold    time.Duration `env:"KEEPER_STALE_THRESHOLD,default=720h"`
	StaleLabel        string        `env:"KEEPER_STALE_LABEL,default=stale"`
}

var (
	cfg config

	flagEventPath string

	rootCmd = &cobra.Command{
		Use:           "keeper",
		Short:         "Reconcile PR labels, triage state, and feedback comments from PR descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return envconfig.Process(cmd.Context(), &cfg)
		},
	}
)

// repository splits GITHUB_REPOSITORY into owner and name.
func repository() (string, string, error) {
	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("GITHUB_REPOSITORY must be owner/repo, got %q", cfg.Repository)
	}
	return owner, repo, nil
}

// eventPath resolves the payload path from the flag or the environment.
func eventPath() (string, error) {
	if flagEventPath != "" {
		return flagEventPath, nil
	}
	if cfg.EventPath != "" {
		return cfg.EventPath, nil
	}
	return "", errors.New("no event payload: pass --event-path or set GITHUB_EVENT_PATH")
}

func newGitHub(ctx context.Context) (*github.Client, error) {
	return githubauth.NewClient(ctx, githubauth.Config{
		Token:             cfg.Token,
		AppID:             cfg.AppID,
		AppInstallationID: cfg.AppInstallationID,
		AppPrivateKey:     cfg.AppPrivateKey,
		AppPrivateKeyPath: cfg.AppPrivateKeyPath,
	})
}
