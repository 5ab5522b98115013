/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubauth builds authenticated GitHub clients from static
// credentials: a workflow token, or GitHub App installation credentials
// when configured.
package githubauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

// Config carries the credential material. App fields win over Token when
// both are set; key content wins over a key path.
type Config struct {
	Token string

	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string
	AppPrivateKeyPath string
}

func (c Config) appConfigured() bool {
	return c.AppID != 0 && c.AppInstallationID != 0 && (c.AppPrivateKey != "" || c.AppPrivateKeyPath != "")
}

// NewClient returns a REST client for the strongest configured credential.
func NewClient(ctx context.Context, cfg Config) (*github.Client, error) {
	log := clog.FromContext(ctx)
	switch {
	case cfg.appConfigured():
		var (
			tr  *ghinstallation.Transport
			err error
		)
		if cfg.AppPrivateKey != "" {
			tr, err = ghinstallation.New(http.DefaultTransport, cfg.AppID, cfg.AppInstallationID, []byte(cfg.AppPrivateKey))
		} else {
			tr, err = ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.AppInstallationID, cfg.AppPrivateKeyPath)
		}
		if err != nil {
			return nil, fmt.Errorf("building app installation transport: %w", err)
		}
		log.With("app", cfg.AppID, "installation", cfg.AppInstallationID).Debug("authenticating as GitHub App installation")
		return github.NewClient(&http.Client{Transport: tr}), nil

	case cfg.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		log.Debug("authenticating with a static token")
		return github.NewClient(oauth2.NewClient(ctx, ts)), nil
	}
	return nil, errors.New("no GitHub credentials configured: set GITHUB_TOKEN or the GITHUB_APP_* variables")
}
