/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubauth

import (
	"context"
	"testing"
)

func TestNewClientToken(t *testing.T) {
	gh, err := NewClient(context.Background(), Config{Token: "ghs_testtoken"})
	if err != nil {
		t.Fatalf("NewClient() = %v", err)
	}
	if gh == nil {
		t.Fatal("NewClient() returned a nil client")
	}
}

func TestNewClientNoCredentials(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); err == nil {
		t.Fatal("NewClient() = nil error, want a credentials error")
	}
}

func TestNewClientAppBadKey(t *testing.T) {
	cfg := Config{
		AppID:             12345,
		AppInstallationID: 67890,
		AppPrivateKey:     "not a PEM key",
	}
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() = nil error, want a key parse error")
	}
}

func TestNewClientAppMissingKeyFile(t *testing.T) {
	cfg := Config{
		AppID:             12345,
		AppInstallationID: 67890,
		AppPrivateKeyPath: t.TempDir() + "/absent.pem",
	}
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() = nil error, want a file read error")
	}
}

func TestNewClientAppWinsOverToken(t *testing.T) {
	// App credentials take precedence, so a broken key must surface even
	// when a perfectly good token is also present.
	cfg := Config{
		Token:             "ghs_testtoken",
		AppID:             12345,
		AppInstallationID: 67890,
		AppPrivateKey:     "not a PEM key",
	}
	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() = nil error, want the app transport error to win")
	}
}
