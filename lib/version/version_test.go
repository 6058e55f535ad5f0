// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInfoPrefersLinkerValues(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "abc1234", "true", "2026-03-01T09:00:00Z"
	want := Version + " (abc1234-dirty, 2026-03-01T09:00:00Z)"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "dirty") {
		t.Errorf("Info() = %q, should not be dirty", got)
	}
}

func TestInfoNeverEmpty(t *testing.T) {
	savedCommit, savedDirty, savedTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() { GitCommit, GitDirty, BuildTime = savedCommit, savedDirty, savedTime })

	GitCommit, GitDirty, BuildTime = "", "", ""
	got := Info()
	if !strings.HasPrefix(got, Version+" (") || strings.Contains(got, "(,") || strings.Contains(got, ", )") {
		t.Errorf("Info() = %q, want commit and time filled in", got)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef0123"); got != "0123456789ab" {
		t.Errorf("shortRevision = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision(short) = %q", got)
	}
}

func TestFullIncludesPlatform(t *testing.T) {
	if !strings.Contains(Full(), "Platform: ") {
		t.Errorf("Full() = %q", Full())
	}
}
