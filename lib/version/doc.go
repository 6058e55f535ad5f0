// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build of marquee binaries.
//
// Release builds set the variables with -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/marquee/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without them, [Info] uses the commit and time the Go toolchain
// stamps into binaries built inside a git checkout, and "unknown"
// when neither is available (for example under go test).
package version
