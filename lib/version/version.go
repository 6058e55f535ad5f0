// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X at release build time. Empty values fall back
// to the VCS stamp the Go toolchain embeds in the binary.
var (
	// Version is the release version.
	Version = "0.1.0-dev"

	// GitCommit is the short commit hash.
	GitCommit = ""

	// GitDirty is "true" for a build from a modified tree.
	GitDirty = ""

	// BuildTime is the commit or build time in RFC 3339.
	BuildTime = ""
)

// Info returns "Version (commit[-dirty], time)".
func Info() string {
	commit, dirty, built := stamp()
	if dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", Version, commit, built)
}

// Full returns Info followed by the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes "name Info()" to stdout.
func Print(name string) {
	fmt.Fprintf(os.Stdout, "%s %s\n", name, Info())
}

// stamp merges the linker-set variables with the embedded VCS
// settings, preferring the linker values.
func stamp() (commit string, dirty bool, built string) {
	commit, built = GitCommit, BuildTime
	dirty = GitDirty == "true"

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if commit == "" {
					commit = shortRevision(setting.Value)
				}
			case "vcs.time":
				if built == "" {
					built = setting.Value
				}
			case "vcs.modified":
				if GitDirty == "" {
					dirty = setting.Value == "true"
				}
			}
		}
	}

	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return commit, dirty, built
}

func shortRevision(revision string) string {
	if len(revision) > 12 {
		return revision[:12]
	}
	return revision
}
