// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError makes main exit with Code and print nothing further. It
// is the answer, not a failure: "status --check" on a stopped
// listener returns one.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// ExitCode implements the interface main checks for.
func (e *ExitError) ExitCode() int {
	return e.Code
}
