// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed.
//
//	message := testutil.RequireReceive(t, delivered, 5*time.Second, "message not delivered")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, details ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed before a value arrived: %s", describe(details))
		}
		return value
	case <-timer.C:
		t.Fatalf("nothing received within %v: %s", timeout, describe(details))
	}
	panic("unreachable")
}

// RequireClosed waits up to timeout for ch to close, the way readiness
// and done channels signal.
//
//	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "control socket never became ready")
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, details ...any) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("channel still open after %v: %s", timeout, describe(details))
	}
}

// describe renders the optional trailing arguments: a plain message,
// or a format string and its arguments.
func describe(details []any) string {
	switch {
	case len(details) == 0:
		return "(no context)"
	case len(details) == 1:
		return fmt.Sprint(details[0])
	}
	if format, ok := details[0].(string); ok {
		return fmt.Sprintf(format, details[1:]...)
	}
	return fmt.Sprint(details...)
}
