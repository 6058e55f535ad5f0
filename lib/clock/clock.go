// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock schedules callbacks.
type Clock interface {
	// AfterFunc calls f once d has elapsed, unless the returned
	// Timer is stopped first.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc callback. *time.Timer satisfies it.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback has
	// already run or the timer was already stopped.
	Stop() bool

	// Reset re-arms the timer to fire d from now, reporting whether it
	// was still pending.
	Reset(d time.Duration) bool
}

// Real returns the wall clock.
func Real() Clock {
	return wallClock{}
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
