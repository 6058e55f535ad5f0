// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets timer-driven code run against a controllable
// clock in tests.
//
// The listener arms one idle watchdog per connection through a
// [Clock]. Production passes [Real]; tests pass a [FakeClock] and step
// time explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	// ... start the goroutine that arms a timer ...
//	fake.WaitForTimers(1)
//	fake.Advance(11 * time.Second)
//
// Socket read deadlines cannot follow a fake clock, which is why the
// watchdog closes the connection from an AfterFunc callback instead.
package clock
