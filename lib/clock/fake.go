// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock. Callbacks run synchronously
// inside Advance, earliest deadline first, so a callback must not call
// Advance itself. Safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	armed   *sync.Cond
	now     time.Time
	pending []*fakeTimer
}

// Fake returns a FakeClock stopped at start.
func Fake(start time.Time) *FakeClock {
	c := &FakeClock{now: start}
	c.armed = sync.NewCond(&c.mu)
	return c
}

type fakeTimer struct {
	clock    *FakeClock
	callback func()
	deadline time.Time
	active   bool
}

// AfterFunc arms a timer d from the current fake time. A non-positive d
// runs f before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	timer := &fakeTimer{clock: c, callback: f}
	if d <= 0 {
		f()
		return timer
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armLocked(timer, d)
	return timer
}

func (c *FakeClock) armLocked(timer *fakeTimer, d time.Duration) {
	timer.deadline = c.now.Add(d)
	if !timer.active {
		timer.active = true
		c.pending = append(c.pending, timer)
	}
	c.armed.Broadcast()
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := t.active
	t.clock.disarmLocked(t)
	return wasActive
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := t.active
	t.clock.armLocked(t, d)
	return wasActive
}

func (c *FakeClock) disarmLocked(timer *fakeTimer) {
	timer.active = false
	c.pending = slices.DeleteFunc(c.pending, func(candidate *fakeTimer) bool {
		return candidate == timer
	})
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves time forward by d and runs every callback whose
// deadline has been reached, including timers re-armed by an earlier
// callback within the same window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()

	for {
		timer := c.nextExpired()
		if timer == nil {
			return
		}
		timer.callback()
	}
}

// nextExpired disarms and returns the earliest expired timer, or nil.
func (c *FakeClock) nextExpired() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var earliest *fakeTimer
	for _, timer := range c.pending {
		if timer.deadline.After(c.now) {
			continue
		}
		if earliest == nil || timer.deadline.Before(earliest.deadline) {
			earliest = timer
		}
	}
	if earliest != nil {
		c.disarmLocked(earliest)
	}
	return earliest
}

// WaitForTimers blocks until at least n timers are armed. Tests call
// it before Advance so the goroutine under test has had the chance to
// arm its timer.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) < n {
		c.armed.Wait()
	}
}

// PendingCount returns the number of armed timers.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
