// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package overlay owns the shared display state of a marquee overlay
// and the rules for changing it.
//
// The [Synchronizer] is the single point of truth. Every change (a
// message from the TCP listener, a setting from the control socket, a
// drag from the display) arrives as a typed [Event] on one channel and
// is applied sequentially: validate, update the in-memory [State],
// issue commands to the [RenderTarget], and write the durable subset
// ([Settings]) to the [SettingsStore] before the next event is taken.
// Invalid payloads are logged and dropped; nothing in this package
// returns an error to the component that produced an event.
//
// The [PositionController] turns drag gestures reported by a render
// target into position events, suppressing jitter below
// [DragThreshold] and ignoring drags while the overlay is locked.
//
// The lock flag drives two render-target capabilities together: a
// locked overlay blocks input and has no drag handler, an unlocked one
// accepts input and has a drag handler attached. They are never
// changed independently.
package overlay
