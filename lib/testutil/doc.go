// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by marquee tests.
//
// [SocketDir] makes a short directory under /tmp for Unix sockets,
// whose paths must fit in 108 bytes; t.TempDir() paths often do not.
//
// [RequireReceive] and [RequireClosed] bound channel waits so a broken
// test fails instead of hanging. They are the only wall-clock waits in
// the test suite; timer behavior is driven by lib/clock's fake.
package testutil
