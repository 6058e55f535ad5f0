// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service carries the daemon's control protocol: one CBOR map
// in, one [Response] out, over a Unix socket, one exchange per
// connection.
//
// Requests name their operation in an "action" field next to the
// operation's own fields. [SocketServer] routes on that name to an
// [ActionFunc]; [Client] is the calling side used by the marquee CLI.
// CBOR items delimit themselves, so there is no extra framing. The
// socket file is created mode 0600 and file permissions are the only
// access control.
package service
