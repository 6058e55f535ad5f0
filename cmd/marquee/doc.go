// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Marquee is the command-line client for marqueed. It sends messages
// to a listener over TCP and drives a running daemon through its
// control socket.
//
// Usage:
//
//	marquee send [--host H] [--port P] [text...]
//	marquee status [--json] [--check]
//	marquee start [--port P]
//	marquee stop
//	marquee set text|font-size|text-color|opacity|position <value>
//	marquee lock
//	marquee unlock
//	marquee version
package main
