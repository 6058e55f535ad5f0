// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package listener accepts text messages over TCP.
//
// The wire protocol is deliberately minimal: a sender connects, writes
// UTF-16BE text, and closes its write side. One connection carries
// exactly one message and receives no response. The message is the
// sender's lines, each cleaned of decoding-failure markers and
// surrounding whitespace, with blank lines dropped and the rest joined
// by "\n".
//
// Connections are served one at a time on the accept goroutine. A
// connection that stays silent for the idle timeout (10 seconds by
// default) is closed and its partial message discarded, as is any
// connection that ends in a reset or read error. Only a clean EOF
// delivers.
//
// A [Listener] exists only while running: [Start] binds and launches
// the accept loop, [Listener.Stop] tears it down. An accept failure
// that Stop did not cause is fatal to the Listener and is reported
// through [Config.OnFatal].
package listener
