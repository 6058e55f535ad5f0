// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// marqueed is the overlay daemon. It owns the display state, shows it
// on a render target, accepts messages from the network, and takes
// settings changes over a control socket.
//
// Components:
//
//   - Listener: TCP, one UTF-16BE message per connection. Started at
//     boot when listener.autostart is set, otherwise by a "start"
//     control request.
//   - Synchronizer: the single owner of overlay state and the only
//     writer of the settings database.
//   - Display: a full-screen terminal panel (display.mode: terminal)
//     or a log of render commands (display.mode: log). In terminal
//     mode the unlocked overlay can be dragged with the mouse.
//   - Control socket: CBOR request/response on a Unix socket, used by
//     the marquee CLI.
//
// Usage:
//
//	marqueed [--config FILE] [--port N] [--autostart] [--display terminal|log]
package main
