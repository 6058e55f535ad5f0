// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the marquee command tree.
//
// "send" speaks the listener's TCP wire format directly. The other
// commands talk to a running marqueed over its control socket, found
// through --socket or the control.socket_path of the config file.
package commands
