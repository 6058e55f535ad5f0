// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds small networking helpers shared by the
// message listener and its tests: classifying connection errors and
// finding the address to advertise to senders.
package netutil
