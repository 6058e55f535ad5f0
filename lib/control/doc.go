// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package control defines the wire vocabulary of the marqueed control
// socket: action names, request payloads, and the status response
// every successful action returns.
//
// Requests travel as CBOR maps with an "action" key plus the fields of
// the action's request type (see [lib/service]). Request fields are
// pointers so the daemon can tell a missing field from a zero value.
package control
