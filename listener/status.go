// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listener

import "fmt"

// Status strings reported through Config.OnStatus and Status.
const (
	StatusNotRunning  = "not running"
	StatusInvalidPort = "invalid port"
)

// RunningStatus is the status of a listener accepting on port, as
// advertised at address.
func RunningStatus(address string, port uint16) string {
	return fmt.Sprintf("running, ip=%s port=%d", address, port)
}

// ErrorStatus is the status after a bind or accept failure.
func ErrorStatus(err error) string {
	return "error: " + err.Error()
}

// ServerState is a point-in-time view of a Listener.
type ServerState struct {
	Running bool   `cbor:"running" json:"running"`
	Port    uint16 `cbor:"port" json:"port"`
	Address string `cbor:"address" json:"address"`
}
