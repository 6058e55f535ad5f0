// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"errors"
	"fmt"
)

// ErrInvalidPort is returned by Start for a port outside
// [MinPort, MaxPort]. No socket is opened.
var ErrInvalidPort = errors.New("invalid port")

// ErrBindFailure matches every *BindError.
var ErrBindFailure = errors.New("bind failure")

// BindError reports that the listening socket could not be opened,
// usually because the port is in use or privileged.
type BindError struct {
	Port int
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("binding port %d: %v", e.Port, e.Err)
}

// Unwrap exposes both ErrBindFailure and the underlying socket error
// to errors.Is and errors.As.
func (e *BindError) Unwrap() []error {
	return []error{ErrBindFailure, e.Err}
}
