// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// quietCloses are the ways a peer ends a connection that are not worth
// an error log. A sender that full-closes instead of half-closing
// shows up as ECONNRESET or EPIPE rather than EOF.
var quietCloses = []error{
	io.EOF,
	net.ErrClosed,
	syscall.ECONNRESET,
	syscall.EPIPE,
}

// IsExpectedCloseError reports whether err is an ordinary end of
// connection.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	for _, quiet := range quietCloses {
		if errors.Is(err, quiet) {
			return true
		}
	}
	return false
}

// IsTimeout reports whether err comes from an expired I/O deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
