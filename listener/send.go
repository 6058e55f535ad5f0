// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultSendTimeout bounds Send when ctx carries no deadline.
const DefaultSendTimeout = 10 * time.Second

// Send delivers text to the listener at address as one message: it
// writes text as UTF-16BE without a byte order mark, half-closes the
// connection to end the message, and waits for the listener to close
// its side. A nil return means the listener read the whole message.
func Send(ctx context.Context, address, text string) error {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultSendTimeout)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", address, err)
	}
	defer conn.Close()
	conn.SetDeadline(deadline)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	writer := transform.NewWriter(conn, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder())
	if _, err := io.WriteString(writer, text); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return fmt.Errorf("ending message: %w", err)
		}
	}

	if _, err := io.Copy(io.Discard, conn); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("waiting for %s to close the connection: %w", address, err)
	}
	return nil
}
