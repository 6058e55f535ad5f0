// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net"
	"time"

	"github.com/bureau-foundation/marquee/lib/codec"
)

const (
	// defaultCallTimeout applies when the caller's context carries no
	// deadline of its own.
	defaultCallTimeout = 30 * time.Second

	maxResponseSize = 256 * 1024
)

// ServiceError is the daemon's refusal of a request: the response
// arrived and said ok=false.
type ServiceError struct {
	Action  string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Action + ": " + e.Message
}

// Client calls actions on a daemon's control socket, dialing once per
// call.
type Client struct {
	path string
}

// NewClient returns a client for the socket at path. Nothing is dialed
// until Call.
func NewClient(path string) *Client {
	return &Client{path: path}
}

// Call sends action together with fields and waits for the answer.
// When result is non-nil and the daemon returned data, the data is
// decoded into result.
//
// A refusal by the daemon is a *ServiceError. Failing to reach the
// daemon or to parse its answer is any other error.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}

	request := maps.Clone(fields)
	if request == nil {
		request = make(map[string]any, 1)
	}
	request["action"] = action

	response, err := c.roundTrip(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.path, err)
	}
	if !response.OK {
		return &ServiceError{Action: action, Message: response.Error}
	}
	if result == nil || len(response.Data) == 0 {
		return nil
	}
	if err := codec.Unmarshal(response.Data, result); err != nil {
		return fmt.Errorf("decoding %q result: %w", action, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, request map[string]any) (Response, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return Response{}, fmt.Errorf("writing request: %w", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, fmt.Errorf("reading response: %w", err)
	}
	return response, nil
}
