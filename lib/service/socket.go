// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bureau-foundation/marquee/lib/codec"
)

// ActionFunc handles one action. raw is the whole CBOR request map,
// "action" key included; the handler decodes the fields it needs.
//
// A nil result is answered with {ok: true} and no data. Any other
// result is encoded into the "data" field. A returned error becomes
// {ok: false, error: err.Error()}.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the envelope written back for every request.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

func failure(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

const (
	// requestTimeout bounds the read of a request and, separately,
	// the write of its response.
	requestTimeout = 10 * time.Second

	// maxRequestSize bounds one request. set-text is the largest and
	// its payload is truncated well below this after decoding.
	maxRequestSize = 256 * 1024

	// maxInFlight bounds concurrently served connections. Control
	// traffic comes from one user's CLI invocations, so contention
	// means something is looping.
	maxInFlight = 16

	// socketMode keeps the control socket private to the daemon's
	// user.
	socketMode = 0o600
)

// SocketServer answers control requests on a Unix socket, one request
// and one response per connection.
//
// All Handle calls must happen before Serve.
type SocketServer struct {
	path     string
	actions  map[string]ActionFunc
	logger   *slog.Logger
	inFlight *semaphore.Weighted

	ready     chan struct{}
	readyOnce sync.Once
}

// NewSocketServer returns a server for the socket at path. A nil
// logger discards output.
func NewSocketServer(path string, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SocketServer{
		path:     path,
		actions:  make(map[string]ActionFunc),
		logger:   logger,
		inFlight: semaphore.NewWeighted(maxInFlight),
		ready:    make(chan struct{}),
	}
}

// Handle binds action to handler. Binding the same action twice is a
// programming error and panics.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, taken := s.actions[action]; taken {
		panic(fmt.Sprintf("service: action %q registered twice", action))
	}
	s.actions[action] = handler
}

// Ready is closed when the socket accepts connections.
func (s *SocketServer) Ready() <-chan struct{} {
	return s.ready
}

// SocketPath returns the socket's filesystem path.
func (s *SocketServer) SocketPath() string {
	return s.path
}

// Serve accepts connections until ctx is done. It replaces any stale
// socket file, removes the socket on return, and waits for in-flight
// requests before returning.
func (s *SocketServer) Serve(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale socket %s: %w", s.path, err)
	}
	socket, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.path, err)
	}
	defer os.Remove(s.path)
	if err := os.Chmod(s.path, socketMode); err != nil {
		socket.Close()
		return fmt.Errorf("restricting %s: %w", s.path, err)
	}

	stop := context.AfterFunc(ctx, func() { socket.Close() })
	defer stop()

	s.logger.Info("control socket listening", "path", s.path)
	s.readyOnce.Do(func() { close(s.ready) })

	var served sync.WaitGroup
	defer served.Wait()

	for {
		conn, err := socket.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("control socket accept failed", "error", err)
			continue
		}
		if err := s.inFlight.Acquire(ctx, 1); err != nil {
			conn.Close()
			return nil
		}
		served.Go(func() {
			defer s.inFlight.Release(1)
			defer conn.Close()
			s.serveConn(ctx, conn)
		})
	}
}

func (s *SocketServer) serveConn(ctx context.Context, conn net.Conn) {
	conn.SetReadDeadline(time.Now().Add(requestTimeout))

	var raw codec.RawMessage
	err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&raw)
	if errors.Is(err, io.EOF) {
		// Connect-and-close: a liveness probe.
		return
	}

	var response Response
	if err != nil {
		response = failure("invalid request: %v", err)
	} else {
		response = s.dispatch(ctx, raw)
	}

	conn.SetWriteDeadline(time.Now().Add(requestTimeout))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		s.logger.Debug("control response not delivered", "error", err)
	}
}

// dispatch routes raw to its action and builds the response envelope.
func (s *SocketServer) dispatch(ctx context.Context, raw codec.RawMessage) (response Response) {
	var header struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &header); err != nil {
		return failure("invalid request: %v", err)
	}
	if header.Action == "" {
		return failure("missing required field: action")
	}
	handler, ok := s.actions[header.Action]
	if !ok {
		return failure("unknown action %q", header.Action)
	}

	logger := s.logger.With("action", header.Action, "request_id", uuid.NewString())
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("control action panicked", "panic", recovered)
			response = failure("internal: action %s failed", header.Action)
		}
	}()

	result, err := handler(ctx, raw)
	if err != nil {
		logger.Debug("control action rejected", "error", err)
		return failure("%s", err.Error())
	}
	if result == nil {
		return Response{OK: true}
	}
	data, err := codec.Marshal(result)
	if err != nil {
		return failure("internal: encoding %s result: %v", header.Action, err)
	}
	return Response{OK: true, Data: data}
}
