// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/marquee/lib/codec"
	"github.com/bureau-foundation/marquee/lib/testutil"
)

// sendRequest connects to socketPath, writes request, and returns the
// decoded response envelope.
func sendRequest(t *testing.T, socketPath string, request any) Response {
	t.Helper()

	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to socket: %v", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		t.Fatalf("writing request: %v", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	var response Response
	if err := codec.NewDecoder(conn).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return response
}

// startServer runs server.Serve until the test ends and waits for the
// socket to be listening.
func startServer(t *testing.T, server *SocketServer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	var serveErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr = server.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
		if serveErr != nil {
			t.Errorf("Serve returned error: %v", serveErr)
		}
	})

	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "control socket ready")
}

func newTestServer(t *testing.T) *SocketServer {
	t.Helper()
	return NewSocketServer(filepath.Join(testutil.SocketDir(t), "control.sock"), nil)
}

func TestSocketServerDispatch(t *testing.T) {
	server := newTestServer(t)
	server.Handle("set-font-size", func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Size float64 `cbor:"size"`
		}
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, err
		}
		return map[string]any{"applied": request.Size}, nil
	})
	startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]any{
		"action": "set-font-size",
		"size":   32.5,
	})
	if !response.OK {
		t.Fatalf("expected ok=true, got error %q", response.Error)
	}

	var data struct {
		Applied float64 `cbor:"applied"`
	}
	if err := codec.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if data.Applied != 32.5 {
		t.Errorf("applied = %v, want 32.5", data.Applied)
	}
}

func TestSocketServerNilResult(t *testing.T) {
	server := newTestServer(t)
	server.Handle("stop", func(ctx context.Context, raw []byte) (any, error) {
		return nil, nil
	})
	startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]any{"action": "stop"})
	if !response.OK {
		t.Fatalf("expected ok=true, got error %q", response.Error)
	}
	if len(response.Data) != 0 {
		t.Errorf("expected no data, got %d bytes", len(response.Data))
	}
}

func TestSocketServerErrors(t *testing.T) {
	server := newTestServer(t)
	server.Handle("start", func(ctx context.Context, raw []byte) (any, error) {
		return nil, errors.New("invalid port")
	})
	startServer(t, server)

	tests := []struct {
		name    string
		request any
		want    string
	}{
		{"unknown action", map[string]any{"action": "explode"}, `unknown action "explode"`},
		{"missing action", map[string]any{"port": 8080}, "missing required field: action"},
		{"handler error", map[string]any{"action": "start", "port": 80}, "invalid port"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := sendRequest(t, server.SocketPath(), test.request)
			if response.OK {
				t.Fatal("expected ok=false")
			}
			if response.Error != test.want {
				t.Errorf("error = %q, want %q", response.Error, test.want)
			}
		})
	}
}

func TestSocketServerDuplicateHandlerPanics(t *testing.T) {
	server := newTestServer(t)
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })
}

func TestSocketServerRecoversHandlerPanic(t *testing.T) {
	server := newTestServer(t)
	server.Handle("set-text", func(context.Context, []byte) (any, error) {
		panic("boom")
	})
	server.Handle("status", func(context.Context, []byte) (any, error) {
		return map[string]string{"status": "Stopped"}, nil
	})
	startServer(t, server)

	response := sendRequest(t, server.SocketPath(), map[string]any{"action": "set-text"})
	if response.OK {
		t.Fatal("expected ok=false after a panicking handler")
	}
	if response.Error != "internal: action set-text failed" {
		t.Errorf("error = %q", response.Error)
	}

	// The server keeps serving.
	if response := sendRequest(t, server.SocketPath(), map[string]any{"action": "status"}); !response.OK {
		t.Errorf("status after panic: %q", response.Error)
	}
}

func TestSocketServerRestrictsSocket(t *testing.T) {
	server := newTestServer(t)
	startServer(t, server)

	info, err := os.Stat(server.SocketPath())
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("socket mode = %o, want 600", mode)
	}
}

func TestSocketServerIgnoresProbe(t *testing.T) {
	server := newTestServer(t)
	startServer(t, server)

	conn, err := net.DialTimeout("unix", server.SocketPath(), 5*time.Second)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer conn.Close()
	conn.(*net.UnixConn).CloseWrite()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	n, err := conn.Read(make([]byte, 1))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("probe read = (%d, %v), want (0, EOF)", n, err)
	}
}
