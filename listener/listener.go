// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/marquee/lib/clock"
	"github.com/bureau-foundation/marquee/lib/netutil"
)

// Port bounds accepted by Start.
const (
	MinPort = 1024
	MaxPort = 65535
)

// DefaultIdleTimeout is how long a connection may go without
// receiving data before it is closed.
const DefaultIdleTimeout = 10 * time.Second

// Config holds the parameters for Start.
type Config struct {
	// Port is the TCP port to listen on, in [MinPort, MaxPort].
	Port int

	// Host is the address to bind. Empty binds every interface.
	Host string

	// AdvertisedAddress is the IPv4 address reported in the running
	// status. Empty uses netutil.AdvertisedAddress.
	AdvertisedAddress string

	// IdleTimeout closes a connection that receives nothing for this
	// long. Zero uses DefaultIdleTimeout.
	IdleTimeout time.Duration

	// Deliver receives each completed, non-empty message. Called on
	// the accept goroutine; no further connection is accepted until it
	// returns.
	Deliver func(message string)

	// OnStatus, if set, receives every status string change,
	// including the "invalid port" and bind error statuses Start
	// reports before returning an error.
	OnStatus func(status string)

	// OnFatal, if set, is called once when the accept loop fails for
	// a reason other than Stop. The Listener is no longer running.
	OnFatal func(err error)

	// Clock drives the idle watchdog. Nil uses the real clock.
	Clock clock.Clock

	// Logger receives connection diagnostics. Nil discards.
	Logger *slog.Logger
}

// Listener accepts one connection at a time and delivers one message
// per connection. Created by Start; finished by Stop or by an accept
// failure.
type Listener struct {
	config      Config
	clock       clock.Clock
	logger      *slog.Logger
	idleTimeout time.Duration
	netListener net.Listener
	port        uint16
	address     string

	mu       sync.Mutex
	running  bool
	status   string
	stopping bool
	active   net.Conn

	stopOnce sync.Once
	done     chan struct{}
}

// ValidatePort returns ErrInvalidPort unless port is in
// [MinPort, MaxPort].
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPort, port, MinPort, MaxPort)
	}
	return nil
}

// Start validates the port, binds the listening socket, and starts the
// accept loop on its own goroutine. The Listener stops when ctx is
// cancelled or Stop is called.
//
// An invalid port returns an error matching ErrInvalidPort; a bind
// failure returns a *BindError. In both cases no goroutine is left
// running and the failure status is reported through cfg.OnStatus.
func Start(ctx context.Context, cfg Config) (*Listener, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := ValidatePort(cfg.Port); err != nil {
		logger.Warn("refusing to start listener", "port", cfg.Port, "error", err)
		notifyStatus(cfg, StatusInvalidPort)
		return nil, err
	}

	var listenConfig net.ListenConfig
	netListener, err := listenConfig.Listen(ctx, "tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		bindErr := &BindError{Port: cfg.Port, Err: err}
		logger.Error("listener bind failed", "port", cfg.Port, "error", err)
		notifyStatus(cfg, ErrorStatus(bindErr))
		return nil, bindErr
	}

	listenerClock := cfg.Clock
	if listenerClock == nil {
		listenerClock = clock.Real()
	}
	idleTimeout := cfg.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	address := cfg.AdvertisedAddress
	if address == "" {
		address = netutil.AdvertisedAddress()
	}

	l := &Listener{
		config:      cfg,
		clock:       listenerClock,
		logger:      logger.With("port", cfg.Port),
		idleTimeout: idleTimeout,
		netListener: netListener,
		port:        uint16(cfg.Port),
		address:     address,
		done:        make(chan struct{}),
	}
	l.setStatus(true, RunningStatus(address, l.port))
	l.logger.Info("listener started",
		"address", address,
		"bind", netListener.Addr().String(),
		"idle_timeout", idleTimeout,
	)

	go l.acceptLoop()
	go func() {
		select {
		case <-ctx.Done():
			l.Stop()
		case <-l.done:
		}
	}()

	return l, nil
}

// Stop closes the listening socket and any active connection, waits
// for the accept goroutine to exit, and reports "not running". Safe to
// call more than once and from multiple goroutines.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopping = true
		active := l.active
		l.mu.Unlock()

		l.netListener.Close()
		if active != nil {
			active.Close()
		}
		<-l.done

		l.setStatus(false, StatusNotRunning)
		l.logger.Info("listener stopped")
	})
	<-l.done
}

// Status returns the current status string.
func (l *Listener) Status() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// State returns the current ServerState.
func (l *Listener) State() ServerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ServerState{Running: l.running, Port: l.port, Address: l.address}
}

// Addr returns the bound socket address.
func (l *Listener) Addr() net.Addr {
	return l.netListener.Addr()
}

// Done is closed when the accept loop has exited, whether through
// Stop, ctx cancellation, or an accept failure.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) acceptLoop() {
	err := l.acceptConnections()
	if err == nil {
		close(l.done)
		return
	}
	l.netListener.Close()
	l.logger.Error("listener accept failed", "error", err)
	l.setStatus(false, ErrorStatus(err))
	close(l.done)
	// OnFatal may call Stop, which waits on done.
	if l.config.OnFatal != nil {
		l.config.OnFatal(fmt.Errorf("accepting connections on port %d: %w", l.port, err))
	}
}

// acceptConnections serves connections until the listening socket
// fails. Returns nil when the failure was caused by Stop.
func (l *Listener) acceptConnections() error {
	for {
		conn, err := l.netListener.Accept()
		if err != nil {
			if l.isStopping() {
				return nil
			}
			return err
		}
		l.serve(conn)
	}
}

// serve reads one message from conn and delivers it if the sender
// finished cleanly.
func (l *Listener) serve(conn net.Conn) {
	logger := l.logger.With(
		"connection_id", uuid.NewString(),
		"remote", conn.RemoteAddr().String(),
	)

	if !l.setActive(conn) {
		conn.Close()
		return
	}
	defer func() {
		l.setActive(nil)
		conn.Close()
	}()

	logger.Debug("connection accepted")

	var timedOut atomic.Bool
	watchdog := l.clock.AfterFunc(l.idleTimeout, func() {
		timedOut.Store(true)
		conn.Close()
	})
	defer watchdog.Stop()

	message, err := readMessage(&idleReader{
		reader:  conn,
		timer:   watchdog,
		timeout: l.idleTimeout,
	})

	switch {
	case err == nil:
		if message == "" {
			logger.Debug("connection closed without a message")
			return
		}
		logger.Debug("message received", "characters", len([]rune(message)))
		if l.config.Deliver != nil {
			l.config.Deliver(message)
		}
	case timedOut.Load():
		logger.Debug("connection idle timeout, partial message discarded", "idle_timeout", l.idleTimeout)
	case l.isStopping():
		logger.Debug("connection closed by stop, partial message discarded")
	case netutil.IsExpectedCloseError(err), netutil.IsTimeout(err):
		logger.Debug("sender disconnected, partial message discarded", "error", err)
	default:
		logger.Warn("connection read failed, partial message discarded", "error", err)
	}
}

// setActive records the connection being served so Stop can close it.
// Returns false if Stop has already begun.
func (l *Listener) setActive(conn net.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if conn != nil && l.stopping {
		return false
	}
	l.active = conn
	return true
}

func (l *Listener) isStopping() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopping
}

func (l *Listener) setStatus(running bool, status string) {
	l.mu.Lock()
	changed := l.status != status
	l.running = running
	l.status = status
	l.mu.Unlock()
	if changed {
		notifyStatus(l.config, status)
	}
}

func notifyStatus(cfg Config, status string) {
	if cfg.OnStatus != nil {
		cfg.OnStatus(status)
	}
}

// idleReader re-arms the idle watchdog after every read that returns
// data.
type idleReader struct {
	reader  io.Reader
	timer   clock.Timer
	timeout time.Duration
}

func (r *idleReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.timer.Reset(r.timeout)
	}
	return n, err
}

