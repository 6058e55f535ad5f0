// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/marquee/display"
	"github.com/bureau-foundation/marquee/lib/config"
	"github.com/bureau-foundation/marquee/lib/process"
	"github.com/bureau-foundation/marquee/lib/service"
	"github.com/bureau-foundation/marquee/lib/settings"
	"github.com/bureau-foundation/marquee/lib/version"
	"github.com/bureau-foundation/marquee/overlay"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "marqueed: %v\n", err)
		os.Exit(1)
	}
}

// flags are the command-line overrides of the config file. Only flags
// the user actually set override the file.
type flags struct {
	configPath  string
	port        int
	autostart   bool
	storePath   string
	socketPath  string
	displayMode string
	idleTimeout time.Duration
	logLevel    string
	logFile     string
}

func run() error {
	var options flags
	flagSet := pflag.NewFlagSet("marqueed", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "config file (default: $"+config.EnvironmentVariable+")")
	flagSet.IntVar(&options.port, "port", 0, "TCP port for incoming messages")
	flagSet.BoolVar(&options.autostart, "autostart", false, "start the listener immediately")
	flagSet.StringVar(&options.storePath, "store", "", "settings database path")
	flagSet.StringVar(&options.socketPath, "socket", "", "control socket path")
	flagSet.StringVar(&options.displayMode, "display", "", "render target: terminal or log")
	flagSet.DurationVar(&options.idleTimeout, "idle-timeout", 0, "close connections silent for this long")
	flagSet.StringVar(&options.logLevel, "log-level", "", "debug, info, warn, or error")
	flagSet.StringVar(&options.logFile, "log-file", "", "write logs to this file")
	showVersion := flagSet.Bool("version", false, "print version information and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		version.Print("marqueed")
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	cfg, err := config.Load(options.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, flagSet, options)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, stop, cfg, logger)
}

// applyFlags copies the flags the user set over the loaded config.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, options flags) {
	if flagSet.Changed("port") {
		cfg.Listener.Port = options.port
	}
	if flagSet.Changed("autostart") {
		cfg.Listener.AutoStart = options.autostart
	}
	if flagSet.Changed("idle-timeout") {
		cfg.Listener.IdleTimeout = config.Duration(options.idleTimeout)
	}
	if flagSet.Changed("store") {
		cfg.Store.Path = options.storePath
	}
	if flagSet.Changed("socket") {
		cfg.Control.SocketPath = options.socketPath
	}
	if flagSet.Changed("display") {
		cfg.Display.Mode = options.displayMode
	}
	if flagSet.Changed("log-level") {
		cfg.Log.Level = options.logLevel
	}
	if flagSet.Changed("log-file") {
		cfg.Log.File = options.logFile
	}
}

// newLogger builds the daemon logger. In terminal display mode the
// screen belongs to the display, so without a log file the logs are
// discarded.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case cfg.Log.File != "":
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		output = file
		closeLog = func() { file.Close() }
	case cfg.Display.Mode == config.DisplayTerminal:
		output = io.Discard
	}
	return process.NewLogger(output, level), closeLog, nil
}

// serve wires the components and runs them until ctx is cancelled or
// the terminal display is closed.
func serve(ctx context.Context, stop context.CancelFunc, cfg *config.Config, logger *slog.Logger) error {
	store, err := settings.Open(settings.Config{
		Path:   cfg.Store.Path,
		Logger: logger.With("component", "settings"),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	var (
		target   overlay.RenderTarget
		terminal *display.Terminal
	)
	if cfg.Display.Mode == config.DisplayTerminal {
		terminal = display.NewTerminal(ctx, display.TerminalConfig{
			CellWidth:  cfg.Display.CellWidth,
			CellHeight: cfg.Display.CellHeight,
			Profile:    termenv.EnvColorProfile(),
			Logger:     logger.With("component", "display"),
		})
		target = terminal
	} else {
		target = display.NewLog(logger)
	}

	synchronizer, err := overlay.NewSynchronizer(ctx, overlay.SynchronizerConfig{
		Store:  store,
		Target: target,
		Logger: logger.With("component", "synchronizer"),
	})
	if err != nil {
		return err
	}
	controller := overlay.NewPositionController(synchronizer, logger.With("component", "position"))
	if terminal != nil {
		terminal.SetDragHandler(controller)
	}

	daemon := newDaemon(cfg, synchronizer, logger)
	socketServer := service.NewSocketServer(cfg.Control.SocketPath, logger.With("component", "control"))
	daemon.registerActions(socketServer)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return synchronizer.Run(groupCtx)
	})
	group.Go(func() error {
		return socketServer.Serve(groupCtx)
	})
	if terminal != nil {
		group.Go(func() error {
			defer stop()
			return terminal.Run(groupCtx)
		})
	}
	group.Go(func() error {
		surfaceWidth := display.SurfaceWidth(os.Stdout, cfg.Display.CellWidth)
		if err := controller.EnsureDefault(groupCtx, surfaceWidth); err != nil {
			logger.Warn("default overlay position not applied", "error", err)
		}
		if cfg.Listener.AutoStart {
			if err := daemon.startListener(groupCtx, cfg.Listener.Port); err != nil {
				logger.Error("listener autostart failed", "error", err)
			}
		}
		<-groupCtx.Done()
		daemon.stopListener()
		return nil
	})

	logger.Info("marqueed running",
		"version", version.Info(),
		"socket", cfg.Control.SocketPath,
		"store", cfg.Store.Path,
		"display", cfg.Display.Mode,
	)

	err = group.Wait()
	logger.Info("marqueed stopped")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
