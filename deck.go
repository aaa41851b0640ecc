// Package termdeck composes the configuration, sandbox provider, process
// runner, event bus, and core service behind a single handle.
package termdeck

import (
	"context"
	"fmt"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/core"
	"pkt.systems/termdeck/internal/appconfig"
	"pkt.systems/termdeck/internal/eventbus"
	"pkt.systems/termdeck/internal/procrunner"
	"pkt.systems/termdeck/internal/sandbox"
)

// Deck is an opened termdeck instance.
type Deck struct {
	Config  appconfig.Config
	Service core.Service
	Bus     *eventbus.Bus

	sandbox *sandbox.Provider
}

// Options configures Open.
type Options struct {
	// ConfigPath overrides the default config location.
	ConfigPath string
	// Logger defaults to the context logger.
	Logger pslog.Logger
	// Runner overrides the host process runner.
	Runner core.Runner
	// ExtraSinks receive events in addition to the bus.
	ExtraSinks []core.EventSink
}

// Open loads configuration and wires the service stack. A missing sandbox
// file is tolerated; the watcher picks it up when it appears.
func Open(ctx context.Context, opts Options) (*Deck, error) {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}

	cfg, err := appconfig.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	provider := sandbox.New(cfg.Sandbox.Path, logger)
	if err := provider.Load(); err != nil {
		logger.Warn("sandbox config unavailable", "path", cfg.Sandbox.Path, "err", err)
	}
	if err := provider.Watch(); err != nil {
		logger.Warn("sandbox config watch unavailable", "path", cfg.Sandbox.Path, "err", err)
	}

	runner := opts.Runner
	if runner == nil {
		extraEnv := make([]string, 0, len(cfg.Runner.Env))
		for key, value := range cfg.Runner.Env {
			extraEnv = append(extraEnv, fmt.Sprintf("%s=%s", key, value))
		}
		runner = procrunner.New(procrunner.Config{ExtraEnv: extraEnv})
	}

	bus := eventbus.New(logger)
	sinks := make([]core.EventSink, 0, 1+len(opts.ExtraSinks))
	sinks = append(sinks, bus)
	sinks = append(sinks, opts.ExtraSinks...)
	var sink core.EventSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else {
		sink = eventFanout{sinks: sinks}
	}

	service, err := core.NewService(cfg.ServiceConfig(), core.ServiceDeps{
		Runner:    runner,
		Sandbox:   provider,
		EventSink: sink,
		Logger:    logger,
	})
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	return &Deck{
		Config:  cfg,
		Service: service,
		Bus:     bus,
		sandbox: provider,
	}, nil
}

// Close tears the stack down, killing any running processes.
func (d *Deck) Close(ctx context.Context) error {
	err := d.Service.Close(ctx)
	if cerr := d.sandbox.Close(); err == nil {
		err = cerr
	}
	return err
}
