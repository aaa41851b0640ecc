// Package sandbox loads the backend sandbox settings from a JSON file
// and keeps them fresh while the file changes on disk.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"

	"pkt.systems/termdeck/schema"
)

// Provider serves the current sandbox configuration. A missing file is
// not an error; Current simply reports no configuration.
type Provider struct {
	path string
	log  pslog.Logger

	mu     sync.Mutex
	cfg    schema.SandboxConfig
	loaded bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New constructs a provider for the given file path.
func New(path string, logger pslog.Logger) *Provider {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Provider{path: path, log: logger}
}

// Load reads and validates the file. A missing file clears the stored
// configuration and returns nil.
func (p *Provider) Load() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.mu.Lock()
			p.cfg = schema.SandboxConfig{}
			p.loaded = false
			p.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read sandbox config: %w", err)
	}
	var cfg schema.SandboxConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse sandbox config %s: %w", p.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("sandbox config %s: %w", p.path, err)
	}
	p.mu.Lock()
	p.cfg = cfg
	p.loaded = !cfg.IsZero()
	p.mu.Unlock()
	p.log.Debug("sandbox config loaded", "path", p.path, "config", cfg.Redacted())
	return nil
}

// Current returns the last loaded configuration and whether one is set.
func (p *Provider) Current() (schema.SandboxConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg, p.loaded
}

// Watch reloads the configuration whenever the file is written. The
// parent directory is watched so the file may appear after startup.
func (p *Provider) Watch() error {
	if p.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("sandbox watcher: %w", err)
	}
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	p.watcher = watcher
	p.done = make(chan struct{})
	go p.watch()
	return nil
}

func (p *Provider) watch() {
	defer close(p.done)
	base := filepath.Base(p.path)
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := p.Load(); err != nil {
				p.log.Warn("sandbox config reload failed", "path", p.path, "err", err)
				continue
			}
			cfg, ok := p.Current()
			if ok {
				p.log.Info("sandbox config reloaded", "config", cfg.Redacted())
			} else {
				p.log.Info("sandbox config cleared", "path", p.path)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn("sandbox watcher error", "err", err)
		}
	}
}

// Close stops the watcher, if one is running.
func (p *Provider) Close() error {
	if p.watcher == nil {
		return nil
	}
	err := p.watcher.Close()
	<-p.done
	p.watcher = nil
	return err
}
