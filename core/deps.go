package core

import (
	"pkt.systems/pslog"

	"pkt.systems/termdeck/schema"
)

// SandboxProvider supplies backend settings for launched runs on demand.
type SandboxProvider interface {
	Current() (schema.SandboxConfig, bool)
}

// ServiceDeps captures optional dependencies for the core service.
type ServiceDeps struct {
	Runner    Runner
	Sandbox   SandboxProvider
	EventSink EventSink
	Logger    pslog.Logger
}
