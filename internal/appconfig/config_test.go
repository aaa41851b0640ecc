package appconfig

import (
	"strings"
	"testing"
)

func TestDefaultConfigRunnerBinary(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Runner.Binary != "elizaos" {
		t.Fatalf("expected elizaos binary, got %q", cfg.Runner.Binary)
	}
	if !strings.HasSuffix(cfg.Sandbox.Path, "sandbox.json") {
		t.Fatalf("expected sandbox.json path, got %q", cfg.Sandbox.Path)
	}
}
