package main

import (
	"testing"

	"pkt.systems/termdeck/schema"
)

func TestDefaultModeArgs(t *testing.T) {
	tests := []struct {
		name string
		mode schema.RunMode
		want []string
	}{
		{name: "doctor", mode: schema.RunModeDoctor, want: []string{"test", "--type", "component", "--skip-build"}},
		{name: "run", mode: schema.RunModeRun, want: []string{"start"}},
		{name: "eval", mode: schema.RunModeEval, want: []string{"dev"}},
		{name: "custom", mode: schema.RunModeCustom, want: nil},
	}
	for _, tc := range tests {
		got := defaultModeArgs(tc.mode)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: defaultModeArgs length = %d, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: defaultModeArgs[%d] = %q, want %q", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestRootHasRun(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "run" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include run")
	}
}

func TestRootHasExec(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "exec" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include exec")
	}
}

func TestRootHasVersion(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, cmd := range root.Commands() {
		if cmd.Name() == "version" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected root command to include version")
	}
}
