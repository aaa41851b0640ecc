package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/termdeck/schema"
)

// expandHome replaces a leading ~ with the user home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// resolveRunDir expands dir and falls back to the user home when the
// directory does not exist, so a stale spec never blocks a run.
func resolveRunDir(dir string) string {
	dir = expandHome(dir)
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// resolveSessionDir expands dir and requires an existing directory.
func resolveSessionDir(dir string) (string, error) {
	dir = expandHome(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", schema.ErrInvalidWorkingDir, dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", schema.ErrInvalidWorkingDir, dir)
	}
	return dir, nil
}
