//go:build windows

package apps

import (
	"appgate/internal/config"
	"os"
	"path/filepath"
)

// DefaultRoots are the directories applications are usually installed under.
func DefaultRoots() []string {
	roots := make([]string, 0, 5)
	for _, v := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		if dir := os.Getenv(v); dir != "" {
			roots = append(roots, dir)
		}
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		roots = append(roots, filepath.Join(local, "Programs"), local)
	}
	if roaming := os.Getenv("APPDATA"); roaming != "" {
		roots = append(roots, roaming)
	}
	return roots
}

func platformSources(cfg config.ScanConfig) []Source {
	sources := make([]Source, 0, 2)
	if cfg.Registry {
		sources = append(sources, NewRegistrySource())
	}
	if cfg.UWP {
		sources = append(sources, NewUWPSource())
	}
	return sources
}
