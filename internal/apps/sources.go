package apps

import (
	"appgate/internal/config"
)

// SourcesFromConfig returns the sources enabled in cfg. Registry and UWP
// sources only exist on Windows.
func SourcesFromConfig(cfg config.ScanConfig) []Source {
	sources := platformSources(cfg)

	if cfg.Filesystem {
		roots := cfg.Roots
		if len(roots) == 0 {
			roots = DefaultRoots()
		}
		sources = append(sources, NewFilesystemSource(roots))
	}
	if cfg.Processes {
		sources = append(sources, NewProcessSource())
	}
	return sources
}
