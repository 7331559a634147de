//go:build !windows

package apps

import "appgate/internal/config"

func DefaultRoots() []string {
	return nil
}

func platformSources(config.ScanConfig) []Source {
	return nil
}
