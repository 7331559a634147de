package apps

import (
	"appgate/internal/process"
	"appgate/internal/types"
	"context"
)

type processSource struct {
	list func(ctx context.Context) ([]types.ProcessInfo, error)
}

// NewProcessSource reports the executables of running processes.
func NewProcessSource() Source {
	return &processSource{list: process.Executables}
}

func (s *processSource) Kind() types.AppSource {
	return types.SourceProcess
}

func (s *processSource) Scan(ctx context.Context) ([]types.ApplicationInfo, error) {
	running, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]types.ApplicationInfo, 0, len(running))
	for _, p := range running {
		result = append(result, types.ApplicationInfo{
			Name:    appName(p.Path),
			ExePath: p.Path,
			Source:  types.SourceProcess,
		})
	}
	return result, nil
}
