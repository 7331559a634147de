package apps

import (
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"context"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sort"
)

type (
	// Source reports applications found in one place.
	Source interface {
		Kind() types.AppSource
		Scan(ctx context.Context) ([]types.ApplicationInfo, error)
	}

	Enumerator interface {
		Enumerate(ctx context.Context) ([]types.ApplicationInfo, error)
	}

	enumerator struct {
		sources []Source
		logger  *zap.Logger
	}
)

func NewEnumerator(logger *zap.Logger, sources ...Source) Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &enumerator{sources: sources, logger: logger}
}

// Enumerate scans every source concurrently. A failing source is logged and
// contributes nothing; only cancellation of ctx fails the whole scan.
func (e *enumerator) Enumerate(ctx context.Context) ([]types.ApplicationInfo, error) {
	results := make([][]types.ApplicationInfo, len(e.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range e.sources {
		i, source := i, source
		g.Go(func() error {
			found, err := source.Scan(gctx)
			if err != nil {
				e.logger.Warn("application source failed",
					zap.String("source", string(source.Kind())),
					zap.Error(err))
				return nil
			}
			e.logger.Debug("application source scanned",
				zap.String("source", string(source.Kind())),
				zap.Int("found", len(found)))
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Merge(lo.Flatten(results)), nil
}

// Merge deduplicates by case-insensitive path, keeping the entry from the
// highest ranked source, and orders the result by path.
func Merge(found []types.ApplicationInfo) []types.ApplicationInfo {
	sorted := make([]types.ApplicationInfo, len(found))
	copy(sorted, found)

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := pathutil.Key(sorted[i].ExePath), pathutil.Key(sorted[j].ExePath)
		if ki != kj {
			return ki < kj
		}
		return sorted[i].Source.Rank() > sorted[j].Source.Rank()
	})

	return lo.UniqBy(sorted, func(app types.ApplicationInfo) string {
		return pathutil.Key(app.ExePath)
	})
}
