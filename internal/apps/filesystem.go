package apps

import (
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

type filesystemSource struct {
	roots []string
}

// NewFilesystemSource walks roots for executables. Unreadable directories
// are skipped.
func NewFilesystemSource(roots []string) Source {
	return &filesystemSource{roots: roots}
}

func (s *filesystemSource) Kind() types.AppSource {
	return types.SourceFilesystem
}

func (s *filesystemSource) Scan(ctx context.Context) ([]types.ApplicationInfo, error) {
	result := make([]types.ApplicationInfo, 0)
	for _, root := range s.roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}

		err := walkExecutables(ctx, root, func(path string) bool {
			result = append(result, types.ApplicationInfo{
				Name:    appName(path),
				ExePath: path,
				Source:  types.SourceFilesystem,
			})
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// walkExecutables calls visit for every .exe under root until visit returns
// false. It only fails when ctx is done.
func walkExecutables(ctx context.Context, root string, visit func(path string) bool) error {
	stopped := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !pathutil.IsExe(path) {
			return nil
		}
		if !visit(path) {
			stopped = true
			return filepath.SkipAll
		}
		return nil
	})
	if stopped {
		return nil
	}
	return err
}

// findExe searches dir for an executable whose stem equals preferred,
// falling back to the first executable found.
func findExe(ctx context.Context, dir, preferred string) string {
	var first, match string
	_ = walkExecutables(ctx, dir, func(path string) bool {
		if preferred != "" && pathutil.Equal(pathutil.Stem(path), preferred) {
			match = path
			return false
		}
		if first == "" {
			first = path
		}
		return true
	})
	if match != "" {
		return match
	}
	return first
}

func appName(path string) string {
	if name := productName(path); name != "" {
		return name
	}
	return pathutil.Stem(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
