//go:build windows

package apps

import (
	"appgate/internal/types"
	"context"
	"golang.org/x/sys/windows/registry"
)

const uninstallPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

var uninstallKeys = []struct {
	root registry.Key
	path string
}{
	{root: registry.LOCAL_MACHINE, path: uninstallPath},
	{root: registry.LOCAL_MACHINE, path: `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{root: registry.CURRENT_USER, path: uninstallPath},
}

type registrySource struct{}

func NewRegistrySource() Source {
	return registrySource{}
}

func (registrySource) Kind() types.AppSource {
	return types.SourceRegistry
}

func (registrySource) Scan(ctx context.Context) ([]types.ApplicationInfo, error) {
	result := make([]types.ApplicationInfo, 0)
	for _, k := range uninstallKeys {
		entries, err := readUninstallKey(k.root, k.path)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if exe := entry.executable(ctx); exe != "" {
				result = append(result, types.ApplicationInfo{
					Name:    entry.DisplayName,
					ExePath: exe,
					Source:  types.SourceRegistry,
				})
			}
		}
	}
	return result, nil
}

func readUninstallKey(root registry.Key, path string) ([]uninstallEntry, error) {
	key, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}

	entries := make([]uninstallEntry, 0, len(names))
	for _, name := range names {
		app, err := registry.OpenKey(key, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		entries = append(entries, uninstallEntry{
			DisplayName:     stringValue(app, "DisplayName"),
			DisplayIcon:     stringValue(app, "DisplayIcon"),
			UninstallString: stringValue(app, "UninstallString"),
			InstallLocation: stringValue(app, "InstallLocation"),
		})
		app.Close()
	}
	return entries, nil
}

func stringValue(key registry.Key, name string) string {
	v, _, err := key.GetStringValue(name)
	if err != nil {
		return ""
	}
	return v
}
