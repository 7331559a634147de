package apps

import (
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"bufio"
	"bytes"
	"context"
	"strings"
)

const appxScript = "$ErrorActionPreference='SilentlyContinue'; Get-AppxPackage | ForEach-Object { $_.Name + '|' + $_.InstallLocation }"

// parseAppxPackages reads "Name|InstallLocation" lines. Packages whose
// location does not exist are dropped. The reported path is the package's
// main executable when one can be found, otherwise the install location.
func parseAppxPackages(ctx context.Context, output []byte) []types.ApplicationInfo {
	result := make([]types.ApplicationInfo, 0)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		name, location, ok := strings.Cut(strings.TrimRight(scanner.Text(), "\r\n"), "|")
		if !ok || location == "" || !dirExists(location) {
			continue
		}

		exePath := location
		if exe := findExe(ctx, location, packageStem(name)); exe != "" {
			exePath = exe
		}
		result = append(result, types.ApplicationInfo{
			Name:     name,
			ExePath:  exePath,
			Source:   types.SourceUWP,
			Packaged: true,
		})
	}
	return result
}

// packageStem turns "Microsoft.WindowsCalculator" into "WindowsCalculator".
func packageStem(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return pathutil.Stem(name)
}
