package apps

import (
	"appgate/internal/pathutil"
	"context"
	"path/filepath"
)

// uninstallEntry holds the values read from one Uninstall registry subkey.
type uninstallEntry struct {
	DisplayName     string
	DisplayIcon     string
	UninstallString string
	InstallLocation string
}

// executable picks the binary an uninstall entry refers to: DisplayIcon, then
// UninstallString, then <InstallLocation>\<DisplayName>.exe, then a search of
// InstallLocation. An empty result means the entry is not reported.
func (e uninstallEntry) executable(ctx context.Context) string {
	if e.DisplayName == "" {
		return ""
	}

	var candidate string
	if e.DisplayIcon != "" {
		candidate = pathutil.Normalize(e.DisplayIcon)
	}
	if candidate == "" && e.UninstallString != "" {
		candidate = pathutil.Normalize(e.UninstallString)
	}
	if candidate != "" && !pathutil.IsExe(candidate) {
		candidate = ""
	}

	if candidate == "" && e.InstallLocation != "" {
		dir := pathutil.Normalize(e.InstallLocation)
		if guess := filepath.Join(dir, e.DisplayName+".exe"); fileExists(guess) {
			candidate = guess
		} else {
			candidate = findExe(ctx, dir, e.DisplayName)
		}
	}

	if candidate == "" || !fileExists(candidate) {
		return ""
	}
	return candidate
}
