package apps

import (
	"appgate/internal/config"
	"appgate/internal/types"
	"context"
	"errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

type staticSource struct {
	kind  types.AppSource
	found []types.ApplicationInfo
	err   error
}

func (s staticSource) Kind() types.AppSource { return s.kind }

func (s staticSource) Scan(context.Context) ([]types.ApplicationInfo, error) {
	return s.found, s.err
}

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))
	return path
}

func TestMerge_PriorityAndOrder(t *testing.T) {
	found := []types.ApplicationInfo{
		{Name: "zoom", ExePath: `C:\Zoom\zoom.exe`, Source: types.SourceProcess},
		{Name: "Calculator", ExePath: `C:\WindowsApps\calc.exe`, Source: types.SourceFilesystem},
		{Name: "Zoom Workplace", ExePath: `c:\zoom\ZOOM.exe`, Source: types.SourceRegistry},
		{Name: "Microsoft.WindowsCalculator", ExePath: `C:\WindowsApps\Calc.exe`, Source: types.SourceUWP, Packaged: true},
		{Name: "Zoom", ExePath: `C:\Zoom\zoom.exe`, Source: types.SourceFilesystem},
		{Name: "app", ExePath: `C:\Apps\app.exe`, Source: types.SourceProcess},
	}

	merged := Merge(found)
	require.Len(t, merged, 3)

	assert.Equal(t, `C:\Apps\app.exe`, merged[0].ExePath)

	assert.Equal(t, types.SourceUWP, merged[1].Source)
	assert.True(t, merged[1].Packaged)

	assert.Equal(t, types.SourceRegistry, merged[2].Source)
	assert.Equal(t, "Zoom Workplace", merged[2].Name)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	found := []types.ApplicationInfo{
		{ExePath: `C:\b.exe`, Source: types.SourceProcess},
		{ExePath: `C:\a.exe`, Source: types.SourceProcess},
	}

	_ = Merge(found)
	assert.Equal(t, `C:\b.exe`, found[0].ExePath)
}

func TestEnumerate_SkipsFailingSource(t *testing.T) {
	e := NewEnumerator(nil,
		staticSource{kind: types.SourceRegistry, err: errors.New("access denied")},
		staticSource{kind: types.SourceFilesystem, found: []types.ApplicationInfo{
			{Name: "tool", ExePath: `C:\Tools\tool.exe`, Source: types.SourceFilesystem},
		}},
		staticSource{kind: types.SourceProcess, found: []types.ApplicationInfo{
			{Name: "tool", ExePath: `C:\TOOLS\tool.exe`, Source: types.SourceProcess},
			{Name: "other", ExePath: `C:\Other\other.exe`, Source: types.SourceProcess},
		}},
	)

	found, err := e.Enumerate(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, types.SourceProcess, found[0].Source)
	assert.Equal(t, types.SourceFilesystem, found[1].Source)
}

func TestEnumerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEnumerator(nil, staticSource{kind: types.SourceProcess}).Enumerate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilesystemSource_Scan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Editor", "editor.exe"))
	touch(t, filepath.Join(root, "Editor", "bin", "Helper.EXE"))
	touch(t, filepath.Join(root, "Editor", "readme.txt"))
	touch(t, filepath.Join(root, "setup.exe.config"))

	found, err := NewFilesystemSource([]string{root, filepath.Join(root, "missing")}).Scan(context.Background())
	require.NoError(t, err)

	names := lo.Map(found, func(app types.ApplicationInfo, _ int) string { return app.Name })
	assert.ElementsMatch(t, []string{"editor", "Helper"}, names)
	for _, app := range found {
		assert.Equal(t, types.SourceFilesystem, app.Source)
		assert.False(t, app.Packaged)
	}
}

func TestUninstallEntry_Executable(t *testing.T) {
	dir := t.TempDir()
	icon := touch(t, filepath.Join(dir, "Icon", "app.exe"))
	uninstaller := touch(t, filepath.Join(dir, "Uninst", "uninstall.exe"))
	guessed := touch(t, filepath.Join(dir, "Guess", "Notepad Plus.exe"))
	preferred := touch(t, filepath.Join(dir, "Search", "sub", "player.exe"))
	touch(t, filepath.Join(dir, "Search", "aaa.exe"))
	first := touch(t, filepath.Join(dir, "First", "only.exe"))

	tests := []struct {
		name     string
		entry    uninstallEntry
		expected string
	}{
		{
			name:     "display icon with index",
			entry:    uninstallEntry{DisplayName: "App", DisplayIcon: icon + ",0"},
			expected: icon,
		},
		{
			name:     "quoted uninstall string with arguments",
			entry:    uninstallEntry{DisplayName: "App", UninstallString: `"` + uninstaller + `" /S`},
			expected: uninstaller,
		},
		{
			name:     "non executable icon falls through to install location",
			entry:    uninstallEntry{DisplayName: "Something", DisplayIcon: filepath.Join(dir, "icon.ico"), UninstallString: uninstaller, InstallLocation: filepath.Join(dir, "First")},
			expected: first,
		},
		{
			name:     "display name inside install location",
			entry:    uninstallEntry{DisplayName: "Notepad Plus", InstallLocation: filepath.Join(dir, "Guess")},
			expected: guessed,
		},
		{
			name:     "search prefers display name stem",
			entry:    uninstallEntry{DisplayName: "Player", InstallLocation: filepath.Join(dir, "Search")},
			expected: preferred,
		},
		{
			name:     "search falls back to first executable",
			entry:    uninstallEntry{DisplayName: "Something", InstallLocation: filepath.Join(dir, "First")},
			expected: first,
		},
		{
			name:  "no display name",
			entry: uninstallEntry{DisplayIcon: icon},
		},
		{
			name:  "missing file",
			entry: uninstallEntry{DisplayName: "Gone", DisplayIcon: filepath.Join(dir, "gone.exe")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.entry.executable(context.Background()))
		})
	}
}

func TestParseAppxPackages(t *testing.T) {
	dir := t.TempDir()
	calc := filepath.Join(dir, "Calculator")
	calcExe := touch(t, filepath.Join(calc, "CalculatorApp.exe"))
	touch(t, filepath.Join(calc, "aaa.exe"))
	assets := filepath.Join(dir, "Assets")
	require.NoError(t, os.MkdirAll(assets, 0o755))

	output := []byte("Microsoft.CalculatorApp|" + calc + "\r\n" +
		"Microsoft.Assets|" + assets + "\r\n" +
		"Microsoft.Gone|" + filepath.Join(dir, "gone") + "\r\n" +
		"garbage line\r\n" +
		"Microsoft.Empty|\r\n")

	found := parseAppxPackages(context.Background(), output)
	require.Len(t, found, 2)

	assert.Equal(t, "Microsoft.CalculatorApp", found[0].Name)
	assert.Equal(t, calcExe, found[0].ExePath)
	assert.True(t, found[0].Packaged)
	assert.Equal(t, types.SourceUWP, found[0].Source)

	assert.Equal(t, assets, found[1].ExePath, "packages without an executable report their location")
}

func TestSourcesFromConfig(t *testing.T) {
	sources := SourcesFromConfig(config.ScanConfig{
		Filesystem: true,
		Processes:  true,
		Roots:      []string{t.TempDir()},
	})
	kinds := lo.Map(sources, func(s Source, _ int) types.AppSource { return s.Kind() })
	assert.Equal(t, []types.AppSource{types.SourceFilesystem, types.SourceProcess}, kinds)

	assert.Empty(t, SourcesFromConfig(config.ScanConfig{}))
}
