//go:build windows

package apps

import (
	"appgate/internal/types"
	"context"
	"github.com/pkg/errors"
	"os/exec"
	"syscall"
)

type uwpSource struct{}

func NewUWPSource() Source {
	return uwpSource{}
}

func (uwpSource) Kind() types.AppSource {
	return types.SourceUWP
}

func (uwpSource) Scan(ctx context.Context) ([]types.ApplicationInfo, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", appxScript)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(err, "Get-AppxPackage failed")
	}
	return parseAppxPackages(ctx, output), nil
}
