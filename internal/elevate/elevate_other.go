//go:build !windows

package elevate

import (
	"fmt"
	"os"
)

func IsAdmin() bool {
	return os.Geteuid() == 0
}

func RunAsAdmin([]string) error {
	return fmt.Errorf("%w: UAC is only available on Windows, re-run as root", ErrElevationFailed)
}
