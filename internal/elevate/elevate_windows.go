//go:build windows

package elevate

import (
	"fmt"
	"golang.org/x/sys/windows"
	"os"
)

// IsAdmin reports whether the process token is a member of the local
// Administrators group.
func IsAdmin() bool {
	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false
	}
	return member
}

// RunAsAdmin starts a new copy of the executable through the UAC "runas"
// verb. The caller is expected to exit once it returns nil.
func RunAsAdmin(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	params, _ := windows.UTF16PtrFromString(windows.ComposeCommandLine(RelaunchArgs(args)))
	cwd, _ := windows.UTF16PtrFromString("")

	if err := windows.ShellExecute(0, verb, file, params, cwd, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("%w: %w", ErrElevationFailed, err)
	}
	return nil
}
