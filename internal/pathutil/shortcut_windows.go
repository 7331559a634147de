//go:build windows

package pathutil

import (
	"fmt"
	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"runtime"
)

// resolveShortcut reads the target of a .lnk file through WScript.Shell.
func resolveShortcut(path string) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED|ole.COINIT_SPEED_OVER_MEMORY); err != nil {
		oleErr, ok := err.(*ole.OleError)
		// S_FALSE: already initialized on this thread
		if !ok || oleErr.Code() != 1 {
			return "", fmt.Errorf("failed to initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return "", fmt.Errorf("failed to create WScript.Shell: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", err
	}
	defer shell.Release()

	shortcut, err := oleutil.CallMethod(shell, "CreateShortcut", path)
	if err != nil {
		return "", fmt.Errorf("failed to open shortcut %s: %w", path, err)
	}
	link := shortcut.ToIDispatch()
	defer link.Release()

	target, err := oleutil.GetProperty(link, "TargetPath")
	if err != nil {
		return "", err
	}
	defer target.Clear()

	return target.ToString(), nil
}
