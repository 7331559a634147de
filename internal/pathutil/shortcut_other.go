//go:build !windows

package pathutil

import "errors"

func resolveShortcut(path string) (string, error) {
	return "", errors.New("shortcut resolution is only supported on windows")
}
