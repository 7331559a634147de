// Package elevate detects administrator rights and re-launches the program
// with them.
package elevate

import (
	"errors"
	"strings"
)

const Flag = "elevate"

var ErrElevationFailed = errors.New("elevation failed or was cancelled")

// RelaunchArgs drops the --elevate flag so the elevated copy does not try to
// elevate again.
func RelaunchArgs(args []string) []string {
	result := make([]string, 0, len(args))
	for _, arg := range args {
		name := strings.TrimLeft(arg, "-")
		if strings.HasPrefix(arg, "-") && (name == Flag || strings.HasPrefix(name, Flag+"=")) {
			continue
		}
		result = append(result, arg)
	}
	return result
}
