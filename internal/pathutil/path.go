// Package pathutil turns raw user or registry input into executable paths and
// derives the identity strings the firewall keys its rules on.
package pathutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	envToken  = regexp.MustCompile(`%([^%\s]+)%`)
	iconIndex = regexp.MustCompile(`,\s*-?\d+$`)
)

// Resolve normalizes raw input into an absolute executable path. Quotes,
// trailing arguments, icon indexes and %VAR% tokens are removed or expanded
// and shortcut files are followed. The original input is returned when
// nothing usable is left.
func Resolve(raw string) string {
	p := Normalize(raw)
	if p == "" {
		return raw
	}

	if IsShortcut(p) {
		if target, err := resolveShortcut(p); err == nil && target != "" {
			p = Normalize(target)
		}
	}
	return p
}

// Normalize cleans a command line or registry value down to a path without
// touching the filesystem beyond making it absolute.
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}

	p = StripArgs(p)
	p = StripIconIndex(p)
	p = ExpandEnv(p)
	return Abs(p)
}

// StripArgs removes surrounding quotes and any arguments following the
// executable, e.g. `"C:\Program Files\App\app.exe" --update` becomes
// `C:\Program Files\App\app.exe`.
func StripArgs(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : end+1]
		}
		return strings.Trim(s, `"`)
	}

	// unquoted paths may contain spaces, keep everything up to the first .exe
	lower := strings.ToLower(s)
	if idx := strings.Index(lower, ".exe"); idx >= 0 {
		end := idx + len(".exe")
		if end == len(s) || s[end] == ' ' || s[end] == ',' {
			return s[:end]
		}
	}
	return s
}

// StripIconIndex removes a trailing ",<digits>" as found in DisplayIcon values.
func StripIconIndex(s string) string {
	return iconIndex.ReplaceAllString(s, "")
}

// ExpandEnv expands Windows style %VAR% tokens. Unknown variables are left
// untouched.
func ExpandEnv(s string) string {
	return envToken.ReplaceAllStringFunc(s, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return token
	})
}

// Abs makes p absolute unless it already is, either natively or as a
// Windows drive or UNC path.
func Abs(p string) string {
	if IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func IsAbs(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') && isLetter(p[0]) {
		return true
	}
	return strings.HasPrefix(p, `\\`)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// DisplayName returns the final path component, accepting either separator.
func DisplayName(p string) string {
	p = strings.TrimRight(p, `\/`)
	if idx := strings.LastIndexAny(p, `\/`); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// Stem is DisplayName without its extension.
func Stem(p string) string {
	name := DisplayName(p)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}

// Equal reports whether two paths name the same executable. Windows paths are
// case-insensitive so the comparison is too.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Key is the canonical map key for a path.
func Key(p string) string {
	return strings.ToLower(p)
}

func IsExe(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".exe")
}

func IsShortcut(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".lnk")
}
