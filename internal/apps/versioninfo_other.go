//go:build !windows

package apps

func productName(string) string {
	return ""
}
