//go:build !windows

package firewall

// DefaultOpener reports ErrUnsupported: WFP only exists on Windows.
func DefaultOpener(opts SessionOptions) (Engine, error) {
	return nil, ErrUnsupported
}
