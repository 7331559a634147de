package firewall

import "errors"

var (
	ErrEngineOpenFailed         = errors.New("failed to open filter engine")
	ErrSublayerCreateFailed     = errors.New("failed to create sublayer")
	ErrEngineNotInitialized     = errors.New("filter engine not initialized")
	ErrIdentityDerivationFailed = errors.New("failed to derive application identity")
	ErrFilterAddRejected        = errors.New("filter rejected by engine")
	ErrNoFiltersCreated         = errors.New("no filters created")
	ErrFilterDeleteFailed       = errors.New("failed to delete filter")

	// ErrAlreadyExists is returned by engines when an object with the same key
	// is already registered.
	ErrAlreadyExists = errors.New("object already exists")
	ErrUnsupported   = errors.New("packet filtering is not supported on this platform")
)
