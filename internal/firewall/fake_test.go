package firewall

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
)

// fakeKernel is the state shared by every fakeEngine opened against it, the
// way WFP state outlives a single session.
type fakeKernel struct {
	sublayers   map[uuid.UUID]Sublayer
	filters     map[uuid.UUID]Filter
	sublayerErr error
	openErr     error
}

type fakeEngine struct {
	kernel *fakeKernel

	appIDErr   error
	failLayers map[Layer]bool
	deleteErr  error

	appIDCalls int
	deleted    []uuid.UUID
	closeCalls int
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		sublayers: make(map[uuid.UUID]Sublayer),
		filters:   make(map[uuid.UUID]Filter),
	}
}

func (k *fakeKernel) opener(engine *fakeEngine) Opener {
	return func(opts SessionOptions) (Engine, error) {
		if k.openErr != nil {
			return nil, k.openErr
		}
		engine.kernel = k
		return engine, nil
	}
}

func (f *fakeEngine) AddSublayer(sublayer Sublayer) error {
	if f.kernel.sublayerErr != nil {
		return f.kernel.sublayerErr
	}
	if _, ok := f.kernel.sublayers[sublayer.ID]; ok {
		return fmt.Errorf("%w: FWP_E_ALREADY_EXISTS", ErrAlreadyExists)
	}
	f.kernel.sublayers[sublayer.ID] = sublayer
	return nil
}

func (f *fakeEngine) AppID(path string) (AppID, error) {
	f.appIDCalls++
	if f.appIDErr != nil {
		return "", f.appIDErr
	}
	return AppID(`\device\harddiskvolume1\` + path), nil
}

func (f *fakeEngine) AddFilter(filter Filter) (uuid.UUID, error) {
	if f.failLayers[filter.Layer] {
		return uuid.Nil, errors.New("FWP_E_INVALID_PARAMETER")
	}
	id := uuid.New()
	f.kernel.filters[id] = filter
	return id, nil
}

func (f *fakeEngine) DeleteFilter(id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.kernel.filters[id]; !ok {
		return errors.New("FWP_E_FILTER_NOT_FOUND")
	}
	delete(f.kernel.filters, id)
	return nil
}

func (f *fakeEngine) Close() error {
	f.closeCalls++
	return nil
}
