//go:build windows

package firewall

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/tailscale/wf"
	"golang.org/x/sys/windows"
)

// FWP_E_ALREADY_EXISTS
const fwpEAlreadyExists = windows.Errno(0x80320009)

var wfpLayers = map[Layer]wf.LayerID{
	LayerConnectV4:    wf.LayerALEAuthConnectV4,
	LayerConnectV6:    wf.LayerALEAuthConnectV6,
	LayerRecvAcceptV4: wf.LayerALEAuthRecvAcceptV4,
	LayerRecvAcceptV6: wf.LayerALEAuthRecvAcceptV6,
}

type wfpEngine struct {
	session *wf.Session
}

// DefaultOpener opens a dynamic WFP session. Filters added through a dynamic
// session are removed by the system when the session handle closes.
func DefaultOpener(opts SessionOptions) (Engine, error) {
	session, err := wf.New(&wf.Options{
		Name:        opts.Name,
		Description: opts.Description,
		Dynamic:     true,
	})
	if err != nil {
		return nil, err
	}
	return &wfpEngine{session: session}, nil
}

func (e *wfpEngine) AddSublayer(sublayer Sublayer) error {
	id, err := toGUID(sublayer.ID)
	if err != nil {
		return err
	}

	err = e.session.AddSublayer(&wf.Sublayer{
		ID:          wf.SublayerID(id),
		Name:        sublayer.Name,
		Description: sublayer.Description,
		Weight:      sublayer.Weight,
	})
	if isAlreadyExists(err) {
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	}
	return err
}

func (e *wfpEngine) AppID(path string) (AppID, error) {
	// FwpmGetAppIdFromFileName0's blob is copied and released inside wf.AppID
	id, err := wf.AppID(path)
	if err != nil {
		return "", err
	}
	return AppID(id), nil
}

func (e *wfpEngine) AddFilter(filter Filter) (uuid.UUID, error) {
	layer, ok := wfpLayers[filter.Layer]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown layer %s", filter.Layer)
	}

	sublayer, err := toGUID(filter.Sublayer)
	if err != nil {
		return uuid.Nil, err
	}

	key := uuid.New()
	ruleID, err := toGUID(key)
	if err != nil {
		return uuid.Nil, err
	}

	rule := &wf.Rule{
		ID:          wf.RuleID(ruleID),
		Name:        filter.Name,
		Description: filter.Description,
		Layer:       layer,
		Sublayer:    wf.SublayerID(sublayer),
		Conditions: []*wf.Match{
			{
				Field: wf.FieldALEAppID,
				Op:    wf.MatchTypeEqual,
				Value: string(filter.AppID),
			},
			{
				Field: wf.FieldIPProtocol,
				Op:    wf.MatchTypeEqual,
				Value: wf.IPProto(filter.Protocol),
			},
		},
		Action: wf.ActionBlock,
	}
	if err := e.session.AddRule(rule); err != nil {
		return uuid.Nil, err
	}
	return key, nil
}

func (e *wfpEngine) DeleteFilter(id uuid.UUID) error {
	ruleID, err := toGUID(id)
	if err != nil {
		return err
	}
	return e.session.DeleteRule(wf.RuleID(ruleID))
}

func (e *wfpEngine) Close() error {
	return e.session.Close()
}

func toGUID(id uuid.UUID) (windows.GUID, error) {
	return windows.GUIDFromString("{" + id.String() + "}")
}

func isAlreadyExists(err error) bool {
	var errno windows.Errno
	return errors.As(err, &errno) && errno == fwpEAlreadyExists
}
