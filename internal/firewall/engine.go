package firewall

import (
	"fmt"
	"github.com/google/uuid"
)

type (
	// Engine is an open connection to the packet filtering subsystem.
	Engine interface {
		AddSublayer(sublayer Sublayer) error
		// AppID derives the application identity of the executable at path.
		AppID(path string) (AppID, error)
		AddFilter(filter Filter) (uuid.UUID, error)
		DeleteFilter(id uuid.UUID) error
		Close() error
	}

	// Opener opens a dynamic engine session.
	Opener func(opts SessionOptions) (Engine, error)

	SessionOptions struct {
		Name        string
		Description string
	}

	Sublayer struct {
		ID          uuid.UUID
		Name        string
		Description string
		Weight      uint16
	}

	// AppID is the opaque identity token the subsystem derives from a binary.
	AppID string

	Layer int

	Protocol uint8

	Filter struct {
		Name        string
		Description string
		Layer       Layer
		Sublayer    uuid.UUID
		AppID       AppID
		Protocol    Protocol
	}

	tuple struct {
		layer    Layer
		protocol Protocol
	}
)

const (
	LayerConnectV4 Layer = iota
	LayerConnectV6
	LayerRecvAcceptV4
	LayerRecvAcceptV6
)

const (
	ProtocolTCP Protocol = 6
	ProtocolUDP Protocol = 17
)

const (
	sessionName        = "AppGate Session"
	sessionDescription = "Per-application network access control"
	sublayerName       = "AppGateSublayer"
	sublayerDesc       = "Custom sublayer for AppGate"
	sublayerWeight     = 0x100
)

var (
	SublayerID = uuid.MustParse("12345678-1234-5678-1234-567890abcdef")

	DefaultSessionOptions = SessionOptions{
		Name:        sessionName,
		Description: sessionDescription,
	}

	DefaultSublayer = Sublayer{
		ID:          SublayerID,
		Name:        sublayerName,
		Description: sublayerDesc,
		Weight:      sublayerWeight,
	}

	blockTuples = []tuple{
		{layer: LayerConnectV4, protocol: ProtocolTCP},
		{layer: LayerConnectV4, protocol: ProtocolUDP},
		{layer: LayerConnectV6, protocol: ProtocolTCP},
		{layer: LayerConnectV6, protocol: ProtocolUDP},
		{layer: LayerRecvAcceptV4, protocol: ProtocolTCP},
		{layer: LayerRecvAcceptV4, protocol: ProtocolUDP},
		{layer: LayerRecvAcceptV6, protocol: ProtocolTCP},
		{layer: LayerRecvAcceptV6, protocol: ProtocolUDP},
	}
)

func (l Layer) Outbound() bool {
	return l == LayerConnectV4 || l == LayerConnectV6
}

func (l Layer) String() string {
	switch l {
	case LayerConnectV4:
		return "outbound-v4"
	case LayerConnectV6:
		return "outbound-v6"
	case LayerRecvAcceptV4:
		return "inbound-v4"
	case LayerRecvAcceptV6:
		return "inbound-v6"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

func (p Protocol) String() string {
	switch p {
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	default:
		return fmt.Sprintf("proto(%d)", uint8(p))
	}
}

func (t tuple) String() string {
	return t.layer.String() + "/" + t.protocol.String()
}

// filterName follows the "<program>-Outbound" / "<program>-Inbound" naming.
func filterName(program string, layer Layer) string {
	if layer.Outbound() {
		return program + "-Outbound"
	}
	return program + "-Inbound"
}
