package process

import (
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"context"
	"fmt"
	psnet "github.com/shirou/gopsutil/v4/net"
	ps "github.com/shirou/gopsutil/v4/process"
)

// socketKinds maps gopsutil connection kinds to the labels shown to users.
var socketKinds = []struct {
	kind  string
	label string
}{
	{kind: "tcp4", label: "TCPv4"},
	{kind: "tcp6", label: "TCPv6"},
	{kind: "udp4", label: "UDPv4"},
	{kind: "udp6", label: "UDPv6"},
}

type system struct{}

// NewSystem returns the System backed by the host's socket and process tables.
func NewSystem() System {
	return system{}
}

func (system) Sockets(ctx context.Context) ([]Socket, error) {
	sockets := make([]Socket, 0)
	for _, k := range socketKinds {
		conns, err := psnet.ConnectionsWithContext(ctx, k.kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.kind, err)
		}
		for _, c := range conns {
			sockets = append(sockets, Socket{
				PID:        c.Pid,
				Protocol:   k.label,
				LocalPort:  c.Laddr.Port,
				RemotePort: c.Raddr.Port,
			})
		}
	}
	return sockets, nil
}

func (system) Process(ctx context.Context, pid int32) (types.ProcessInfo, error) {
	p, err := ps.NewProcessWithContext(ctx, pid)
	if err != nil {
		return types.ProcessInfo{}, err
	}

	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return types.ProcessInfo{}, err
	}

	name, err := p.NameWithContext(ctx)
	if err != nil || name == "" {
		name = pathutil.DisplayName(exe)
	}
	return types.ProcessInfo{PID: pid, Name: name, Path: exe}, nil
}

// Executables lists the binaries of every running process the caller can
// inspect. Processes that exit or deny access mid-scan are skipped.
func Executables(ctx context.Context) ([]types.ProcessInfo, error) {
	pids, err := ps.PidsWithContext(ctx)
	if err != nil {
		return nil, err
	}

	s := system{}
	result := make([]types.ProcessInfo, 0, len(pids))
	for _, pid := range pids {
		if pid == 0 {
			continue
		}
		info, err := s.Process(ctx, pid)
		if err != nil || info.Path == "" {
			continue
		}
		result = append(result, info)
	}
	return result, nil
}
