package process

import (
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"context"
	"errors"
	"fmt"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sort"
)

var ErrProcessNotFound = errors.New("process not found")

type (
	// Enumerator lists processes that own network sockets.
	Enumerator interface {
		ListNetworkProcesses(ctx context.Context) ([]types.NetProcRow, error)
		GetProcessByPID(ctx context.Context, pid int32) (types.ProcessInfo, error)
	}

	// System is the operating system view the enumerator reads from.
	System interface {
		Sockets(ctx context.Context) ([]Socket, error)
		Process(ctx context.Context, pid int32) (types.ProcessInfo, error)
	}

	Socket struct {
		PID        int32
		Protocol   string
		LocalPort  uint32
		RemotePort uint32
	}

	enumerator struct {
		system System
		logger *zap.Logger
	}
)

func NewEnumerator(system System, logger *zap.Logger) Enumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &enumerator{system: system, logger: logger}
}

func (e *enumerator) ListNetworkProcesses(ctx context.Context) ([]types.NetProcRow, error) {
	sockets, err := e.system.Sockets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read socket tables: %w", err)
	}

	byPID := lo.GroupBy(lo.Filter(sockets, func(s Socket, _ int) bool {
		return s.PID != 0
	}), func(s Socket) int32 {
		return s.PID
	})

	rows := make([]types.NetProcRow, 0, len(byPID))
	for pid, owned := range byPID {
		info, err := e.system.Process(ctx, pid)
		if err != nil || info.Path == "" {
			e.logger.Debug("skipping unresolvable process", zap.Int32("pid", pid), zap.Error(err))
			continue
		}
		rows = append(rows, group(info, owned))
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PID < rows[j].PID
	})
	return rows, nil
}

func group(info types.ProcessInfo, sockets []Socket) types.NetProcRow {
	protocols := lo.Uniq(lo.Map(sockets, func(s Socket, _ int) string { return s.Protocol }))
	sort.Strings(protocols)

	return types.NetProcRow{
		PID:         info.PID,
		Name:        info.Name,
		Path:        info.Path,
		Protocols:   protocols,
		LocalPorts:  sortedPorts(lo.Map(sockets, func(s Socket, _ int) uint32 { return s.LocalPort })),
		RemotePorts: sortedPorts(lo.Map(sockets, func(s Socket, _ int) uint32 { return s.RemotePort })),
	}
}

func sortedPorts(ports []uint32) []uint32 {
	ports = lo.Uniq(ports)
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}

func (e *enumerator) GetProcessByPID(ctx context.Context, pid int32) (types.ProcessInfo, error) {
	if pid <= 0 {
		return types.ProcessInfo{}, fmt.Errorf("%w: %d", ErrProcessNotFound, pid)
	}

	info, err := e.system.Process(ctx, pid)
	if err != nil {
		return types.ProcessInfo{}, fmt.Errorf("%w: %d: %w", ErrProcessNotFound, pid, err)
	}
	if info.Path == "" {
		return types.ProcessInfo{}, fmt.Errorf("%w: %d", ErrProcessNotFound, pid)
	}
	if info.Name == "" {
		info.Name = pathutil.DisplayName(info.Path)
	}
	return info, nil
}
