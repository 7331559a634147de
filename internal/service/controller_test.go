package service

import (
	"appgate/internal/firewall"
	"appgate/internal/process"
	"appgate/internal/types"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type stubEngine struct {
	filters map[uuid.UUID]firewall.Filter
	closed  int
}

func (s *stubEngine) AddSublayer(firewall.Sublayer) error { return nil }

func (s *stubEngine) AppID(path string) (firewall.AppID, error) {
	return firewall.AppID(strings.ToLower(path)), nil
}

func (s *stubEngine) AddFilter(filter firewall.Filter) (uuid.UUID, error) {
	id := uuid.New()
	s.filters[id] = filter
	return id, nil
}

func (s *stubEngine) DeleteFilter(id uuid.UUID) error {
	delete(s.filters, id)
	return nil
}

func (s *stubEngine) Close() error {
	s.closed++
	return nil
}

type stubProcesses struct {
	byPID map[int32]types.ProcessInfo
	rows  []types.NetProcRow
}

func (s stubProcesses) ListNetworkProcesses(context.Context) ([]types.NetProcRow, error) {
	return s.rows, nil
}

func (s stubProcesses) GetProcessByPID(_ context.Context, pid int32) (types.ProcessInfo, error) {
	info, ok := s.byPID[pid]
	if !ok {
		return types.ProcessInfo{}, fmt.Errorf("%w: %d", process.ErrProcessNotFound, pid)
	}
	return info, nil
}

type stubApps struct {
	found []types.ApplicationInfo
}

func (s stubApps) Enumerate(context.Context) ([]types.ApplicationInfo, error) {
	return s.found, nil
}

type memoryAudit struct {
	mu      sync.Mutex
	records []*types.AuditRecord
	err     error
}

func (m *memoryAudit) Save(_ context.Context, record *types.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryAudit) FindRecent(_ context.Context, limit int) ([]*types.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*types.AuditRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		result = append(result, m.records[i])
	}
	return result, nil
}

type fixture struct {
	controller Controller
	engine     *stubEngine
	audit      *memoryAudit
	exe        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	exe := filepath.Join(t.TempDir(), "foo.exe")
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o644))

	f := &fixture{
		engine: &stubEngine{filters: make(map[uuid.UUID]firewall.Filter)},
		audit:  &memoryAudit{},
		exe:    exe,
	}
	f.controller = NewController(Dependencies{
		Opener: func(firewall.SessionOptions) (firewall.Engine, error) {
			return f.engine, nil
		},
		Processes: stubProcesses{byPID: map[int32]types.ProcessInfo{
			4242: {PID: 4242, Name: "foo.exe", Path: exe},
		}},
		Apps:    stubApps{found: []types.ApplicationInfo{{Name: "Foo", ExePath: exe, Source: types.SourceRegistry}}},
		Audit:   f.audit,
		IsAdmin: func() bool { return true },
	})
	return f
}

func TestController_NotInitialized(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.controller.BlockByPath(f.exe)
	assert.ErrorIs(t, err, firewall.ErrEngineNotInitialized)
	assert.Empty(t, f.controller.ListRules())
}

func TestController_InitializeNotElevated(t *testing.T) {
	c := NewController(Dependencies{
		Opener: func(firewall.SessionOptions) (firewall.Engine, error) {
			return nil, errors.New("access is denied")
		},
		IsAdmin: func() bool { return false },
	})

	err := c.Initialize()
	assert.ErrorIs(t, err, ErrNotElevated)
	assert.ErrorIs(t, err, firewall.ErrEngineOpenFailed)
}

func TestController_InitializeIsIdempotent(t *testing.T) {
	opened := 0
	engine := &stubEngine{filters: make(map[uuid.UUID]firewall.Filter)}
	c := NewController(Dependencies{
		Opener: func(firewall.SessionOptions) (firewall.Engine, error) {
			opened++
			return engine, nil
		},
	})

	require.NoError(t, c.Initialize())
	require.NoError(t, c.Initialize())
	assert.Equal(t, 1, opened)
}

func TestController_BlockByPath(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Initialize())

	path, created, err := f.controller.BlockByPath(`  "` + f.exe + `" --silent `)
	require.NoError(t, err)
	assert.Equal(t, f.exe, path)
	assert.Equal(t, 8, created)
	assert.Len(t, f.controller.ListRules(), 8)
	assert.Len(t, f.engine.filters, 8)

	require.Len(t, f.audit.records, 1)
	assert.Equal(t, types.ActionBlock, f.audit.records[0].Action)
	assert.Equal(t, 1, f.audit.records[0].Serial)
	assert.Equal(t, "foo.exe", f.audit.records[0].ProcessName)
}

func TestController_BlockByPathInvalid(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Initialize())

	for _, raw := range []string{"", "   ", filepath.Join(t.TempDir(), "missing.exe"), t.TempDir()} {
		_, _, err := f.controller.BlockByPath(raw)
		assert.ErrorIs(t, err, ErrInvalidPath, raw)
	}
	assert.Empty(t, f.controller.ListRules())
}

func TestController_ByPID(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Initialize())

	_, _, err := f.controller.BlockByPID(context.Background(), 1)
	assert.ErrorIs(t, err, process.ErrProcessNotFound)

	info, created, err := f.controller.BlockByPID(context.Background(), 4242)
	require.NoError(t, err)
	assert.Equal(t, "foo.exe", info.Name)
	assert.Equal(t, 8, created)

	_, removed, err := f.controller.UnblockByPID(context.Background(), 4242)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, f.controller.ListRules())
}

func TestController_UnblockByPathCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Initialize())

	_, _, err := f.controller.BlockByPath(f.exe)
	require.NoError(t, err)

	dir, name := filepath.Split(f.exe)
	_, removed, err := f.controller.UnblockByPath(dir + strings.ToUpper(name))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, f.engine.filters)
}

func TestController_DeleteAllAndClose(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.controller.Initialize())

	_, _, err := f.controller.BlockByPath(f.exe)
	require.NoError(t, err)
	_, _, err = f.controller.BlockByPath(f.exe)
	require.NoError(t, err)

	removed, err := f.controller.DeleteBySerial(2)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, f.controller.DeleteAll())
	assert.Empty(t, f.controller.ListRules())
	assert.Empty(t, f.engine.filters)

	require.NoError(t, f.controller.Close())
	require.NoError(t, f.controller.Close())
	assert.Equal(t, 1, f.engine.closed)

	history, err := f.controller.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, types.ActionDeleteAll, history[0].Action)
}

func TestController_HistoryWithoutJournal(t *testing.T) {
	engine := &stubEngine{filters: make(map[uuid.UUID]firewall.Filter)}
	c := NewController(Dependencies{
		Opener: func(firewall.SessionOptions) (firewall.Engine, error) {
			return engine, nil
		},
	})

	history, err := c.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, c.Initialize())
	require.NoError(t, c.DeleteAll())

	history, err = c.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "All rules removed", history[0].Message)
}

func TestController_Sources(t *testing.T) {
	f := newFixture(t)

	found, err := f.controller.Applications(context.Background())
	require.NoError(t, err)
	assert.Len(t, found, 1)

	rows, err := f.controller.Processes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
