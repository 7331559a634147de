package service

import (
	"appgate/internal/apps"
	"appgate/internal/database"
	"appgate/internal/eventbus"
	"appgate/internal/firewall"
	"appgate/internal/pathutil"
	"appgate/internal/process"
	"appgate/internal/types"
	"context"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrInvalidPath = errors.New("path does not point to an existing file")
	ErrNotElevated = errors.New("administrator rights are required, run AppGate as Administrator")
)

type (
	// Controller is what the command line talks to. Raw user input goes in,
	// resolved paths and rule state come out.
	Controller interface {
		Initialize() error
		BlockByPID(ctx context.Context, pid int32) (types.ProcessInfo, int, error)
		BlockByPath(raw string) (string, int, error)
		UnblockByPID(ctx context.Context, pid int32) (types.ProcessInfo, bool, error)
		UnblockByPath(raw string) (string, bool, error)
		ListRules() []types.RuleEntry
		DeleteBySerial(serial int) (bool, error)
		DeleteAll() error
		Processes(ctx context.Context) ([]types.NetProcRow, error)
		Applications(ctx context.Context) ([]types.ApplicationInfo, error)
		History(ctx context.Context, limit int) ([]*types.AuditRecord, error)
		Close() error
	}

	Dependencies struct {
		Opener    firewall.Opener
		Bus       eventbus.Bus
		Processes process.Enumerator
		Apps      apps.Enumerator
		// Audit defaults to an in-memory journal covering the current run.
		Audit     database.AuditRepository
		IsAdmin   func() bool
		Logger    *zap.Logger
	}

	controller struct {
		deps        Dependencies
		manager     firewall.Manager
		initialized bool
		validator   *validator.Validate
		logger      *zap.Logger
	}
)

func NewController(deps Dependencies) Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Bus == nil {
		deps.Bus = eventbus.New()
	}
	if deps.Audit == nil {
		deps.Audit = newMemoryJournal(memoryJournalSize)
	}
	NewAuditRecorder(deps.Audit, deps.Logger).Subscribe(deps.Bus)

	return &controller{
		deps:      deps,
		manager:   firewall.NewManager(nil, deps.Bus, deps.Logger),
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    deps.Logger,
	}
}

// Initialize opens the filter engine session. Calling it again after a
// successful call is a no-op.
func (c *controller) Initialize() error {
	if c.initialized {
		return nil
	}

	session, err := firewall.Open(c.deps.Opener, firewall.DefaultSessionOptions, firewall.DefaultSublayer)
	if err != nil {
		c.logger.Error("failed to initialize firewall", zap.Error(err))
		if c.deps.IsAdmin != nil && !c.deps.IsAdmin() {
			return fmt.Errorf("%w: %w", ErrNotElevated, err)
		}
		return err
	}

	_ = c.manager.Close()
	c.manager = firewall.NewManager(session, c.deps.Bus, c.logger)
	c.initialized = true
	c.logger.Info("firewall initialized", zap.String("sublayer", firewall.SublayerID.String()))
	return nil
}

func (c *controller) BlockByPID(ctx context.Context, pid int32) (types.ProcessInfo, int, error) {
	info, err := c.deps.Processes.GetProcessByPID(ctx, pid)
	if err != nil {
		return types.ProcessInfo{}, 0, err
	}

	created, err := c.manager.BlockByPID(info.PID, info.Path)
	return info, created, err
}

func (c *controller) BlockByPath(raw string) (string, int, error) {
	path := pathutil.Resolve(raw)
	if err := c.validator.Var(path, "required,file"); err != nil {
		return path, 0, fmt.Errorf("%w: %s", ErrInvalidPath, raw)
	}

	created, err := c.manager.BlockPath(path)
	return path, created, err
}

func (c *controller) UnblockByPID(ctx context.Context, pid int32) (types.ProcessInfo, bool, error) {
	info, err := c.deps.Processes.GetProcessByPID(ctx, pid)
	if err != nil {
		return types.ProcessInfo{}, false, err
	}

	removed, err := c.manager.UnblockByPath(info.Path)
	return info, removed, err
}

// UnblockByPath does not require the file to exist: a binary may be deleted
// while its rule is still installed.
func (c *controller) UnblockByPath(raw string) (string, bool, error) {
	path := pathutil.Resolve(raw)
	if err := c.validator.Var(path, "required"); err != nil {
		return path, false, fmt.Errorf("%w: %s", ErrInvalidPath, raw)
	}

	removed, err := c.manager.UnblockByPath(path)
	return path, removed, err
}

func (c *controller) ListRules() []types.RuleEntry {
	return c.manager.ListRules()
}

func (c *controller) DeleteBySerial(serial int) (bool, error) {
	return c.manager.DeleteBySerial(serial)
}

func (c *controller) DeleteAll() error {
	return c.manager.DeleteAll()
}

func (c *controller) Processes(ctx context.Context) ([]types.NetProcRow, error) {
	return c.deps.Processes.ListNetworkProcesses(ctx)
}

func (c *controller) Applications(ctx context.Context) ([]types.ApplicationInfo, error) {
	return c.deps.Apps.Enumerate(ctx)
}

func (c *controller) History(ctx context.Context, limit int) ([]*types.AuditRecord, error) {
	return c.deps.Audit.FindRecent(ctx, limit)
}

func (c *controller) Close() error {
	return c.manager.Close()
}
