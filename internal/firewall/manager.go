package firewall

import (
	"appgate/internal/eventbus"
	"appgate/internal/pathutil"
	"appgate/internal/types"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"sync"
)

// Topic is the event bus identifier rule mutations are broadcast on.
const Topic = "firewall"

type (
	// Manager is the rule engine. It creates and removes the filter set for an
	// executable inside the session's sublayer and keeps the directory of
	// everything it created.
	Manager interface {
		BlockByPID(pid int32, knownPath string) (int, error)
		BlockPath(path string) (int, error)
		UnblockByPath(path string) (bool, error)
		UnblockBySerial(serial int) (bool, error)
		DeleteBySerial(serial int) (bool, error)
		ListRules() []types.RuleEntry
		DeleteAll() error
		Close() error
	}

	manager struct {
		session *Session
		bus     eventbus.Bus
		logger  *zap.Logger

		mu         sync.Mutex
		rules      []types.RuleEntry
		lastSerial int
	}

	blockOutcome struct {
		serial    int
		attempted int
		entries   []types.RuleEntry
		failed    []string
	}
)

func NewManager(session *Session, bus eventbus.Bus, logger *zap.Logger) Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &manager{
		session: session,
		bus:     bus,
		logger:  logger,
	}
}

// BlockByPID blocks the binary the process was started from. The PID itself is
// not part of the filter: a relaunched process with the same path stays blocked.
func (m *manager) BlockByPID(pid int32, knownPath string) (int, error) {
	m.logger.Debug("blocking process by pid", zap.Int32("pid", pid), zap.String("path", knownPath))
	return m.BlockPath(knownPath)
}

func (m *manager) BlockPath(path string) (int, error) {
	engine, err := m.session.Engine()
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	outcome := m.block(engine, path)
	if len(outcome.entries) == 0 {
		m.mu.Unlock()
		m.logger.Error("block failed", zap.String("path", path), zap.Strings("failed", outcome.failed))
		return 0, fmt.Errorf("%w for %s", ErrNoFiltersCreated, path)
	}
	m.rules = append(m.rules, outcome.entries...)
	m.lastSerial = outcome.serial
	m.mu.Unlock()

	name := pathutil.DisplayName(path)
	m.logger.Info("blocked",
		zap.Int("serial", outcome.serial),
		zap.String("path", path),
		zap.Int("created", len(outcome.entries)),
		zap.Int("attempted", outcome.attempted))
	m.publish(fmt.Sprintf("Blocked %s (%s)", name, path), types.RuleEvent{
		Action:      types.ActionBlock,
		Serial:      outcome.serial,
		ProcessName: name,
		ProcessPath: path,
		Filters:     len(outcome.entries),
		Failed:      outcome.failed,
	})
	return len(outcome.entries), nil
}

// block attempts every tuple independently. Callers hold m.mu.
func (m *manager) block(engine Engine, path string) blockOutcome {
	name := pathutil.DisplayName(path)
	sublayer := m.session.Sublayer().ID
	outcome := blockOutcome{serial: m.lastSerial + 1}

	for _, t := range blockTuples {
		outcome.attempted++
		id, err := addFilter(engine, path, name, sublayer, t)
		if err != nil {
			outcome.failed = append(outcome.failed, t.String())
			m.logger.Warn("filter not created",
				zap.String("path", path),
				zap.Stringer("tuple", t),
				zap.Error(err))
			continue
		}

		outcome.entries = append(outcome.entries, types.RuleEntry{
			Serial:      outcome.serial,
			ProcessName: name,
			ProcessPath: path,
			FilterID:    id,
			Layer:       t.layer.String(),
			Protocol:    t.protocol.String(),
		})
	}
	return outcome
}

func addFilter(engine Engine, path, name string, sublayer uuid.UUID, t tuple) (uuid.UUID, error) {
	// the identity token is derived per filter and never cached
	appID, err := engine.AppID(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrIdentityDerivationFailed, err)
	}

	id, err := engine.AddFilter(Filter{
		Name:        filterName(name, t.layer),
		Description: fmt.Sprintf("AppGate block %s %s", t, path),
		Layer:       t.layer,
		Sublayer:    sublayer,
		AppID:       appID,
		Protocol:    t.protocol,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrFilterAddRejected, err)
	}
	return id, nil
}

func (m *manager) UnblockByPath(path string) (bool, error) {
	return m.remove(func(entry types.RuleEntry) bool {
		return pathutil.Equal(entry.ProcessPath, path)
	})
}

func (m *manager) UnblockBySerial(serial int) (bool, error) {
	return m.remove(func(entry types.RuleEntry) bool {
		return entry.Serial == serial
	})
}

func (m *manager) DeleteBySerial(serial int) (bool, error) {
	return m.UnblockBySerial(serial)
}

func (m *manager) remove(match func(entry types.RuleEntry) bool) (bool, error) {
	engine, err := m.session.Engine()
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	removed := lo.Filter(m.rules, func(entry types.RuleEntry, _ int) bool {
		return match(entry)
	})
	if len(removed) == 0 {
		m.mu.Unlock()
		return false, nil
	}
	m.rules = lo.Reject(m.rules, func(entry types.RuleEntry, _ int) bool {
		return match(entry)
	})
	m.deleteFilters(engine, removed)
	m.mu.Unlock()

	serials := lo.Uniq(lo.Map(removed, func(entry types.RuleEntry, _ int) int {
		return entry.Serial
	}))
	for _, serial := range serials {
		group := lo.Filter(removed, func(entry types.RuleEntry, _ int) bool {
			return entry.Serial == serial
		})
		first := group[0]
		m.publish(fmt.Sprintf("Rule %d removed: %s (%s)", serial, first.ProcessName, first.ProcessPath), types.RuleEvent{
			Action:      types.ActionUnblock,
			Serial:      serial,
			ProcessName: first.ProcessName,
			ProcessPath: first.ProcessPath,
			Filters:     len(group),
		})
	}
	return true, nil
}

// deleteFilters is best-effort: a failure is logged and the loop continues.
func (m *manager) deleteFilters(engine Engine, entries []types.RuleEntry) int {
	failed := 0
	for _, entry := range entries {
		if err := engine.DeleteFilter(entry.FilterID); err != nil {
			failed++
			m.logger.Warn("filter not deleted",
				zap.Int("serial", entry.Serial),
				zap.String("filter_id", entry.FilterID.String()),
				zap.Error(fmt.Errorf("%w: %w", ErrFilterDeleteFailed, err)))
		}
	}
	return failed
}

func (m *manager) ListRules() []types.RuleEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	rules := make([]types.RuleEntry, len(m.rules))
	copy(rules, m.rules)
	return rules
}

// DeleteAll removes every filter this manager created. The directory is
// always empty afterwards, even when the engine is gone or deletes fail.
func (m *manager) DeleteAll() error {
	m.mu.Lock()
	rules := m.rules
	m.rules = nil
	m.mu.Unlock()

	engine, err := m.session.Engine()
	if err != nil {
		return err
	}

	m.mu.Lock()
	failed := m.deleteFilters(engine, rules)
	m.mu.Unlock()

	m.logger.Info("all rules removed", zap.Int("filters", len(rules)), zap.Int("failed", failed))
	m.publish("All rules removed", types.RuleEvent{
		Action:  types.ActionDeleteAll,
		Filters: len(rules),
	})
	return nil
}

func (m *manager) Close() error {
	return m.session.Close()
}

func (m *manager) publish(message string, event types.RuleEvent) {
	if m.bus == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to encode rule event", zap.Error(err))
		return
	}
	m.bus.BroadcastWithData(Topic, eventbus.Success, message, data)
}
