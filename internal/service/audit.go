package service

import (
	"appgate/internal/database"
	"appgate/internal/eventbus"
	"appgate/internal/firewall"
	"appgate/internal/types"
	"context"
	"encoding/json"
	"go.uber.org/zap"
	"strings"
	"time"
)

// AuditRecorder appends every rule change confirmation to the journal.
type AuditRecorder struct {
	repository database.AuditRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewAuditRecorder(repository database.AuditRepository, logger *zap.Logger) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditRecorder{repository: repository, logger: logger, now: time.Now}
}

func (a *AuditRecorder) Subscribe(bus eventbus.Bus) {
	bus.Register(firewall.Topic, a.Record)
}

// Record never fails the rule operation that produced ev; journal errors are
// only logged.
func (a *AuditRecorder) Record(ev eventbus.Event) {
	var event types.RuleEvent
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &event); err != nil {
			a.logger.Warn("undecodable rule event", zap.Error(err))
			return
		}
	}

	record := &types.AuditRecord{
		Action:      event.Action,
		Serial:      event.Serial,
		ProcessName: event.ProcessName,
		ProcessPath: event.ProcessPath,
		Filters:     event.Filters,
		Failed:      strings.Join(event.Failed, ","),
		Message:     ev.Message,
		Timestamp:   a.now(),
	}
	if err := a.repository.Save(context.Background(), record); err != nil {
		a.logger.Error("failed to write audit record", zap.Error(err), zap.String("message", ev.Message))
	}
}
