package database

import (
	"appgate/internal/types"
	"context"
)

type AuditRepository interface {
	Save(ctx context.Context, record *types.AuditRecord) error
	// FindRecent returns up to limit records, newest first.
	FindRecent(ctx context.Context, limit int) ([]*types.AuditRecord, error)
}
