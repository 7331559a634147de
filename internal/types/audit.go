package types

import (
	"github.com/google/uuid"
	"time"
)

type (
	AuditRecord struct {
		ID          uuid.UUID  `gorm:"primaryKey" json:"id"`
		Action      RuleAction `json:"action"`
		Serial      int        `json:"serial"`
		ProcessName string     `json:"process_name"`
		ProcessPath string     `json:"process_path"`
		Filters     int        `json:"filters"`
		Failed      string     `json:"failed"`
		Message     string     `json:"message"`
		Timestamp   time.Time  `gorm:"index" json:"timestamp"`
	}
)
