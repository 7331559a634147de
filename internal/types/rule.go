package types

import (
	"github.com/google/uuid"
)

type (
	// RuleEntry is one filter object created by a block operation. A single
	// block call produces up to eight entries sharing Serial and ProcessPath.
	RuleEntry struct {
		Serial      int       `json:"serial"`
		ProcessName string    `json:"process_name"`
		ProcessPath string    `json:"process_path"`
		FilterID    uuid.UUID `json:"filter_id"`
		Layer       string    `json:"layer"`
		Protocol    string    `json:"protocol"`
	}

	RuleAction string

	// RuleEvent is the payload published for every directory mutation.
	RuleEvent struct {
		Action      RuleAction `json:"action"`
		Serial      int        `json:"serial,omitempty"`
		ProcessName string     `json:"process_name,omitempty"`
		ProcessPath string     `json:"process_path,omitempty"`
		Filters     int        `json:"filters"`
		Failed      []string   `json:"failed,omitempty"`
	}
)

const (
	ActionBlock     RuleAction = "block"
	ActionUnblock   RuleAction = "unblock"
	ActionDeleteAll RuleAction = "delete_all"
)
