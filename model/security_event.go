package model

import "time"

// Severity levels for security events.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent is an append-only audit record. There is no update or
// delete path for these rows.
type SecurityEvent struct {
	EventID   string                 `bson:"event_id" json:"event_id"`
	UserID    string                 `bson:"user_id,omitempty" json:"user_id,omitempty"`
	EventType string                 `bson:"event_type" json:"event_type"`
	Severity  string                 `bson:"severity" json:"severity"`
	Details   map[string]interface{} `bson:"details" json:"details"`
	UserAgent string                 `bson:"user_agent" json:"user_agent"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}
