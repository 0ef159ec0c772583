// Package audit notifies an external sink of significant actions. Recording
// is fire-and-forget: a failing sink must never affect the outcome of the
// operation being audited.
package audit

import (
	"auction-engine/utils"
)

// Entry describes one auditable action.
type Entry struct {
	UserID     string         `json:"user_id,omitempty"`
	AuctionID  string         `json:"auction_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Changes    map[string]any `json:"changes,omitempty"`
}

// Sink receives audit entries. Record returns nothing: callers cannot block
// on or fail because of the audit path.
type Sink interface {
	Record(entry Entry)
}

// LogSink writes audit entries to the structured log.
type LogSink struct{}

// NewLogSink creates a log-backed audit sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Record writes the entry as an info-level audit log line.
func (s *LogSink) Record(entry Entry) {
	utils.Info("audit", map[string]any{
		"user_id":     entry.UserID,
		"auction_id":  entry.AuctionID,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"changes":     entry.Changes,
	})
}

// NopSink discards all entries. Intended for tests.
type NopSink struct{}

// Record discards the entry.
func (NopSink) Record(Entry) {}
