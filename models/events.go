package models

import (
	"time"

	"gorm.io/gorm"
)

// Event represents a domain event in the database. The unique index on
// (aggregate_id, version) backs the optimistic concurrency check.
type Event struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventID       string         `gorm:"uniqueIndex" json:"event_id"`
	AggregateID   string         `gorm:"index;uniqueIndex:idx_aggregate_version" json:"aggregate_id"`
	AggregateType string         `json:"aggregate_type"`
	EventType     string         `json:"event_type"`
	Data          []byte         `json:"data"`
	Metadata      []byte         `json:"metadata"`
	Version       int            `gorm:"uniqueIndex:idx_aggregate_version" json:"version"`
	Timestamp     time.Time      `json:"timestamp"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Error         *string        `json:"error"`
	Processed     bool           `gorm:"index" json:"processed"`
}
