package models

import (
	"time"

	"gorm.io/gorm"
)

// Terminal represents a terminal read-model row
type Terminal struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TerminalID   string         `gorm:"uniqueIndex" json:"terminal_id"`
	BranchID     string         `gorm:"index" json:"branch_id"`
	Name         string         `json:"name"`
	Status       string         `gorm:"index" json:"status"`
	Version      int            `json:"version"`
	RegisteredAt time.Time      `json:"registered_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// Shift represents a shift read-model row
type Shift struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	ShiftID            string         `gorm:"uniqueIndex" json:"shift_id"`
	TerminalID         string         `gorm:"index" json:"terminal_id"`
	BranchID           string         `gorm:"index" json:"branch_id"`
	CashierID          string         `gorm:"index" json:"cashier_id"`
	Status             string         `gorm:"index" json:"status"`
	Version            int            `json:"version"`
	Currency           string         `json:"currency"`
	OpeningCashAmount  int64          `json:"opening_cash_amount"`
	CashDropTotal      int64          `json:"cash_drop_total"`
	CashDropCount      int            `json:"cash_drop_count"`
	DeclaredCashAmount *int64         `json:"declared_cash_amount"`
	ExpectedCashAmount *int64         `json:"expected_cash_amount"`
	CashVariance       *int64         `json:"cash_variance"`
	OpenedAt           time.Time      `json:"opened_at"`
	ClosedAt           *time.Time     `json:"closed_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// PosSession represents a POS session read-model row
type PosSession struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	SessionID      string         `gorm:"uniqueIndex" json:"session_id"`
	ShiftID        string         `gorm:"index" json:"shift_id"`
	TerminalID     string         `gorm:"index" json:"terminal_id"`
	State          string         `json:"state"`
	Version        int            `json:"version"`
	ActiveOrderID  *string        `gorm:"index" json:"active_order_id"`
	Ended          bool           `gorm:"index" json:"ended"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// SessionOrder represents one order known to a session, with its residency
// (active, parked, inactive or pending_sync) and the terminal binding used
// by the multi-terminal enforcement checks.
type SessionOrder struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID     string         `gorm:"uniqueIndex" json:"order_id"`
	SessionID   string         `gorm:"index" json:"session_id"`
	TerminalID  string         `gorm:"index" json:"terminal_id"`
	Residency   string         `gorm:"index" json:"residency"`
	PendingSync bool           `gorm:"index" json:"pending_sync"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// Order residency values for SessionOrder rows
const (
	ResidencyActive      = "active"
	ResidencyParked      = "parked"
	ResidencyInactive    = "inactive"
	ResidencyPendingSync = "pending_sync"
	ResidencyCompleted   = "completed"
	ResidencyCancelled   = "cancelled"
)
