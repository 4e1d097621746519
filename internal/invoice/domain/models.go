// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status represents invoice lifecycle states as stored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusCanceled Status = "canceled"
	StatusOverdue  Status = "overdue"
)

// Statuses lists every value that may be persisted. Nothing else is valid.
var Statuses = []Status{StatusPending, StatusPaid, StatusCanceled, StatusOverdue}

// Valid reports whether s is one of the four persistable values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCanceled, StatusOverdue:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// Invoice represents a billed amount owed by a customer. Status is mutated
// exclusively through the transition service; CreatedAt is immutable once set.
type Invoice struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID `gorm:"not null;index" json:"customer_id"`
	AmountCents int64        `gorm:"not null" json:"amount_cents"`
	Status      Status       `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// View is an invoice enriched with its read-time display status. The display
// status is never written back; a pending invoice past the overdue cutoff
// shows as overdue while its stored status stays pending.
type View struct {
	Invoice
	DisplayStatus Status `json:"display_status"`
}
