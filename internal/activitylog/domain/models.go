// Package domain contains the append-only invoice activity trail.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
)

// ActivityLog records one status transition. Rows are immutable once
// written; there is no update or delete path, and duplicate rows are
// permitted (a restore re-appends the entry it restored from).
type ActivityLog struct {
	ID            snowflake.ID         `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID         `gorm:"not null;index" json:"invoice_id"`
	OldStatus     invoicedomain.Status `gorm:"type:text;not null" json:"old_status"`
	CurrentStatus invoicedomain.Status `gorm:"type:text;not null" json:"current_status"`
	Date          time.Time            `gorm:"not null" json:"date"`
}

// TableName sets the database table name.
func (ActivityLog) TableName() string { return "invoice_activity_logs" }

// View joins display fields from the invoice's customer at read time. The
// joined fields are not stored on the entry and are not part of its
// identity.
type View struct {
	ActivityLog
	CustomerName string `gorm:"column:customer_name" json:"customer_name"`
	ImageURL     string `gorm:"column:image_url" json:"image_url"`
}
