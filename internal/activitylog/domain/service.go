package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"gorm.io/gorm"
)

// Repository takes the gorm handle per call so appends can participate in a
// caller-owned transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *ActivityLog) error
	ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*View, error)
}

type AppendRequest struct {
	InvoiceID     string
	OldStatus     invoicedomain.Status
	CurrentStatus invoicedomain.Status
	Date          time.Time
}

type Service interface {
	// Append persists a new immutable entry and returns it. No duplicate
	// check is performed.
	Append(ctx context.Context, req AppendRequest) (ActivityLog, error)
	// ListByInvoice returns every entry for the invoice with customer
	// display fields joined, in insertion order.
	ListByInvoice(ctx context.Context, invoiceID string) ([]View, error)
}

var (
	ErrInvalidEntry = errors.New("invalid_activity_log_entry")
)
