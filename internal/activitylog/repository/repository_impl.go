package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billfold/internal/activitylog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.ActivityLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_activity_logs (
			id, invoice_id, old_status, current_status, date
		) VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.InvoiceID,
		entry.OldStatus,
		entry.CurrentStatus,
		entry.Date,
	).Error
}

// ListByInvoice orders by id: snowflake ids are monotonic, so id order is
// insertion order.
func (r *repo) ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.View, error) {
	var entries []*domain.View
	err := db.WithContext(ctx).Raw(
		`SELECT l.id, l.invoice_id, l.old_status, l.current_status, l.date,
		        c.name AS customer_name, c.image_url AS image_url
		 FROM invoice_activity_logs l
		 JOIN invoices i ON i.id = l.invoice_id
		 JOIN customers c ON c.id = i.customer_id
		 WHERE l.invoice_id = ?
		 ORDER BY l.id ASC`,
		invoiceID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
