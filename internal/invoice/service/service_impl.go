package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	activitylogdomain "github.com/smallbiznis/billfold/internal/activitylog/domain"
	"github.com/smallbiznis/billfold/internal/cache"
	"github.com/smallbiznis/billfold/internal/clock"
	"github.com/smallbiznis/billfold/internal/config"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"github.com/smallbiznis/billfold/internal/invoice/status"
	"github.com/smallbiznis/billfold/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	Policy      status.Policy
	LogRepo     activitylogdomain.Repository
	Invalidator cache.Invalidator
	Metrics     *metrics.TransitionMetrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	clock       clock.Clock
	overdueDays int
	policy      status.Policy
	logRepo     activitylogdomain.Repository
	invalidator cache.Invalidator
	metrics     *metrics.TransitionMetrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		overdueDays: p.Cfg.OverdueAfterDays,
		policy:      p.Policy,
		logRepo:     p.LogRepo,
		invalidator: p.Invalidator,
		metrics:     p.Metrics,
	}
}

// operationKind distinguishes the three call sites that mutate status. The
// kind is visible to metrics and logging only; storage records all three
// identically.
type operationKind string

const (
	kindEdit         operationKind = "edit"
	kindDirectChange operationKind = operationKind(invoicedomain.KindDirectChange)
	kindRevert       operationKind = operationKind(invoicedomain.KindRevert)
)

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	stmt := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if req.Status != nil {
		if !req.Status.Valid() {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidStatus
		}
		stmt = stmt.Where("status = ?", *req.Status)
	}

	var items []invoicedomain.Invoice
	if err := stmt.Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return invoicedomain.ListInvoiceResponse{}, fmt.Errorf("list invoices: %w", err)
	}

	now := s.clock.Now()
	views := make([]invoicedomain.View, 0, len(items))
	for _, item := range items {
		views = append(views, invoicedomain.View{
			Invoice:       item,
			DisplayStatus: status.Derive(item.Status, item.CreatedAt, now, s.overdueDays),
		})
	}
	return invoicedomain.ListInvoiceResponse{Invoices: views}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.View, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.View{}, invoicedomain.ErrInvalidInvoiceID
	}

	invoice, err := s.loadInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.View{}, err
	}
	if invoice == nil {
		return invoicedomain.View{}, invoicedomain.ErrInvoiceNotFound
	}

	return invoicedomain.View{
		Invoice:       *invoice,
		DisplayStatus: status.Derive(invoice.Status, invoice.CreatedAt, s.clock.Now(), s.overdueDays),
	}, nil
}

// ApplyTransition is the edit-form path. The activity log append and the
// invoice update are two independent writes: a failure of the second leaves
// the first in place. This mirrors the behavior callers depend on today; the
// atomic path is Restore.
func (s *Service) ApplyTransition(ctx context.Context, req invoicedomain.ApplyTransitionRequest) error {
	invoiceID, err := parseID(req.InvoiceID)
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return invoicedomain.ErrInvalidCustomer
	}
	if req.AmountCents <= 0 {
		return invoicedomain.ErrInvalidAmount
	}
	if !req.OldStatus.Valid() || !req.NewStatus.Valid() {
		return invoicedomain.ErrInvalidStatus
	}
	if err := s.policy.Allow(req.OldStatus, req.NewStatus); err != nil {
		return err
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	entry := &activitylogdomain.ActivityLog{
		ID:            s.genID.Generate(),
		InvoiceID:     invoiceID,
		OldStatus:     req.OldStatus,
		CurrentStatus: req.NewStatus,
		Date:          date.UTC(),
	}
	if err := s.logRepo.Insert(ctx, s.db, entry); err != nil {
		s.metrics.ObserveFailure(string(kindEdit))
		return fmt.Errorf("append activity log: %w", err)
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET customer_id = ?, amount_cents = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		customerID,
		req.AmountCents,
		req.NewStatus,
		s.clock.Now(),
		invoiceID,
	)
	if result.Error != nil {
		s.metrics.ObserveFailure(string(kindEdit))
		return fmt.Errorf("update invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		s.metrics.ObserveFailure(string(kindEdit))
		return invoicedomain.ErrInvoiceNotFound
	}

	s.metrics.ObserveTransition(string(kindEdit), string(req.NewStatus))
	s.invalidator.InvalidateInvoice(ctx, req.InvoiceID)
	return nil
}

// Restore sets the invoice status to the first value of the supplied pair
// and appends a log row recording the pair unchanged, atomically. The revert
// path passes an existing entry's own triple, so the invoice returns to
// entry.OldStatus and a duplicate of that entry is appended. The selector
// path passes (chosen, displayed, now).
func (s *Service) Restore(ctx context.Context, req invoicedomain.RestoreRequest) error {
	invoiceID, err := parseID(req.InvoiceID)
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}
	if !req.FromStatus.Valid() || !req.ToStatus.Valid() {
		return invoicedomain.ErrInvalidStatus
	}
	// The invoice moves from its logged current status back to the from
	// value, so the policy sees (to, from).
	if err := s.policy.Allow(req.ToStatus, req.FromStatus); err != nil {
		return err
	}

	kind := kindRevert
	if req.Kind == invoicedomain.KindDirectChange {
		kind = kindDirectChange
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Exec(
			`UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`,
			req.FromStatus,
			s.clock.Now(),
			invoiceID,
		)
		if result.Error != nil {
			return fmt.Errorf("update invoice status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return invoicedomain.ErrInvoiceNotFound
		}

		entry := &activitylogdomain.ActivityLog{
			ID:            s.genID.Generate(),
			InvoiceID:     invoiceID,
			OldStatus:     req.FromStatus,
			CurrentStatus: req.ToStatus,
			Date:          date.UTC(),
		}
		if err := s.logRepo.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("append activity log: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveFailure(string(kind))
		return err
	}

	s.metrics.ObserveTransition(string(kind), string(req.FromStatus))
	s.invalidator.InvalidateInvoice(ctx, req.InvoiceID)
	return nil
}

// Cancel routes the cancel shortcut through the atomic direct-change path so
// the transition is logged like any selector pick.
func (s *Service) Cancel(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}

	invoice, err := s.loadInvoice(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return invoicedomain.ErrInvoiceNotFound
	}

	now := s.clock.Now()
	displayed := status.Derive(invoice.Status, invoice.CreatedAt, now, s.overdueDays)

	return s.Restore(ctx, invoicedomain.RestoreRequest{
		InvoiceID:  id,
		FromStatus: invoicedomain.StatusCanceled,
		ToStatus:   displayed,
		Date:       now,
		Kind:       invoicedomain.KindDirectChange,
	})
}

func (s *Service) loadInvoice(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, amount_cents, status, created_at, updated_at
		 FROM invoices
		 WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
