package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billfold/internal/activitylog/domain"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("activitylog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, req domain.AppendRequest) (domain.ActivityLog, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		return domain.ActivityLog{}, invoicedomain.ErrInvalidInvoiceID
	}
	if !req.OldStatus.Valid() || !req.CurrentStatus.Valid() {
		return domain.ActivityLog{}, domain.ErrInvalidEntry
	}
	if req.Date.IsZero() {
		return domain.ActivityLog{}, domain.ErrInvalidEntry
	}

	entry := domain.ActivityLog{
		ID:            s.genID.Generate(),
		InvoiceID:     invoiceID,
		OldStatus:     req.OldStatus,
		CurrentStatus: req.CurrentStatus,
		Date:          req.Date.UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to append activity log",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err),
		)
		return domain.ActivityLog{}, fmt.Errorf("append activity log: %w", err)
	}
	return entry, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]domain.View, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	items, err := s.repo.ListByInvoice(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}

	entries := make([]domain.View, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}
	return entries, nil
}
