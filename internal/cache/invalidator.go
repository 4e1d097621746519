// Package cache invalidates list/detail views after a successful mutation so
// dashboards reflect new state.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/billfold/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	invoiceListKey      = "views:invoices"
	invoiceDetailFormat = "views:invoices:%s"
)

// Invalidator is called after a successful mutation. Failures are logged,
// never surfaced: a stale view is preferable to a failed write report.
type Invalidator interface {
	InvalidateInvoice(ctx context.Context, invoiceID string)
}

// Module provides the redis invalidator when REDIS_ADDR is configured and a
// no-op otherwise.
var Module = fx.Module("cache",
	fx.Provide(New),
)

func New(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) Invalidator {
	if cfg.RedisAddr == "" {
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.StopHook(func() error {
		return client.Close()
	}))

	return &redisInvalidator{
		client: client,
		log:    logger.Named("cache.invalidator"),
	}
}

type redisInvalidator struct {
	client *redis.Client
	log    *zap.Logger
}

func (r *redisInvalidator) InvalidateInvoice(ctx context.Context, invoiceID string) {
	keys := []string{invoiceListKey, fmt.Sprintf(invoiceDetailFormat, invoiceID)}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("failed to invalidate invoice views",
			zap.String("invoice_id", invoiceID),
			zap.Error(err),
		)
	}
}

// Noop satisfies Invalidator for deployments without redis and for tests.
type Noop struct{}

func (Noop) InvalidateInvoice(ctx context.Context, invoiceID string) {}
