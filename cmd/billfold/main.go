package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/billfold/internal/activitylog"
	"github.com/smallbiznis/billfold/internal/cache"
	"github.com/smallbiznis/billfold/internal/clock"
	"github.com/smallbiznis/billfold/internal/config"
	"github.com/smallbiznis/billfold/internal/customer"
	"github.com/smallbiznis/billfold/internal/invoice"
	"github.com/smallbiznis/billfold/internal/migration"
	"github.com/smallbiznis/billfold/internal/observability/metrics"
	"github.com/smallbiznis/billfold/internal/server"
	"github.com/smallbiznis/billfold/pkg/db"
	"github.com/smallbiznis/billfold/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		customer.Module,
		activitylog.Module,
		invoice.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
