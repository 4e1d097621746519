package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	activitylogdomain "github.com/smallbiznis/billfold/internal/activitylog/domain"
	"github.com/smallbiznis/billfold/internal/config"
	customerdomain "github.com/smallbiznis/billfold/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/billfold/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParam struct {
	fx.In

	Cfg          config.Config
	DB           *gorm.DB
	Log          *zap.Logger
	InvoiceSvc   invoicedomain.Service
	ActivitySvc  activitylogdomain.Service
	CustomerRepo customerdomain.Repository
}

type Server struct {
	cfg          config.Config
	db           *gorm.DB
	log          *zap.Logger
	invoiceSvc   invoicedomain.Service
	activitySvc  activitylogdomain.Service
	customerRepo customerdomain.Repository
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:          p.Cfg,
		db:           p.DB,
		log:          p.Log.Named("http.server"),
		invoiceSvc:   p.InvoiceSvc,
		activitySvc:  p.ActivitySvc,
		customerRepo: p.CustomerRepo,
	}
}

func registerRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api/v1")

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.POST("/invoices/:id/status", s.PickInvoiceStatus)
	api.POST("/invoices/:id/restore", s.RestoreInvoiceActivity)
	api.POST("/invoices/:id/cancel", s.CancelInvoice)
	api.GET("/invoices/:id/activity", s.ListInvoiceActivity)

	api.GET("/customers", s.ListCustomers)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping http server")
			return srv.Shutdown(ctx)
		},
	})
}
