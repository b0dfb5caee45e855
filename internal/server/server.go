// Package server exposes the HTTP surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/warung/internal/catalog"
	catalogdomain "github.com/smallbiznis/warung/internal/catalog/domain"
	"github.com/smallbiznis/warung/internal/config"
	"github.com/smallbiznis/warung/internal/customer"
	customerdomain "github.com/smallbiznis/warung/internal/customer/domain"
	"github.com/smallbiznis/warung/internal/migration"
	"github.com/smallbiznis/warung/internal/observability"
	obsmiddleware "github.com/smallbiznis/warung/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/warung/internal/observability/metrics"
	"github.com/smallbiznis/warung/internal/order"
	orderdomain "github.com/smallbiznis/warung/internal/order/domain"
	"github.com/smallbiznis/warung/internal/reconcile"
	"github.com/smallbiznis/warung/internal/seed"
	"github.com/smallbiznis/warung/internal/stats"
	statsdomain "github.com/smallbiznis/warung/internal/stats/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	customer.Module,
	order.Module,
	reconcile.Module,
	stats.Module,
	migration.Module,
	seed.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	catalogSvc  catalogdomain.Service
	orderSvc    orderdomain.Service
	customerSvc customerdomain.Service
	statsSvc    statsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	CatalogSvc  catalogdomain.Service
	OrderSvc    orderdomain.Service
	CustomerSvc customerdomain.Service
	StatsSvc    statsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		catalogSvc:  p.CatalogSvc,
		orderSvc:    p.OrderSvc,
		customerSvc: p.CustomerSvc,
		statsSvc:    p.StatsSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)

	// -------- Modifiers --------
	api.GET("/modifiers", s.ListModifiers)
	api.POST("/modifiers", s.CreateModifier)
	api.PATCH("/modifiers/:id", s.UpdateModifier)
	api.DELETE("/modifiers/:id", s.DeactivateModifier)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)

	// -------- Stats --------
	api.GET("/stats", s.GetStats)
	api.GET("/stats/latest", s.GetStatsLatest)
}
