package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sokogate/internal/infrastructure/config"
	"sokogate/internal/infrastructure/scheduler"
	"sokogate/internal/interfaces/http/handlers"
	"sokogate/internal/interfaces/http/middleware"
	"sokogate/internal/shared/logger"
)

// Router owns the gin engine, the HTTP server and the billing scheduler.
type Router struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.Config
	logger logger.Interface

	billingScheduler *scheduler.BillingScheduler

	healthHandler       *handlers.HealthHandler
	customerHandler     *handlers.CustomerHandler
	planHandler         *handlers.PlanHandler
	subscriptionHandler *handlers.SubscriptionHandler
	preorderHandler     *handlers.PreOrderHandler
	productHandler      *handlers.ProductHandler
	billingHandler      *handlers.BillingHandler
}

// NewRouter wires repositories, use cases and handlers onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		cfg:    cfg,
		logger: log,
	}

	deps := buildDependencies(cfg, db, redisClient, log)

	r.healthHandler = deps.healthHandler
	r.customerHandler = deps.customerHandler
	r.planHandler = deps.planHandler
	r.subscriptionHandler = deps.subscriptionHandler
	r.preorderHandler = deps.preorderHandler
	r.productHandler = deps.productHandler
	r.billingHandler = deps.billingHandler
	r.billingScheduler = deps.billingScheduler

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	customers := r.engine.Group("/customers")
	{
		customers.POST("", r.customerHandler.CreateCustomer)
		customers.GET("/:id", r.customerHandler.GetCustomer)
	}

	plans := r.engine.Group("/plans")
	{
		plans.GET("", r.planHandler.ListPlans)
		plans.GET("/:id", r.planHandler.GetPlan)
	}

	subscriptions := r.engine.Group("/subscriptions")
	{
		subscriptions.POST("", r.subscriptionHandler.CreateSubscription)
		subscriptions.GET("/:id", r.subscriptionHandler.GetSubscription)
		subscriptions.GET("/:id/usage", r.subscriptionHandler.GetUsage)
		subscriptions.POST("/:id/pause", r.subscriptionHandler.PauseSubscription)
		subscriptions.POST("/:id/resume", r.subscriptionHandler.ResumeSubscription)
		subscriptions.POST("/:id/cancel", r.subscriptionHandler.CancelSubscription)
	}

	preorders := r.engine.Group("/preorders")
	{
		preorders.POST("", r.preorderHandler.CreatePreOrder)
		preorders.GET("", r.preorderHandler.ListPreOrders)
		preorders.GET("/:id", r.preorderHandler.GetPreOrder)
		preorders.POST("/:id/cancel", r.preorderHandler.CancelPreOrder)
	}

	products := r.engine.Group("/products")
	{
		products.GET("", r.productHandler.ListProducts)
		products.GET("/:id", r.productHandler.GetProduct)
	}

	admin := r.engine.Group("/admin")
	{
		admin.POST("/products", r.productHandler.CreateProduct)
		admin.POST("/billing/sweep", r.billingHandler.RunSweep)
	}
}

// Start begins serving HTTP and starts the billing scheduler.
func (r *Router) Start(ctx context.Context) error {
	r.billingScheduler.Start(ctx)

	r.server = &http.Server{
		Addr:              r.cfg.Server.GetAddr(),
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.logger.Infow("http server starting", "addr", r.server.Addr)
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and drains in-flight requests.
func (r *Router) Shutdown(ctx context.Context) error {
	r.billingScheduler.Stop()

	if r.server == nil {
		return nil
	}
	if err := r.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// Engine exposes the underlying gin engine, used by tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
