package http

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sokogate/internal/application/billing/gateway"
	billingUsecases "sokogate/internal/application/billing/usecases"
	customerUsecases "sokogate/internal/application/customer/usecases"
	appnotification "sokogate/internal/application/notification"
	preorderUsecases "sokogate/internal/application/preorder/usecases"
	subUsecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/infrastructure/cache"
	"sokogate/internal/infrastructure/config"
	"sokogate/internal/infrastructure/inventory"
	"sokogate/internal/infrastructure/notification"
	"sokogate/internal/infrastructure/repository"
	"sokogate/internal/infrastructure/scheduler"
	"sokogate/internal/interfaces/http/handlers"
	shareddb "sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

const appVersion = "1.0.0"

type dependencies struct {
	healthHandler       *handlers.HealthHandler
	customerHandler     *handlers.CustomerHandler
	planHandler         *handlers.PlanHandler
	subscriptionHandler *handlers.SubscriptionHandler
	preorderHandler     *handlers.PreOrderHandler
	productHandler      *handlers.ProductHandler
	billingHandler      *handlers.BillingHandler
	billingScheduler    *scheduler.BillingScheduler
}

func buildDependencies(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) *dependencies {
	customerRepo := repository.NewCustomerRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	ledgerRepo := repository.NewLedgerRepository(db, log)
	productRepo := repository.NewProductRepository(db, log)
	preorderRepo := repository.NewPreOrderRepository(db, log)

	var notifier appnotification.Sender
	if cfg.Email.Enabled {
		notifier = notification.NewSMTPSender(&cfg.Email, log)
	} else {
		notifier = notification.NewLogSender(log)
	}

	var usageCache subUsecases.UsageCache
	if cfg.Cache.Enabled && redisClient != nil {
		usageCache = cache.NewRedisUsageCache(
			redisClient,
			time.Duration(cfg.Cache.UsageTTLSeconds)*time.Second,
			log,
		)
	}

	paymentGateway, err := gateway.FromConfig(&cfg.Payment)
	if err != nil {
		log.Fatalw("failed to build payment gateway", "error", err)
	}
	gatewayTimeout := time.Duration(cfg.Billing.GatewayTimeoutSeconds) * time.Second
	inventoryService := inventory.NewService(productRepo, preorderRepo, log)

	createSubscriptionUC := subUsecases.NewCreateSubscriptionUseCase(
		subscriptionRepo, planRepo, ledgerRepo, customerRepo,
		paymentGateway, notifier, gatewayTimeout, log,
	)
	getSubscriptionUC := subUsecases.NewGetSubscriptionUseCase(subscriptionRepo)
	pauseSubscriptionUC := subUsecases.NewPauseSubscriptionUseCase(subscriptionRepo, customerRepo, notifier, log)
	resumeSubscriptionUC := subUsecases.NewResumeSubscriptionUseCase(subscriptionRepo, customerRepo, notifier, log)
	txMgr := shareddb.NewTransactionManager(db)
	cancelSubscriptionUC := subUsecases.NewCancelSubscriptionUseCase(
		subscriptionRepo, preorderRepo, ledgerRepo, customerRepo, txMgr, notifier, log,
	)
	getUsageUC := subUsecases.NewGetUsageUseCase(subscriptionRepo, planRepo, ledgerRepo, usageCache, log)
	listPlansUC := subUsecases.NewListPlansUseCase(planRepo)
	getPlanUC := subUsecases.NewGetPlanUseCase(planRepo)

	eligibilityEngine := preorderUsecases.NewEligibilityEngine(planRepo, ledgerRepo, inventoryService, log)
	createPreOrderUC := preorderUsecases.NewCreatePreOrderUseCase(
		subscriptionRepo, productRepo, preorderRepo, ledgerRepo, customerRepo,
		eligibilityEngine, usageCache, notifier, log,
	)
	cancelPreOrderUC := preorderUsecases.NewCancelPreOrderUseCase(
		preorderRepo, subscriptionRepo, ledgerRepo, customerRepo, usageCache, notifier, log,
	)
	listPreOrdersUC := preorderUsecases.NewListPreOrdersUseCase(preorderRepo)
	getPreOrderUC := preorderUsecases.NewGetPreOrderUseCase(preorderRepo)
	createProductUC := preorderUsecases.NewCreateProductUseCase(productRepo)
	listProductsUC := preorderUsecases.NewListProductsUseCase(productRepo)
	getProductUC := preorderUsecases.NewGetProductUseCase(productRepo)

	createCustomerUC := customerUsecases.NewCreateCustomerUseCase(customerRepo)
	getCustomerUC := customerUsecases.NewGetCustomerUseCase(customerRepo)

	runSweepUC := billingUsecases.NewRunBillingSweepUseCase(
		subscriptionRepo, planRepo, ledgerRepo, customerRepo,
		paymentGateway, notifier, usageCache,
		cfg.Billing.RetryScheduleDays, gatewayTimeout, log,
	)

	sweepInterval := time.Duration(cfg.Billing.SweepIntervalMinutes) * time.Minute
	billingScheduler := scheduler.NewBillingScheduler(runSweepUC, sweepInterval, log.Named("scheduler"))

	return &dependencies{
		healthHandler:   handlers.NewHealthHandler(appVersion),
		customerHandler: handlers.NewCustomerHandler(createCustomerUC, getCustomerUC),
		planHandler:     handlers.NewPlanHandler(listPlansUC, getPlanUC),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			createSubscriptionUC, getSubscriptionUC,
			pauseSubscriptionUC, resumeSubscriptionUC, cancelSubscriptionUC,
			getUsageUC,
		),
		preorderHandler: handlers.NewPreOrderHandler(
			createPreOrderUC, cancelPreOrderUC, listPreOrdersUC, getPreOrderUC,
		),
		productHandler:   handlers.NewProductHandler(createProductUC, listProductsUC, getProductUC),
		billingHandler:   handlers.NewBillingHandler(runSweepUC),
		billingScheduler: billingScheduler,
	}
}
