package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"sokogate/internal/application/billing/gateway"
	billingUsecases "sokogate/internal/application/billing/usecases"
	appnotification "sokogate/internal/application/notification"
	subUsecases "sokogate/internal/application/subscription/usecases"
	"sokogate/internal/infrastructure/cache"
	"sokogate/internal/infrastructure/config"
	"sokogate/internal/infrastructure/database"
	"sokogate/internal/infrastructure/notification"
	"sokogate/internal/infrastructure/repository"
	"sokogate/internal/infrastructure/scheduler"
	"sokogate/internal/shared/biztime"
	"sokogate/internal/shared/logger"
)

// billingworker runs the billing sweep loop without the HTTP API. Deploy it
// alongside the server when renewals should keep running through API
// restarts, or as the only sweeper in multi-instance setups.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env, "")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		logger.Fatal("failed to initialize timezone", "error", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	log := logger.NewLogger().Named("billingworker")

	customerRepo := repository.NewCustomerRepository(database.Get(), log)
	planRepo := repository.NewPlanRepository(database.Get(), log)
	subscriptionRepo := repository.NewSubscriptionRepository(database.Get(), log)
	ledgerRepo := repository.NewLedgerRepository(database.Get(), log)

	var notifier appnotification.Sender
	if cfg.Email.Enabled {
		notifier = notification.NewSMTPSender(&cfg.Email, log)
	} else {
		notifier = notification.NewLogSender(log)
	}

	var usageCache subUsecases.UsageCache
	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnw("redis unreachable, usage cache invalidation disabled", "error", err)
		} else {
			usageCache = cache.NewRedisUsageCache(
				redisClient,
				time.Duration(cfg.Cache.UsageTTLSeconds)*time.Second,
				log,
			)
		}
		cancel()
	}

	paymentGateway, err := gateway.FromConfig(&cfg.Payment)
	if err != nil {
		logger.Fatal("failed to build payment gateway", "error", err)
	}

	runSweepUC := billingUsecases.NewRunBillingSweepUseCase(
		subscriptionRepo, planRepo, ledgerRepo, customerRepo,
		paymentGateway, notifier, usageCache,
		cfg.Billing.RetryScheduleDays,
		time.Duration(cfg.Billing.GatewayTimeoutSeconds)*time.Second,
		log,
	)

	sweepInterval := time.Duration(cfg.Billing.SweepIntervalMinutes) * time.Minute
	billingScheduler := scheduler.NewBillingScheduler(runSweepUC, sweepInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	billingScheduler.Start(ctx)
	logger.Info("billing worker started", "environment", env, "sweep_interval", sweepInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("billing worker shutting down", "signal", sig.String())
	billingScheduler.Stop()
	logger.Info("billing worker exited gracefully")
}
