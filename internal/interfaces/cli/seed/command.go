package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sokogate/internal/infrastructure/config"
	"sokogate/internal/infrastructure/database"
	"sokogate/internal/infrastructure/repository"
	"sokogate/internal/infrastructure/seed"
	"sokogate/internal/shared/biztime"
	"sokogate/internal/shared/logger"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the plan catalog",
		Long:  `Load the subscription tier catalog from configuration into the database. Idempotent by plan code.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()
	planRepo := repository.NewPlanRepository(database.Get(), log)
	seeder := seed.NewPlanSeeder(planRepo, log)

	return seeder.Seed(context.Background(), &cfg.Catalog)
}
