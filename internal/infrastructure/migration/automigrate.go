package migration

import (
	"fmt"

	"gorm.io/gorm"

	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/logger"
)

// AutoMigrateModels lists every persistence model managed by the schema.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.CustomerModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.LedgerEntryModel{},
		&models.ProductModel{},
		&models.PreOrderModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the model structs. Used in
// development only; production runs versioned SQL scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto-migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto-migration failed", "error", err)
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	s.logger.Infow("auto-migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
