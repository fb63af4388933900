package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sokogate/internal/domain/subscription"
	"sokogate/internal/infrastructure/persistence/models"
	"sokogate/internal/shared/db"
	"sokogate/internal/shared/logger"
)

// LedgerRepositoryImpl persists usage ledger entries. Reservation is a
// single conditional UPDATE: the limit check and the increment execute as
// one statement, so concurrent admissions can never both pass the check
// against stale counters. The unique (subscription_id, period_start) index
// makes entry creation race-safe.
type LedgerRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewLedgerRepository(db *gorm.DB, logger logger.Interface) subscription.LedgerRepository {
	return &LedgerRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *LedgerRepositoryImpl) GetOrCreate(ctx context.Context, subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
	model := &models.LedgerEntryModel{
		SubscriptionID: subscriptionID,
		PeriodStart:    periodStart.UTC(),
		Version:        1,
	}

	// Losing the insert race is fine: DoNothing swallows the conflict and
	// the follow-up read returns whichever entry won.
	result := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subscription_id"}, {Name: "period_start"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to create ledger entry", "error", result.Error, "subscription_id", subscriptionID)
		return nil, fmt.Errorf("failed to create ledger entry: %w", result.Error)
	}

	return r.Get(ctx, subscriptionID, periodStart)
}

func (r *LedgerRepositoryImpl) Get(ctx context.Context, subscriptionID uint, periodStart time.Time) (*subscription.LedgerEntry, error) {
	var model models.LedgerEntryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ? AND period_start = ?", subscriptionID, periodStart.UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrLedgerEntryNotFound
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return r.toEntity(&model), nil
}

func (r *LedgerRepositoryImpl) Reserve(
	ctx context.Context,
	subscriptionID uint,
	periodStart time.Time,
	plan *subscription.Plan,
	count int,
	valueCents int64,
) (*subscription.LedgerEntry, error) {
	if _, err := r.GetOrCreate(ctx, subscriptionID, periodStart); err != nil {
		return nil, err
	}

	// A rejected conditional update re-reads and re-checks; a concurrent
	// release may have freed headroom between the two, so retry a few
	// times before giving up.
	for attempt := 0; attempt < 3; attempt++ {
		tx := db.GetTxFromContext(ctx, r.db).Model(&models.LedgerEntryModel{}).
			Where("subscription_id = ? AND period_start = ?", subscriptionID, periodStart.UTC())

		if !plan.IsCountUnlimited() {
			tx = tx.Where("preorder_count + ? <= ?", count, plan.MaxPreordersPerPeriod())
		}
		if !plan.IsValueUnlimited() {
			tx = tx.Where("preorder_value_cents + ? <= ?", valueCents, plan.MaxPreorderValueCents())
		}

		result := tx.Updates(map[string]interface{}{
			"preorder_count":       gorm.Expr("preorder_count + ?", count),
			"preorder_value_cents": gorm.Expr("preorder_value_cents + ?", valueCents),
			"version":              gorm.Expr("version + 1"),
			"updated_at":           time.Now(),
		})
		if result.Error != nil {
			r.logger.Errorw("ledger reserve failed", "error", result.Error, "subscription_id", subscriptionID)
			return nil, fmt.Errorf("failed to reserve: %w", result.Error)
		}

		if result.RowsAffected > 0 {
			return r.Get(ctx, subscriptionID, periodStart)
		}

		entry, err := r.Get(ctx, subscriptionID, periodStart)
		if err != nil {
			return nil, err
		}
		if err := entry.CheckReserve(plan, count, valueCents); err != nil {
			return nil, err
		}
		// Check passed against the fresh read, so the conditional update
		// lost a race; go around again.
	}

	return nil, fmt.Errorf("failed to reserve after repeated contention on subscription %d", subscriptionID)
}

func (r *LedgerRepositoryImpl) Release(ctx context.Context, subscriptionID uint, periodStart time.Time, count int, valueCents int64) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.LedgerEntryModel{}).
		Where("subscription_id = ? AND period_start = ?", subscriptionID, periodStart.UTC()).
		Where("preorder_count >= ? AND preorder_value_cents >= ?", count, valueCents).
		Updates(map[string]interface{}{
			"preorder_count":       gorm.Expr("preorder_count - ?", count),
			"preorder_value_cents": gorm.Expr("preorder_value_cents - ?", valueCents),
			"version":              gorm.Expr("version + 1"),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		r.logger.Errorw("ledger release failed", "error", result.Error, "subscription_id", subscriptionID)
		return fmt.Errorf("failed to release: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, subscriptionID, periodStart); err != nil {
			return err
		}
		// Entry exists but the guard refused: this release would drive a
		// counter negative.
		return fmt.Errorf("%w: release of %d orders / %d cents would underflow entry for subscription %d",
			subscription.ErrConsistency, count, valueCents, subscriptionID)
	}

	return nil
}

func (r *LedgerRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*subscription.LedgerEntry, error) {
	var entryModels []*models.LedgerEntryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("period_start DESC").
		Find(&entryModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	entries := make([]*subscription.LedgerEntry, 0, len(entryModels))
	for _, model := range entryModels {
		entries = append(entries, r.toEntity(model))
	}
	return entries, nil
}

func (r *LedgerRepositoryImpl) toEntity(model *models.LedgerEntryModel) *subscription.LedgerEntry {
	return subscription.ReconstructLedgerEntry(
		model.ID,
		model.SubscriptionID,
		model.PeriodStart,
		model.PreorderCount,
		model.PreorderValueCents,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
}
