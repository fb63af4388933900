package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txTestRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64"`
}

func setupTxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&txTestRecord{}))
	return database
}

func countRecords(t *testing.T, database *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.Model(&txTestRecord{}).Count(&count).Error)
	return count
}

// ============================================================================
// RunInTransaction
// ============================================================================

func TestRunInTransaction_CommitsOnSuccess(t *testing.T) {
	database := setupTxTestDB(t)
	tm := NewTransactionManager(database)

	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		return tm.GetTx(txCtx).Create(&txTestRecord{Name: "kept"}).Error
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRecords(t, database))
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	database := setupTxTestDB(t)
	tm := NewTransactionManager(database)

	boom := errors.New("late failure")
	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		if err := tm.GetTx(txCtx).Create(&txTestRecord{Name: "discarded"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int64(0), countRecords(t, database), "insert is rolled back with the transaction")
}

func TestRunInTransaction_NilManagerRunsWithoutTransaction(t *testing.T) {
	var tm *TransactionManager

	ran := false
	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

// ============================================================================
// GetTx / GetTxFromContext
// ============================================================================

func TestGetTxFromContext(t *testing.T) {
	database := setupTxTestDB(t)
	tm := NewTransactionManager(database)

	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		tx := GetTxFromContext(txCtx, database)
		return tx.Create(&txTestRecord{Name: "via ambient tx"}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRecords(t, database))

	// Outside a transaction the default handle is returned.
	plain := GetTxFromContext(context.Background(), database)
	assert.Equal(t, int64(1), countRecords(t, plain))
}
