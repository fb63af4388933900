package usecases

import "context"

// InventoryService reports how many units of a product are still open for
// pre-order. Inventory accounting is external to the usage ledger.
type InventoryService interface {
	RemainingPreorderInventory(ctx context.Context, productID uint) (int, error)
}
