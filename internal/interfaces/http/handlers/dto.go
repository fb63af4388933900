package handlers

import (
	"time"

	"sokogate/internal/domain/customer"
	"sokogate/internal/domain/preorder"
	"sokogate/internal/domain/subscription"
)

type PlanDTO struct {
	ID                    uint     `json:"id"`
	Code                  string   `json:"code"`
	Name                  string   `json:"name"`
	Tier                  string   `json:"tier"`
	MonthlyPriceCents     int64    `json:"monthly_price_cents"`
	BillingCycles         []string `json:"billing_cycles"`
	MaxPreordersPerPeriod int      `json:"max_preorders_per_period"`
	MaxPreorderValueCents int64    `json:"max_preorder_value_cents"`
	EarlyAccessDays       int      `json:"early_access_days"`
	DiscountPercent       float64  `json:"discount_percent"`
	MaxTrackedProducts    int      `json:"max_tracked_products"`
}

func toPlanDTO(plan *subscription.Plan) PlanDTO {
	cycles := make([]string, 0, len(plan.BillingCycles()))
	for _, c := range plan.BillingCycles() {
		cycles = append(cycles, c.String())
	}
	return PlanDTO{
		ID:                    plan.ID(),
		Code:                  plan.Code(),
		Name:                  plan.Name(),
		Tier:                  plan.Tier().String(),
		MonthlyPriceCents:     plan.MonthlyPriceCents(),
		BillingCycles:         cycles,
		MaxPreordersPerPeriod: plan.MaxPreordersPerPeriod(),
		MaxPreorderValueCents: plan.MaxPreorderValueCents(),
		EarlyAccessDays:       plan.EarlyAccessDays(),
		DiscountPercent:       plan.DiscountPercent(),
		MaxTrackedProducts:    plan.MaxTrackedProducts(),
	}
}

type SubscriptionDTO struct {
	ID                 uint       `json:"id"`
	CustomerID         uint       `json:"customer_id"`
	PlanID             uint       `json:"plan_id"`
	Status             string     `json:"status"`
	BillingCycle       string     `json:"billing_cycle"`
	PaymentMethod      string     `json:"payment_method"`
	AutoRenew          bool       `json:"auto_renew"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	PausedAt           *time.Time `json:"paused_at,omitempty"`
	FailedAttempts     int        `json:"failed_attempts"`
	NextRetryAt        *time.Time `json:"next_retry_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toSubscriptionDTO(sub *subscription.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:                 sub.ID(),
		CustomerID:         sub.CustomerID(),
		PlanID:             sub.PlanID(),
		Status:             sub.Status().String(),
		BillingCycle:       sub.BillingCycle().String(),
		PaymentMethod:      sub.PaymentMethod(),
		AutoRenew:          sub.AutoRenew(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		PausedAt:           sub.PausedAt(),
		FailedAttempts:     sub.FailedAttempts(),
		NextRetryAt:        sub.NextRetryAt(),
		CreatedAt:          sub.CreatedAt(),
	}
}

type PreOrderDTO struct {
	ID              uint      `json:"id"`
	SubscriptionID  uint      `json:"subscription_id"`
	ProductID       uint      `json:"product_id"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	DiscountPercent float64   `json:"discount_percent"`
	FinalPriceCents int64     `json:"final_price_cents"`
	Status          string    `json:"status"`
	PriorityLevel   int       `json:"priority_level"`
	PeriodStart     time.Time `json:"period_start"`
	CreatedAt       time.Time `json:"created_at"`
}

func toPreOrderDTO(po *preorder.PreOrder) PreOrderDTO {
	return PreOrderDTO{
		ID:              po.ID(),
		SubscriptionID:  po.SubscriptionID(),
		ProductID:       po.ProductID(),
		Quantity:        po.Quantity(),
		UnitPriceCents:  po.UnitPriceCents(),
		DiscountPercent: po.DiscountPercent(),
		FinalPriceCents: po.FinalPriceCents(),
		Status:          po.Status().String(),
		PriorityLevel:   po.PriorityLevel(),
		PeriodStart:     po.PeriodStart(),
		CreatedAt:       po.CreatedAt(),
	}
}

type ProductDTO struct {
	ID               uint      `json:"id"`
	SKU              string    `json:"sku"`
	Name             string    `json:"name"`
	PreorderEligible bool      `json:"preorder_eligible"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end,omitempty"`
	BasePriceCents   int64     `json:"base_price_cents"`
	InventoryLimit   int       `json:"inventory_limit"`
}

func toProductDTO(product *preorder.Product) ProductDTO {
	return ProductDTO{
		ID:               product.ID(),
		SKU:              product.SKU(),
		Name:             product.Name(),
		PreorderEligible: product.PreorderEligible(),
		WindowStart:      product.WindowStart(),
		WindowEnd:        product.WindowEnd(),
		BasePriceCents:   product.BasePriceCents(),
		InventoryLimit:   product.InventoryLimit(),
	}
}

type CustomerDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toCustomerDTO(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID(),
		Name:      c.Name(),
		Email:     c.Email(),
		CreatedAt: c.CreatedAt(),
	}
}
