package gateway

import (
	"fmt"

	"sokogate/internal/shared/config"
)

// ProviderMock identifies the in-process gateway.
const ProviderMock = "mock"

// FromConfig selects the configured payment gateway. An empty provider
// falls back to the mock so development setups work without a payment
// section.
func FromConfig(cfg *config.PaymentConfig) (PaymentGateway, error) {
	switch cfg.Provider {
	case "", ProviderMock:
		return NewMockGateway(cfg.MockApprove), nil
	default:
		return nil, fmt.Errorf("unsupported payment provider: %q", cfg.Provider)
	}
}
