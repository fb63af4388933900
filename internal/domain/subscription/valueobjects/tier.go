package valueobjects

import (
	"fmt"
	"strings"
)

// Tier identifies a subscription plan level. Tier-specific behavior (limits,
// discount, early access) lives as data on the Plan, not as per-tier logic.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

var ValidTiers = map[Tier]bool{
	TierBasic:      true,
	TierPremium:    true,
	TierEnterprise: true,
}

func ParseTier(value string) (Tier, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	tier := Tier(normalized)

	if normalized == "" {
		return "", fmt.Errorf("tier cannot be empty")
	}

	if !ValidTiers[tier] {
		return "", fmt.Errorf("invalid tier: %s", value)
	}

	return tier, nil
}

func (t Tier) String() string {
	return string(t)
}

func (t Tier) IsValid() bool {
	return ValidTiers[t]
}
