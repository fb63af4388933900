package valueobjects

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidBillingCycle is returned when billing cycle is not valid
	ErrInvalidBillingCycle = errors.New("invalid billing cycle")
)

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleAnnually  BillingCycle = "annually"
)

var ValidBillingCycles = map[BillingCycle]bool{
	BillingCycleMonthly:   true,
	BillingCycleQuarterly: true,
	BillingCycleAnnually:  true,
}

// BillingCycleDays maps each cycle to its fixed period length. Periods are
// day-based so that period math stays stable across month lengths.
var BillingCycleDays = map[BillingCycle]int{
	BillingCycleMonthly:   30,
	BillingCycleQuarterly: 90,
	BillingCycleAnnually:  365,
}

func ParseBillingCycle(value string) (BillingCycle, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	cycle := BillingCycle(normalized)

	if normalized == "" {
		return "", fmt.Errorf("billing cycle cannot be empty")
	}

	if !ValidBillingCycles[cycle] {
		return "", fmt.Errorf("%w: %s", ErrInvalidBillingCycle, value)
	}

	return cycle, nil
}

func (b BillingCycle) String() string {
	return string(b)
}

func (b BillingCycle) IsValid() bool {
	return ValidBillingCycles[b]
}

func (b BillingCycle) Days() int {
	days, exists := BillingCycleDays[b]
	if !exists {
		return 0
	}
	return days
}

// NextPeriodEnd returns the end of the period that starts at from.
func (b BillingCycle) NextPeriodEnd(from time.Time) time.Time {
	return from.AddDate(0, 0, b.Days())
}

func (b BillingCycle) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

func (b *BillingCycle) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	cycle, err := ParseBillingCycle(str)
	if err != nil {
		return err
	}

	*b = cycle
	return nil
}
