// Package cashback implements the tiered cashback rule engine and the
// outbound credit-balance lookup client.
package cashback

import (
	"github.com/shopspring/decimal"

	"cashback-backend/internal/common/config"
)

// Tier maps a half-open amount range to a cashback percentage. A value v
// matches when v > Min and (v <= Max or Max is nil).
type Tier struct {
	Min        decimal.Decimal
	Max        *decimal.Decimal
	Percentage decimal.Decimal
}

// Contains reports whether v falls inside the tier's range.
func (t Tier) Contains(v decimal.Decimal) bool {
	if !v.GreaterThan(t.Min) {
		return false
	}
	return t.Max == nil || v.LessThanOrEqual(*t.Max)
}

// Result is the rule-engine output for one purchase amount.
type Result struct {
	AppliedPercentage string
	Amount            decimal.Decimal
}

// DefaultTiers returns the process-wide default rules: up to 1000 pays 10%,
// up to 1500 pays 15%, anything above pays 20%.
func DefaultTiers() []Tier {
	max1 := decimal.NewFromInt(1000)
	max2 := decimal.NewFromInt(1500)
	return []Tier{
		{Min: decimal.Zero, Max: &max1, Percentage: decimal.NewFromFloat(0.10)},
		{Min: max1, Max: &max2, Percentage: decimal.NewFromFloat(0.15)},
		{Min: max2, Percentage: decimal.NewFromFloat(0.20)},
	}
}

// TiersFromConfig builds the tier list from deployment configuration,
// falling back to the defaults when none are configured.
func TiersFromConfig(cfgTiers []config.TierConfig) []Tier {
	if len(cfgTiers) == 0 {
		return DefaultTiers()
	}
	tiers := make([]Tier, 0, len(cfgTiers))
	for _, c := range cfgTiers {
		t := Tier{
			Min:        decimal.NewFromFloat(c.Min),
			Percentage: decimal.NewFromFloat(c.Percentage),
		}
		if c.Max != nil {
			max := decimal.NewFromFloat(*c.Max)
			t.Max = &max
		}
		tiers = append(tiers, t)
	}
	return tiers
}

// Apply scans tiers in order and returns the first matching tier's
// percentage applied to amount. No match yields 0%. Arithmetic is decimal
// so two-decimal currency values never drift.
func Apply(amount decimal.Decimal, tiers []Tier) Result {
	perc := decimal.Zero
	for _, t := range tiers {
		if t.Contains(amount) {
			perc = t.Percentage
			break
		}
	}
	return Result{
		AppliedPercentage: FormatPercentage(perc),
		Amount:            amount.Mul(perc),
	}
}

// FormatPercentage renders a fractional percentage as its display string,
// e.g. 0.15 becomes "15%".
func FormatPercentage(p decimal.Decimal) string {
	return p.Mul(decimal.NewFromInt(100)).String() + "%"
}
