/*
zfss.go - Company social fund (ZFŚS) eligibility tiers

PURPOSE:
  Resolves an employee's income against an ordered threshold table to an
  eligibility tier and benefit percentage. Income above every tabled
  band maps to a synthetic final band at half the last tabled percentage.

INVARIANTS:
  The threshold table is configuration supplied by the caller. An empty
  or unsorted table is a configuration bug, not user input, and fails
  fast with a panic.

SEE ALSO:
  - factory/: Threshold table loading and shape validation
  - payroll/: Fund balance checks around tier-resolved grants
*/
package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// THRESHOLD TABLE
// =============================================================================

// Threshold is one income band: incomes up to MaxIncome are eligible
// for Percentage of the base benefit.
type Threshold struct {
	MaxIncome  decimal.Decimal
	Percentage decimal.Decimal
}

// Tier is a resolved eligibility tier. Numbering is 1-based and
// contiguous; the synthetic above-all-bands tier is one past the last
// tabled tier.
type Tier struct {
	Number     int
	Percentage decimal.Decimal
}

// =============================================================================
// TIER RESOLUTION
// =============================================================================

// ResolveTier returns the first tier whose MaxIncome covers the income.
// Income above every band resolves to the synthetic tier one past the
// last tabled tier, at half the last tabled percentage.
//
// Panics when the table is empty or not strictly ascending by
// MaxIncome: threshold tables are configuration, and a malformed one is
// a bug to surface immediately, not a user error to report politely.
func ResolveTier(income decimal.Decimal, thresholds []Threshold) Tier {
	if len(thresholds) == 0 {
		panic("compliance: empty ZFSS threshold table")
	}
	for i := 1; i < len(thresholds); i++ {
		if !thresholds[i].MaxIncome.GreaterThan(thresholds[i-1].MaxIncome) {
			panic("compliance: ZFSS threshold table not ascending by max income")
		}
	}

	for i, t := range thresholds {
		if income.LessThanOrEqual(t.MaxIncome) {
			return Tier{Number: i + 1, Percentage: t.Percentage}
		}
	}

	last := thresholds[len(thresholds)-1]
	return Tier{
		Number:     len(thresholds) + 1,
		Percentage: last.Percentage.Div(decimal.NewFromInt(2)),
	}
}
