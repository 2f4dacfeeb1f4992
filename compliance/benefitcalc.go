/*
benefitcalc.go - Gross/net benefit calculation

PURPOSE:
  Computes a benefit assignment's monthly amounts: base amount by
  calculation method, cap clamping, proration over the covered fraction
  of the month, employee-contribution netting, taxable base, and
  ZUS-equivalent contribution amounts.

CALCULATION PIPELINE:
  1. Base amount (Fixed / PercentageOfSalary / Formula)
  2. Clamp to BenefitType.MaxAmount when set
  3. Prorate when the effective range covers only part of the month
     (round to grosze, half away from zero)
  4. Net = gross - employee contribution
  5. Taxable base = gross when the type is taxable, else zero
  6. ZUS amounts from the injected ContributionRates

CONTRIBUTION RATES:
  The FULL/PARTIAL composite rates are statutory sums that change by
  law. DefaultContributionRates carries the current figures; callers
  inject a year-specific set from configuration.

SEE ALSO:
  - benefit.go: The types consumed here
  - factory/: Rate configuration loading
*/
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRIBUTION RATES - Injected, never compiled in at call sites
// =============================================================================

// ContributionRates are the composite ZUS-equivalent rates applied to a
// benefit's contribution base.
type ContributionRates struct {
	FullEmployee    decimal.Decimal // employee share under the FULL scheme
	FullEmployer    decimal.Decimal // employer share under the FULL scheme
	PartialEmployee decimal.Decimal // employee share under the PARTIAL scheme
}

// DefaultContributionRates returns the statutory composite rates:
// FULL 13.71% employee / 20.38% employer, PARTIAL 9% employee only.
func DefaultContributionRates() ContributionRates {
	return ContributionRates{
		FullEmployee:    decimal.New(1371, -4),
		FullEmployer:    decimal.New(2038, -4),
		PartialEmployee: decimal.New(9, -2),
	}
}

// =============================================================================
// CALCULATION RESULT
// =============================================================================

// CalculationResult carries every figure produced for one assignment in
// one month. No hidden rounding beyond the proration step.
type CalculationResult struct {
	GrossAmount          decimal.Decimal
	EmployeeContribution decimal.Decimal
	NetBenefit           decimal.Decimal

	TaxableAmount decimal.Decimal

	ZUSBase     decimal.Decimal
	ZUSEmployee decimal.Decimal
	ZUSEmployer decimal.Decimal

	// EffectiveDays is the number of days of the month covered by the
	// assignment's effective range (equals the month length when the
	// benefit is not prorated).
	EffectiveDays int
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculate computes the benefit amounts for one assignment in one
// month. grossSalary is the percentage base for PercentageOfSalary
// methods; rates are the year's contribution rates.
//
// An assignment whose Method is not one of the closed variants is a
// configuration bug and panics.
func Calculate(
	a BenefitAssignment,
	bt BenefitType,
	grossSalary decimal.Decimal,
	period MonthPeriod,
	rates ContributionRates,
) CalculationResult {
	gross := baseAmount(a, grossSalary)

	// Cap
	if bt.MaxAmount != nil && gross.GreaterThan(*bt.MaxAmount) {
		gross = *bt.MaxAmount
	}

	// Proration
	daysInMonth := period.Days()
	effectiveDays := daysInMonth
	if period.Contains(a.EffectiveFrom) {
		effectiveDays = daysInMonth - a.EffectiveFrom.Day() + 1
	}
	if a.EffectiveTo != nil && period.Contains(*a.EffectiveTo) {
		if a.EffectiveTo.Day() < effectiveDays {
			effectiveDays = a.EffectiveTo.Day()
		}
	}
	if effectiveDays < daysInMonth {
		gross = RoundMoney(gross.
			Mul(decimal.NewFromInt(int64(effectiveDays))).
			Div(decimal.NewFromInt(int64(daysInMonth))))
	}

	result := CalculationResult{
		GrossAmount:          gross,
		EmployeeContribution: a.EmployeeContribution,
		NetBenefit:           gross.Sub(a.EmployeeContribution),
		EffectiveDays:        effectiveDays,
	}

	// Tax treatment: the core only flags the taxable base; the actual
	// tax amount belongs to the payroll tax engine.
	if bt.Taxable {
		result.TaxableAmount = gross
	}

	// Contribution treatment
	if bt.ZUSApplicable {
		result.ZUSBase = gross
		switch bt.ZUSType {
		case ZUSFull:
			result.ZUSEmployee = gross.Mul(rates.FullEmployee)
			result.ZUSEmployer = gross.Mul(rates.FullEmployer)
		case ZUSPartial:
			result.ZUSEmployee = gross.Mul(rates.PartialEmployee)
		case ZUSExempt:
			// both zero
		default:
			panic(fmt.Sprintf("compliance: unrecognized ZUS type %q", bt.ZUSType))
		}
	}

	return result
}

func baseAmount(a BenefitAssignment, grossSalary decimal.Decimal) decimal.Decimal {
	switch m := a.Method.(type) {
	case Fixed:
		return m.Amount
	case PercentageOfSalary:
		return grossSalary.Mul(m.Percent).Div(decimal.NewFromInt(100))
	case Formula:
		return m.Value
	default:
		panic(fmt.Sprintf("compliance: unrecognized calculation method %T", a.Method))
	}
}
