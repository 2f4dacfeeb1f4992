package compliance_test

import (
	"testing"
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(v float64) decimal.Decimal { return compliance.NewMoney(v) }

func fixedAssignment(amount float64, from compliance.Date) compliance.BenefitAssignment {
	return compliance.BenefitAssignment{
		ID:            "a-1",
		EmployeeID:    "e-1",
		BenefitTypeID: "bt-1",
		Method:        compliance.Fixed{Amount: money(amount)},
		EffectiveFrom: from,
		Status:        compliance.BenefitActive,
	}
}

func plainType() compliance.BenefitType {
	return compliance.BenefitType{
		ID:       "bt-1",
		Name:     "Sport card",
		Category: compliance.CategorySport,
	}
}

// assertMoney fails unless got equals want to the grosz.
func assertMoney(t *testing.T, label string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Equal(money(want)) {
		t.Errorf("%s: got %s, want %v", label, got, want)
	}
}

// =============================================================================
// BASE AMOUNT AND CAP
// =============================================================================

func TestCalculate_FixedAmount(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2025, time.January, 1))
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "gross", result.GrossAmount, 300)
	assertMoney(t, "net", result.NetBenefit, 300)
	if !result.TaxableAmount.IsZero() {
		t.Errorf("non-taxable type must flag a zero taxable base, got %s", result.TaxableAmount)
	}
}

func TestCalculate_PercentageOfSalary(t *testing.T) {
	// GIVEN: A 10% benefit on a 10000 gross salary
	// WHEN: Calculating
	// THEN: Gross amount is 1000
	a := fixedAssignment(0, compliance.NewDate(2025, time.January, 1))
	a.Method = compliance.PercentageOfSalary{Percent: decimal.NewFromInt(10)}
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), money(10000), period, compliance.DefaultContributionRates())
	assertMoney(t, "gross", result.GrossAmount, 1000)
}

func TestCalculate_FormulaUsesPrecomputedValue(t *testing.T) {
	a := fixedAssignment(0, compliance.NewDate(2025, time.January, 1))
	a.Method = compliance.Formula{Value: money(412.50)}
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), money(10000), period, compliance.DefaultContributionRates())
	assertMoney(t, "gross", result.GrossAmount, 412.50)
}

func TestCalculate_CapClampsGross(t *testing.T) {
	a := fixedAssignment(800, compliance.NewDate(2025, time.January, 1))
	bt := plainType()
	cap := money(500)
	bt.MaxAmount = &cap
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, bt, decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "gross", result.GrossAmount, 500)
}

// =============================================================================
// PRORATION
// =============================================================================

func TestCalculate_ProrationFromMidMonth(t *testing.T) {
	// GIVEN: A fixed 300 benefit effective from the 15th of a 31-day month
	// WHEN: Calculating for that month
	// THEN: round(300 * 17/31, 2) = 164.52
	a := fixedAssignment(300, compliance.NewDate(2025, time.March, 15))
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "gross", result.GrossAmount, 164.52)
	if result.EffectiveDays != 17 {
		t.Errorf("effective days: got %d, want 17", result.EffectiveDays)
	}
}

func TestCalculate_ProrationToMidMonth(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2024, time.January, 1))
	to := compliance.NewDate(2025, time.March, 10)
	a.EffectiveTo = &to
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	// 300 * 10/31 = 96.774... -> 96.77
	assertMoney(t, "gross", result.GrossAmount, 96.77)
	if result.EffectiveDays != 10 {
		t.Errorf("effective days: got %d, want 10", result.EffectiveDays)
	}
}

func TestCalculate_ProrationBothEndsInsideMonth(t *testing.T) {
	a := fixedAssignment(310, compliance.NewDate(2025, time.March, 11))
	to := compliance.NewDate(2025, time.March, 20)
	a.EffectiveTo = &to
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	// effectiveDays = min(31-11+1, 20) = 20; 310 * 20/31 = 200
	assertMoney(t, "gross", result.GrossAmount, 200)
	if result.EffectiveDays != 20 {
		t.Errorf("effective days: got %d, want 20", result.EffectiveDays)
	}
}

func TestCalculate_FullMonthNotRounded(t *testing.T) {
	// A full-month benefit passes through without the proration rounding.
	a := fixedAssignment(0, compliance.NewDate(2024, time.January, 1))
	a.Method = compliance.Formula{Value: compliance.ParseMoney("123.456")}
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	if !result.GrossAmount.Equal(compliance.ParseMoney("123.456")) {
		t.Errorf("unprorated gross must be untouched, got %s", result.GrossAmount)
	}
}

// =============================================================================
// NET, TAX, AND CONTRIBUTIONS
// =============================================================================

func TestCalculate_NetSubtractsEmployeeContribution(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2025, time.January, 1))
	a.EmployeeContribution = money(50)
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, plainType(), decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "net", result.NetBenefit, 250)
	assertMoney(t, "employee contribution", result.EmployeeContribution, 50)
}

func TestCalculate_TaxableFlagsGrossAsBase(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2025, time.January, 1))
	bt := plainType()
	bt.Taxable = true
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, bt, decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "taxable", result.TaxableAmount, 300)
}

func TestCalculate_ZUSFull(t *testing.T) {
	// GIVEN: A 10% benefit on 10000 salary with the FULL scheme
	// WHEN: Calculating with the default composite rates
	// THEN: Employee 137.10, employer 203.80
	a := fixedAssignment(0, compliance.NewDate(2025, time.January, 1))
	a.Method = compliance.PercentageOfSalary{Percent: decimal.NewFromInt(10)}
	bt := plainType()
	bt.ZUSApplicable = true
	bt.ZUSType = compliance.ZUSFull
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, bt, money(10000), period, compliance.DefaultContributionRates())
	assertMoney(t, "zus base", result.ZUSBase, 1000)
	assertMoney(t, "zus employee", result.ZUSEmployee, 137.10)
	assertMoney(t, "zus employer", result.ZUSEmployer, 203.80)
}

func TestCalculate_ZUSPartialAndExempt(t *testing.T) {
	a := fixedAssignment(1000, compliance.NewDate(2025, time.January, 1))
	bt := plainType()
	bt.ZUSApplicable = true
	period := compliance.NewMonthPeriod(2025, time.March)

	bt.ZUSType = compliance.ZUSPartial
	result := compliance.Calculate(a, bt, decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "partial employee", result.ZUSEmployee, 90)
	assertMoney(t, "partial employer", result.ZUSEmployer, 0)

	bt.ZUSType = compliance.ZUSExempt
	result = compliance.Calculate(a, bt, decimal.Zero, period, compliance.DefaultContributionRates())
	assertMoney(t, "exempt employee", result.ZUSEmployee, 0)
	assertMoney(t, "exempt employer", result.ZUSEmployer, 0)
}

func TestCalculate_NotZUSApplicable(t *testing.T) {
	a := fixedAssignment(1000, compliance.NewDate(2025, time.January, 1))
	bt := plainType()
	bt.ZUSApplicable = false
	bt.ZUSType = compliance.ZUSFull // ignored when not applicable
	period := compliance.NewMonthPeriod(2025, time.March)

	result := compliance.Calculate(a, bt, decimal.Zero, period, compliance.DefaultContributionRates())
	if !result.ZUSBase.IsZero() || !result.ZUSEmployee.IsZero() || !result.ZUSEmployer.IsZero() {
		t.Error("ZUS figures must be zero when the type is not contribution-applicable")
	}
}

func TestCalculate_UnknownMethodPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil calculation method")
		}
	}()

	a := fixedAssignment(0, compliance.NewDate(2025, time.January, 1))
	a.Method = nil
	compliance.Calculate(a, plainType(), decimal.Zero, compliance.NewMonthPeriod(2025, time.March), compliance.DefaultContributionRates())
}

// =============================================================================
// ASSIGNMENT INVARIANTS
// =============================================================================

func TestBenefitAssignmentValidate(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2025, time.March, 10))
	to := compliance.NewDate(2025, time.March, 1) // before from
	a.EffectiveTo = &to
	a.EmployeeContribution = money(-1)

	res := a.Validate()
	if len(res.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(res.Violations), res.Violations)
	}
}

func TestBenefitAssignment_ActiveIn(t *testing.T) {
	a := fixedAssignment(300, compliance.NewDate(2025, time.April, 1))
	march := compliance.NewMonthPeriod(2025, time.March)
	april := compliance.NewMonthPeriod(2025, time.April)

	if a.ActiveIn(march) {
		t.Error("assignment starting in April is not active in March")
	}
	if !a.ActiveIn(april) {
		t.Error("assignment starting in April is active in April")
	}

	to := compliance.NewDate(2025, time.April, 30)
	a.EffectiveTo = &to
	if a.ActiveIn(compliance.NewMonthPeriod(2025, time.May)) {
		t.Error("assignment ended in April is not active in May")
	}
}
