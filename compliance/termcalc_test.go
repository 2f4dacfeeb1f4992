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

func datePtr(d compliance.Date) *compliance.Date { return &d }

func employmentContract(start compliance.Date) compliance.Contract {
	return compliance.Contract{
		ID:          "c-1",
		EmployeeID:  "e-1",
		Type:        compliance.ContractEmployment,
		StartDate:   start,
		Indefinite:  true,
		SalaryType:  compliance.SalaryMonthly,
		GrossAmount: compliance.NewMoney(6000),
		WorkingTime: decimal.NewFromInt(1),
		Status:      compliance.ContractActive,
	}
}

func trialContract(start, trialEnd compliance.Date) compliance.Contract {
	c := employmentContract(start)
	c.TrialPeriod = true
	c.TrialEndDate = datePtr(trialEnd)
	return c
}

// =============================================================================
// NOTICE PERIOD
// =============================================================================

func TestNoticePeriodDays_TenureBoundaries(t *testing.T) {
	// GIVEN: A regular employment contract
	// WHEN: Computing the notice period at tenure boundaries
	// THEN: <6 months -> 14 days, <36 months -> 30 days, else 90 days
	start := compliance.NewDate(2020, time.January, 1)
	c := employmentContract(start)

	cases := []struct {
		months int
		want   int
	}{
		{5, 14},
		{6, 30},
		{35, 30},
		{36, 90},
	}
	for _, tc := range cases {
		// monthsEmployed = floor(days / 30), so months*30 days lands
		// exactly on the boundary.
		ref := start.AddDays(tc.months * 30)
		if got := compliance.NoticePeriodDays(c, ref); got != tc.want {
			t.Errorf("monthsEmployed=%d: got %d days, want %d", tc.months, got, tc.want)
		}
	}
}

func TestNoticePeriodDays_TrialBoundaries(t *testing.T) {
	start := compliance.NewDate(2025, time.March, 1)
	ref := compliance.NewDate(2025, time.March, 10)

	cases := []struct {
		trialDays int
		want      int
	}{
		{14, 3},
		{15, 7},
		{90, 7},
		{91, 14},
	}
	for _, tc := range cases {
		c := trialContract(start, start.AddDays(tc.trialDays))
		if got := compliance.NoticePeriodDays(c, ref); got != tc.want {
			t.Errorf("trialDays=%d: got %d days, want %d", tc.trialDays, got, tc.want)
		}
	}
}

// =============================================================================
// MINIMUM WAGE
// =============================================================================

func TestMeetsMinimumWage_MonthlyScalesWithWorkingTime(t *testing.T) {
	wage := compliance.MinimumWage{
		Monthly: compliance.NewMoney(4242),
		Hourly:  compliance.NewMoney(27.70),
	}

	// Half-time employment: the floor is half the monthly minimum.
	c := employmentContract(compliance.NewDate(2024, time.January, 1))
	c.WorkingTime = decimal.New(5, -1)
	c.GrossAmount = compliance.NewMoney(2121)
	if !compliance.MeetsMinimumWage(c, wage) {
		t.Error("gross exactly at the scaled floor should pass")
	}

	c.GrossAmount = compliance.NewMoney(2120.99)
	if compliance.MeetsMinimumWage(c, wage) {
		t.Error("gross one grosz below the scaled floor should fail")
	}
}

func TestMeetsMinimumWage_Hourly(t *testing.T) {
	wage := compliance.MinimumWage{
		Monthly: compliance.NewMoney(4242),
		Hourly:  compliance.NewMoney(27.70),
	}

	c := employmentContract(compliance.NewDate(2024, time.January, 1))
	c.SalaryType = compliance.SalaryHourly
	c.GrossAmount = compliance.NewMoney(27.70)
	if !compliance.MeetsMinimumWage(c, wage) {
		t.Error("hourly rate at the floor should pass")
	}

	c.GrossAmount = compliance.NewMoney(25)
	if compliance.MeetsMinimumWage(c, wage) {
		t.Error("hourly rate below the floor should fail")
	}
}

func TestMeetsMinimumWage_OnlyEmploymentEnforced(t *testing.T) {
	wage := compliance.MinimumWage{
		Monthly: compliance.NewMoney(4242),
		Hourly:  compliance.NewMoney(27.70),
	}

	c := employmentContract(compliance.NewDate(2024, time.January, 1))
	c.Type = compliance.ContractMandate
	c.GrossAmount = compliance.NewMoney(100)
	if !compliance.MeetsMinimumWage(c, wage) {
		t.Error("mandate contracts are not subject to the minimum-wage check")
	}

	c.Type = compliance.ContractEmployment
	c.SalaryType = compliance.SalaryTask
	if !compliance.MeetsMinimumWage(c, wage) {
		t.Error("task-rate salaries always pass")
	}
}

// =============================================================================
// OVERLAP DETECTION
// =============================================================================

func TestCheckConcurrentEmployment_RejectsSecondEmployment(t *testing.T) {
	// GIVEN: An active open-ended employment contract from 2024-01-01
	// WHEN: A second employment contract starting 2024-06-01 is checked
	// THEN: The overlap is reported
	existing := []compliance.Contract{
		employmentContract(compliance.NewDate(2024, time.January, 1)),
	}

	candidate := employmentContract(compliance.NewDate(2024, time.June, 1))
	candidate.ID = "c-2"

	conflicts := compliance.CheckConcurrentEmployment(existing, candidate)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].ID != "c-1" {
		t.Errorf("conflict with %s, want c-1", conflicts[0].ID)
	}
}

func TestCheckConcurrentEmployment_AllowsMandateOverSameSpan(t *testing.T) {
	existing := []compliance.Contract{
		employmentContract(compliance.NewDate(2024, time.January, 1)),
	}

	candidate := employmentContract(compliance.NewDate(2024, time.June, 1))
	candidate.Type = compliance.ContractMandate

	if conflicts := compliance.CheckConcurrentEmployment(existing, candidate); len(conflicts) != 0 {
		t.Errorf("mandate over the same span must be allowed, got %d conflicts", len(conflicts))
	}
}

func TestFindOverlapping_IgnoresInactiveAndDisjoint(t *testing.T) {
	terminated := employmentContract(compliance.NewDate(2024, time.January, 1))
	terminated.Status = compliance.ContractTerminated

	ended := employmentContract(compliance.NewDate(2023, time.January, 1))
	ended.ID = "c-old"
	ended.Indefinite = false
	ended.EndDate = datePtr(compliance.NewDate(2023, time.December, 31))

	existing := []compliance.Contract{terminated, ended}

	overlaps := compliance.FindOverlapping(existing, compliance.NewDate(2024, time.June, 1), nil)
	if len(overlaps) != 0 {
		t.Errorf("expected no overlaps, got %d", len(overlaps))
	}
}

func TestFindOverlapping_BoundedCandidate(t *testing.T) {
	// An active contract ending exactly on the candidate's start date
	// still intersects (ranges are inclusive of their end dates).
	ending := employmentContract(compliance.NewDate(2024, time.January, 1))
	ending.Indefinite = false
	ending.EndDate = datePtr(compliance.NewDate(2024, time.June, 1))

	overlaps := compliance.FindOverlapping(
		[]compliance.Contract{ending},
		compliance.NewDate(2024, time.June, 1),
		datePtr(compliance.NewDate(2024, time.December, 31)),
	)
	if len(overlaps) != 1 {
		t.Errorf("expected touching ranges to overlap, got %d", len(overlaps))
	}
}
