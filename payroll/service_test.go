package payroll_test

import (
	"context"
	"testing"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/payroll"
	"github.com/kadry/compliance-engine/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*payroll.Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := payroll.NewService(store, store, store, store, payroll.Config{
		Rates: compliance.DefaultContributionRates(),
		Thresholds: []compliance.Threshold{
			{MaxIncome: compliance.ParseMoney("3000"), Percentage: compliance.ParseMoney("100")},
			{MaxIncome: compliance.ParseMoney("5000"), Percentage: compliance.ParseMoney("80")},
			{MaxIncome: compliance.ParseMoney("8000"), Percentage: compliance.ParseMoney("60")},
		},
	})
	return svc, store
}

func medicalType() compliance.BenefitType {
	return compliance.BenefitType{
		ID:            "medical-premium",
		Name:          "Private medical care",
		Category:      compliance.CategoryMedical,
		Taxable:       true,
		ZUSApplicable: true,
		ZUSType:       compliance.ZUSFull,
	}
}

func medicalAssignment(employeeID compliance.EmployeeID) compliance.BenefitAssignment {
	return compliance.BenefitAssignment{
		EmployeeID:           employeeID,
		BenefitTypeID:        "medical-premium",
		Method:               compliance.Fixed{Amount: compliance.ParseMoney("500")},
		EffectiveFrom:        compliance.NewDate(2024, 1, 1),
		EmployeeContribution: compliance.ParseMoney("50"),
	}
}

func assignMedical(t *testing.T, svc *payroll.Service, store *memory.Store) *compliance.BenefitAssignment {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveBenefitType(ctx, medicalType()))
	a, err := svc.AssignBenefit(ctx, medicalAssignment("emp-1"), "hr")
	require.NoError(t, err)
	return a
}

// =============================================================================
// ASSIGNMENT LIFECYCLE
// =============================================================================

func TestPayroll_AssignBenefit_PersistsActive(t *testing.T) {
	// GIVEN: A registered benefit type
	// WHEN: Assigning it to an employee
	// THEN: The assignment is stored ACTIVE with a fresh ID and audited

	svc, store := newTestService(t)
	a := assignMedical(t, svc, store)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, compliance.BenefitActive, a.Status)

	events := store.AuditEvents()
	require.Len(t, events, 1)
	assert.Equal(t, payroll.AuditBenefitAssigned, events[0].Action)
}

func TestPayroll_AssignBenefit_UnknownType_Rejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AssignBenefit(context.Background(), medicalAssignment("emp-1"), "hr")
	assert.ErrorIs(t, err, compliance.ErrBenefitTypeNotFound)
}

func TestPayroll_AssignBenefit_InvalidRange_Rejected(t *testing.T) {
	// GIVEN: An assignment whose effective-to precedes effective-from
	// WHEN: Assigning the benefit
	// THEN: The request fails with an effective-range violation

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.SaveBenefitType(ctx, medicalType()))

	a := medicalAssignment("emp-1")
	to := compliance.NewDate(2023, 12, 1)
	a.EffectiveTo = &to

	_, err := svc.AssignBenefit(ctx, a, "hr")
	require.Error(t, err)

	var ve *compliance.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, compliance.RuleEffectiveRange, ve.Result.Violations[0].Rule)
}

func TestPayroll_UpdateContribution_RecordsHistory(t *testing.T) {
	// GIVEN: An assignment with a 50 PLN contribution
	// WHEN: Raising it to 75 PLN
	// THEN: The stored value changes and a before/after history entry exists

	svc, store := newTestService(t)
	ctx := context.Background()
	a := assignMedical(t, svc, store)

	err := svc.UpdateContribution(ctx, a.ID, compliance.ParseMoney("75"), "hr", "plan upgrade")
	require.NoError(t, err)

	stored, err := store.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmployeeContribution.Equal(compliance.ParseMoney("75")))

	history, err := store.ListAssignmentChanges(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "employee_contribution", history[0].Field)
	assert.Equal(t, "50", history[0].Previous)
	assert.Equal(t, "75", history[0].New)
	assert.Equal(t, "plan upgrade", history[0].Reason)
}

func TestPayroll_UpdateContribution_Negative_Rejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := assignMedical(t, svc, store)

	err := svc.UpdateContribution(ctx, a.ID, compliance.ParseMoney("-1"), "hr", "")
	require.Error(t, err)
	assert.True(t, compliance.IsClientError(err))

	history, err := store.ListAssignmentChanges(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "rejected update must not leave a history entry")
}

func TestPayroll_SuspendAndTerminate_RecordStatusHistory(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	a := assignMedical(t, svc, store)

	require.NoError(t, svc.SuspendAssignment(ctx, a.ID, "hr", "unpaid leave"))
	require.NoError(t, svc.TerminateAssignment(ctx, a.ID, "hr", "offboarding"))

	stored, err := store.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, compliance.BenefitTerminated, stored.Status)

	history, err := store.ListAssignmentChanges(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(compliance.BenefitActive), history[0].Previous)
	assert.Equal(t, string(compliance.BenefitSuspended), history[0].New)
	assert.Equal(t, string(compliance.BenefitSuspended), history[1].Previous)
	assert.Equal(t, string(compliance.BenefitTerminated), history[1].New)
}

// =============================================================================
// CALCULATION
// =============================================================================

func TestPayroll_CalculateBenefit_FullPipeline(t *testing.T) {
	// GIVEN: A stored fixed 500 PLN medical assignment, 50 PLN contribution,
	//        taxable, full ZUS
	// WHEN: Calculating a full month
	// THEN: Net is 450, taxable base 500, ZUS 68.55 / 101.90

	svc, store := newTestService(t)
	ctx := context.Background()
	a := assignMedical(t, svc, store)

	result, err := svc.CalculateBenefit(ctx, a.ID, compliance.ParseMoney("10000"),
		compliance.MonthPeriod{Year: 2024, Month: 3})
	require.NoError(t, err)

	assert.True(t, result.GrossAmount.Equal(compliance.ParseMoney("500")))
	assert.True(t, result.NetBenefit.Equal(compliance.ParseMoney("450")))
	assert.True(t, result.TaxableAmount.Equal(compliance.ParseMoney("500")))
	assert.True(t, result.ZUSEmployee.Equal(compliance.ParseMoney("68.55")))
	assert.True(t, result.ZUSEmployer.Equal(compliance.ParseMoney("101.90")))
}

func TestPayroll_CalculateBenefit_UnknownAssignment(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CalculateBenefit(context.Background(), "missing",
		compliance.ParseMoney("10000"), compliance.MonthPeriod{Year: 2024, Month: 3})
	assert.ErrorIs(t, err, compliance.ErrAssignmentNotFound)
}

// =============================================================================
// ZFŚS GRANTS
// =============================================================================

func TestPayroll_GrantZfss_ScalesByTierAndDebitsFund(t *testing.T) {
	// GIVEN: A 1500 PLN fund and an employee in the lowest income band
	// WHEN: Granting a 1000 PLN base benefit
	// THEN: The full amount is granted (tier 1 = 100%) and the fund drops to 500

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreditFund(ctx, 2024, compliance.ParseMoney("1500")))

	grant, err := svc.GrantZfss(ctx, "emp-1", compliance.ParseMoney("2500"),
		compliance.ParseMoney("1000"), 2024, "hr")
	require.NoError(t, err)

	assert.Equal(t, 1, grant.Tier.Number)
	assert.True(t, grant.Amount.Equal(compliance.ParseMoney("1000")))

	balance, err := store.FundBalance(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, balance.Equal(compliance.ParseMoney("500")))

	events := store.AuditEvents()
	require.Len(t, events, 1)
	assert.Equal(t, payroll.AuditZfssGranted, events[0].Action)
}

func TestPayroll_GrantZfss_MiddleBand(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreditFund(ctx, 2024, compliance.ParseMoney("10000")))

	grant, err := svc.GrantZfss(ctx, "emp-1", compliance.ParseMoney("4500"),
		compliance.ParseMoney("1000"), 2024, "hr")
	require.NoError(t, err)

	assert.Equal(t, 2, grant.Tier.Number)
	assert.True(t, grant.Amount.Equal(compliance.ParseMoney("800")))
}

func TestPayroll_GrantZfss_AboveAllBands_HalvedRate(t *testing.T) {
	// GIVEN: Income above every configured band
	// WHEN: Granting a 1000 PLN base benefit
	// THEN: The synthetic top tier applies half the last band's percentage

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreditFund(ctx, 2024, compliance.ParseMoney("10000")))

	grant, err := svc.GrantZfss(ctx, "emp-1", compliance.ParseMoney("12000"),
		compliance.ParseMoney("1000"), 2024, "hr")
	require.NoError(t, err)

	assert.Equal(t, 4, grant.Tier.Number)
	assert.True(t, grant.Amount.Equal(compliance.ParseMoney("300")))
}

func TestPayroll_GrantZfss_InsufficientFund_Rejected(t *testing.T) {
	// GIVEN: A fund holding less than the scaled grant amount
	// WHEN: Granting the benefit
	// THEN: The grant fails and the balance is untouched

	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.CreditFund(ctx, 2024, compliance.ParseMoney("200")))

	_, err := svc.GrantZfss(ctx, "emp-1", compliance.ParseMoney("2500"),
		compliance.ParseMoney("1000"), 2024, "hr")
	assert.ErrorIs(t, err, compliance.ErrFundInsufficient)

	balance, err := store.FundBalance(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, balance.Equal(compliance.ParseMoney("200")))
}
