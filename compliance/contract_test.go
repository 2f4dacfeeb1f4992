package compliance_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// STRUCTURAL INVARIANTS
// =============================================================================

func TestContractValidate_CollectsAllViolations(t *testing.T) {
	// GIVEN: A contract violating three invariants at once
	// WHEN: Validating
	// THEN: All three violations are reported together, not just the first
	c := compliance.Contract{
		Type:        compliance.ContractEmployment,
		StartDate:   compliance.NewDate(2024, time.January, 1),
		Indefinite:  false, // and no end date
		TrialPeriod: true,  // and no trial end date
		SalaryType:  compliance.SalaryMonthly,
		GrossAmount: compliance.NewMoney(5000),
		WorkingTime: decimal.NewFromInt(2), // above full time
	}

	res := c.Validate()
	if len(res.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(res.Violations), res.Violations)
	}

	rules := map[string]bool{}
	for _, v := range res.Violations {
		rules[v.Rule] = true
	}
	for _, want := range []string{
		compliance.RuleEndDateRequired,
		compliance.RuleTrialEndRequired,
		compliance.RuleWorkingTimeRange,
	} {
		if !rules[want] {
			t.Errorf("missing violation %s", want)
		}
	}
}

func TestContractValidate_WorkingTimeBounds(t *testing.T) {
	c := employmentContract(compliance.NewDate(2024, time.January, 1))

	c.WorkingTime = decimal.New(125, -3) // exactly 1/8
	if res := c.Validate(); !res.OK() {
		t.Errorf("working time 1/8 should be valid: %v", res.Violations)
	}

	c.WorkingTime = decimal.New(124, -3)
	if res := c.Validate(); res.OK() {
		t.Error("working time below 1/8 should be rejected")
	}
}

// =============================================================================
// STATE MACHINE
// =============================================================================

func TestTransition_Lifecycle(t *testing.T) {
	cases := []struct {
		from compliance.ContractStatus
		ev   compliance.ContractEvent
		to   compliance.ContractStatus
	}{
		{compliance.ContractDraft, compliance.EventConfirm, compliance.ContractActive},
		{compliance.ContractActive, compliance.EventSuspend, compliance.ContractSuspended},
		{compliance.ContractSuspended, compliance.EventResume, compliance.ContractActive},
		{compliance.ContractActive, compliance.EventTerminate, compliance.ContractTerminated},
		{compliance.ContractActive, compliance.EventExpire, compliance.ContractExpired},
	}
	for _, tc := range cases {
		got, err := compliance.Transition(tc.from, tc.ev)
		if err != nil {
			t.Errorf("%s on %s: unexpected error %v", tc.ev, tc.from, err)
		}
		if got != tc.to {
			t.Errorf("%s on %s: got %s, want %s", tc.ev, tc.from, got, tc.to)
		}
	}
}

func TestTransition_TerminalStatesAcceptNothing(t *testing.T) {
	events := []compliance.ContractEvent{
		compliance.EventConfirm,
		compliance.EventSuspend,
		compliance.EventResume,
		compliance.EventTerminate,
		compliance.EventExpire,
	}
	for _, status := range []compliance.ContractStatus{compliance.ContractTerminated, compliance.ContractExpired} {
		for _, ev := range events {
			if _, err := compliance.Transition(status, ev); !errors.Is(err, compliance.ErrInvalidTransition) {
				t.Errorf("%s on %s: expected ErrInvalidTransition, got %v", ev, status, err)
			}
		}
	}
}

func TestTransition_DraftCannotSkipConfirmation(t *testing.T) {
	for _, ev := range []compliance.ContractEvent{compliance.EventSuspend, compliance.EventTerminate, compliance.EventExpire} {
		if _, err := compliance.Transition(compliance.ContractDraft, ev); !errors.Is(err, compliance.ErrInvalidTransition) {
			t.Errorf("%s on DRAFT: expected ErrInvalidTransition, got %v", ev, err)
		}
	}
}

// =============================================================================
// AMENDMENTS
// =============================================================================

func TestAmendment_RoundTripIdempotence(t *testing.T) {
	// GIVEN: A recorded change set
	// WHEN: Applying it to a snapshot and re-deriving the change set
	//       from before/after values
	// THEN: The original change set is reproduced exactly
	before := employmentContract(compliance.NewDate(2023, time.April, 1))
	before.Position = "Junior Analyst"

	end := compliance.NewDate(2026, time.March, 31)
	changes := []compliance.FieldChange{
		compliance.GrossAmountChange{Before: before.GrossAmount, After: compliance.NewMoney(7500)},
		compliance.WorkingTimeChange{Before: before.WorkingTime, After: decimal.New(75, -2)},
		compliance.PositionChange{Before: "Junior Analyst", After: "Analyst"},
		compliance.EndDateChange{Before: nil, After: &end},
	}

	after := compliance.ApplyChanges(before, changes)
	rederived := compliance.DiffContracts(before, after)

	if len(rederived) != len(changes) {
		t.Fatalf("expected %d changes, got %d", len(changes), len(rederived))
	}
	for i := range changes {
		if changes[i].FieldName() != rederived[i].FieldName() {
			t.Errorf("change %d: field %s, want %s", i, rederived[i].FieldName(), changes[i].FieldName())
		}
	}

	// Applying the re-derived set to the same snapshot converges.
	again := compliance.ApplyChanges(before, rederived)
	if !again.GrossAmount.Equal(after.GrossAmount) ||
		!again.WorkingTime.Equal(after.WorkingTime) ||
		again.Position != after.Position {
		t.Error("re-derived change set does not reproduce the amended contract")
	}
	if again.EndDate == nil || !again.EndDate.Equal(end) {
		t.Error("re-derived change set lost the end-date change")
	}
}

func TestApplyChanges_DoesNotMutateInput(t *testing.T) {
	before := employmentContract(compliance.NewDate(2023, time.April, 1))
	original := before.GrossAmount

	compliance.ApplyChanges(before, []compliance.FieldChange{
		compliance.GrossAmountChange{Before: original, After: compliance.NewMoney(9999)},
	})

	if !before.GrossAmount.Equal(original) {
		t.Error("ApplyChanges mutated its input contract")
	}
}

func TestDiffContracts_NoChanges(t *testing.T) {
	c := employmentContract(compliance.NewDate(2023, time.April, 1))
	if diff := compliance.DiffContracts(c, c); len(diff) != 0 {
		t.Errorf("identical snapshots must diff to nothing, got %d changes", len(diff))
	}
}
