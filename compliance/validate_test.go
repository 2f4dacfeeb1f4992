package compliance_test

import (
	"testing"
	"time"

	"github.com/kadry/compliance-engine/compliance"
)

// =============================================================================
// EMPLOYEE VALIDATION
// =============================================================================

func TestValidateEmployee_AggregatesFieldErrors(t *testing.T) {
	// GIVEN: A request with three invalid fields
	// WHEN: Validating
	// THEN: Every field violation is reported in one result
	_, res := compliance.ValidateEmployee(compliance.EmployeeInput{
		FirstName:    "",
		LastName:     "",
		IdentityCode: "not-a-code",
	})
	if len(res.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(res.Violations), res.Violations)
	}
}

func TestValidateEmployee_ChecksumViolationIsDistinctFromFormat(t *testing.T) {
	_, res := compliance.ValidateEmployee(compliance.EmployeeInput{
		FirstName:    "Anna",
		LastName:     "Nowak",
		IdentityCode: "85010112346", // right shape, wrong check digit
	})
	if len(res.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(res.Violations))
	}
	if res.Violations[0].Rule != compliance.RuleIdentityChecksum {
		t.Errorf("rule %s, want %s", res.Violations[0].Rule, compliance.RuleIdentityChecksum)
	}
}

func TestValidateEmployee_DecodesIdentityOnSuccess(t *testing.T) {
	identity, res := compliance.ValidateEmployee(compliance.EmployeeInput{
		FirstName:    "Anna",
		LastName:     "Nowak",
		IdentityCode: "85010112345",
	})
	if !res.OK() {
		t.Fatalf("unexpected violations: %v", res.Violations)
	}
	if !identity.BirthDate.Equal(compliance.NewDate(1985, time.January, 1)) {
		t.Errorf("birth date %s, want 1985-01-01", identity.BirthDate)
	}
}

// =============================================================================
// CONTRACT VALIDATION
// =============================================================================

func TestValidateContract_SequencesAllChecks(t *testing.T) {
	wage := compliance.MinimumWage{
		Monthly: compliance.NewMoney(4242),
		Hourly:  compliance.NewMoney(27.70),
	}
	existing := []compliance.Contract{
		employmentContract(compliance.NewDate(2024, time.January, 1)),
	}

	candidate := employmentContract(compliance.NewDate(2024, time.June, 1))
	candidate.ID = "c-2"
	candidate.GrossAmount = compliance.NewMoney(1000) // below minimum

	res := compliance.ValidateContract(candidate, existing, wage)
	rules := map[string]bool{}
	for _, v := range res.Violations {
		rules[v.Rule] = true
	}
	if !rules[compliance.RuleMinimumWage] {
		t.Error("missing minimum-wage violation")
	}
	if !rules[compliance.RuleOverlap] {
		t.Error("missing overlap violation")
	}
}

func TestValidateContract_CleanContractPasses(t *testing.T) {
	wage := compliance.MinimumWage{
		Monthly: compliance.NewMoney(4242),
		Hourly:  compliance.NewMoney(27.70),
	}
	c := employmentContract(compliance.NewDate(2024, time.June, 1))
	if res := compliance.ValidateContract(c, nil, wage); !res.OK() {
		t.Errorf("unexpected violations: %v", res.Violations)
	}
}

// =============================================================================
// BULK EVALUATION
// =============================================================================

func TestEvaluateEmployeeRows_ContinuesPastFailures(t *testing.T) {
	// GIVEN: Three rows where the middle one is invalid
	// WHEN: Evaluating the batch
	// THEN: All rows are evaluated, counts reflect the split, and the
	//       failing row carries its own violations
	rows := []compliance.EmployeeInput{
		{FirstName: "Anna", LastName: "Nowak", IdentityCode: "85010112345"},
		{FirstName: "Jan", LastName: "Kowalski", IdentityCode: "11111111111"},
		{FirstName: "Maria", LastName: "Wiśniewska", IdentityCode: "44051401359"},
	}

	bulk := compliance.EvaluateEmployeeRows(rows)
	if len(bulk.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(bulk.Outcomes))
	}
	if bulk.Succeeded != 2 || bulk.Failed != 1 {
		t.Errorf("counts %d/%d, want 2 succeeded / 1 failed", bulk.Succeeded, bulk.Failed)
	}
	if bulk.Outcomes[1].OK() {
		t.Error("row 2 must fail its checksum")
	}
	if bulk.Outcomes[2].Row != 3 {
		t.Errorf("row numbering is 1-based, got %d", bulk.Outcomes[2].Row)
	}
}

func TestEvaluateEmployeeRows_Empty(t *testing.T) {
	bulk := compliance.EvaluateEmployeeRows(nil)
	if len(bulk.Outcomes) != 0 || bulk.Succeeded != 0 || bulk.Failed != 0 {
		t.Error("empty input yields an empty result")
	}
}
