/*
validate.go - Request validation and bulk-row composition

PURPOSE:
  The thin composition layer invoked by the service/API layer. Sequences
  the calculators against request data and returns structured
  success/failure results. Field errors are aggregated, never
  fail-fast, so a UI can display every violation at once.

DUPLICATE DETECTION:
  Duplicate-identity checks require a lookup against stored state and
  are delegated to the caller. This layer exposes checksum/decoding
  validation only.

BULK EVALUATION:
  Each row of a bulk import is evaluated independently; one row's
  violations never abort processing of subsequent rows. The aggregate
  reports one outcome per row plus overall counts.

SEE ALSO:
  - errors.go: Violation and Result types
  - employment/: The service layer performing stored-state checks
*/
package compliance

// =============================================================================
// EMPLOYEE VALIDATION
// =============================================================================

// EmployeeInput is the raw request data for creating an employee.
type EmployeeInput struct {
	FirstName    string
	LastName     string
	IdentityCode string
	Email        string
}

// ValidateEmployee checks every field of an employee request and
// returns all violations found. On success the decoded identity is
// returned alongside an empty result.
func ValidateEmployee(in EmployeeInput) (Identity, Result) {
	return ValidateEmployeeWith(in, DefaultSexConvention)
}

// ValidateEmployeeWith is ValidateEmployee with an explicit sex
// convention for the identity-code parity digit.
func ValidateEmployeeWith(in EmployeeInput, conv SexConvention) (Identity, Result) {
	var res Result
	if in.FirstName == "" {
		res.Add(RuleFieldRequired, "first_name", "first name is required")
	}
	if in.LastName == "" {
		res.Add(RuleFieldRequired, "last_name", "last name is required")
	}

	var identity Identity
	if _, ok := identityDigits(in.IdentityCode); !ok {
		res.Add(RuleIdentityFormat, "identity_code", "identity code must be exactly 11 digits")
	} else if !ValidateChecksum(in.IdentityCode) {
		res.Add(RuleIdentityChecksum, "identity_code", "identity code checksum mismatch")
	} else {
		identity, _ = DecodeWith(in.IdentityCode, conv)
	}

	return identity, res
}

// =============================================================================
// CONTRACT VALIDATION
// =============================================================================

// ValidateContract sequences the contract checks: structural
// invariants, minimum wage, and concurrent-employment overlap against
// the supplied snapshot of the employee's existing contracts.
func ValidateContract(c Contract, existing []Contract, wage MinimumWage) Result {
	res := c.Validate()

	if res.OK() && !MeetsMinimumWage(c, wage) {
		res.Add(RuleMinimumWage, "gross_amount",
			"gross amount below the statutory minimum for the working-time fraction")
	}

	if conflicts := CheckConcurrentEmployment(existing, c); len(conflicts) > 0 {
		res.Add(RuleOverlap, "start_date",
			"an active employment contract already covers this date range")
	}

	return res
}

// =============================================================================
// BULK EVALUATION
// =============================================================================

// RowOutcome is the result of evaluating a single bulk-import row.
type RowOutcome struct {
	Row      int      `json:"row"`
	Identity Identity `json:"-"`
	Result   Result   `json:"result"`
}

// OK reports whether the row passed every check.
func (o RowOutcome) OK() bool { return o.Result.OK() }

// BulkResult aggregates per-row outcomes with overall counts.
type BulkResult struct {
	Outcomes  []RowOutcome `json:"outcomes"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// EvaluateEmployeeRows validates each row independently, continuing
// past failures. Row numbering is 1-based to match spreadsheet rows.
func EvaluateEmployeeRows(rows []EmployeeInput) BulkResult {
	var bulk BulkResult
	for i, row := range rows {
		identity, res := ValidateEmployee(row)
		outcome := RowOutcome{Row: i + 1, Identity: identity, Result: res}
		if outcome.OK() {
			bulk.Succeeded++
		} else {
			bulk.Failed++
		}
		bulk.Outcomes = append(bulk.Outcomes, outcome)
	}
	return bulk
}
