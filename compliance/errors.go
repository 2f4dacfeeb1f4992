/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Service packages wrap these errors with additional context.

ERROR CATEGORIES (three kinds):
  1. Format errors - malformed input (wrong-length identity code,
     non-numeric digits, missing required date). Reported as field-scoped
     violations, never panics.
  2. Domain-rule violations - checksum mismatch, below-minimum wage,
     overlapping employment, fund insufficiency. Reported as typed
     Violation values carrying a machine-readable rule identifier; the
     service layer decides HTTP status mapping.
  3. Programming/invariant errors - empty or unsorted threshold table,
     unrecognized calculation method. These indicate a configuration bug,
     not bad user input, and fail fast with a panic.

USAGE:
  Service packages can test error classes:

    if compliance.IsClientError(err) {
        // 4xx, not 5xx
    }

SEE ALSO:
  - validate.go: Aggregates Violations into one structured result
  - pesel.go, termcalc.go, benefitcalc.go: Producers of these errors
*/
package compliance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidIdentityCode is returned when an identity code is not
	// exactly 11 ASCII digits or its checksum does not hold.
	ErrInvalidIdentityCode = errors.New("invalid identity code")

	// ErrDuplicateIdentity is returned by stores when an identity code
	// hash already exists for another employee.
	ErrDuplicateIdentity = errors.New("duplicate identity code")

	// ErrBelowMinimumWage is returned when an employment contract's gross
	// amount falls under the statutory floor for its working-time fraction.
	ErrBelowMinimumWage = errors.New("gross amount below minimum wage")

	// ErrOverlappingEmployment is returned when a second concurrent
	// employment contract would overlap an active one.
	ErrOverlappingEmployment = errors.New("overlapping active employment contract")

	// ErrInvalidTransition is returned on a disallowed contract status change.
	ErrInvalidTransition = errors.New("invalid contract status transition")

	// ErrFundInsufficient is returned when a social-fund grant exceeds the
	// remaining fund balance.
	ErrFundInsufficient = errors.New("insufficient social fund balance")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrContractNotFound is returned when a referenced contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")

	// ErrBenefitTypeNotFound is returned when a referenced benefit type doesn't exist.
	ErrBenefitTypeNotFound = errors.New("benefit type not found")

	// ErrAssignmentNotFound is returned when a referenced assignment doesn't exist.
	ErrAssignmentNotFound = errors.New("benefit assignment not found")
)

// =============================================================================
// VIOLATION - Field-scoped rule failure with machine-readable identifier
// =============================================================================

// Rule identifiers. Stable strings consumed by API clients; a UI keys
// translations and field highlighting off these, so they never change.
const (
	RuleIdentityFormat       = "identity.format"
	RuleIdentityChecksum     = "identity.checksum"
	RuleFieldRequired        = "field.required"
	RuleFieldInvalid         = "field.invalid"
	RuleEndDateRequired      = "contract.end_date_required"
	RuleTrialEndRequired     = "contract.trial_end_required"
	RuleWorkingTimeRange     = "contract.working_time_range"
	RuleMinimumWage          = "contract.minimum_wage"
	RuleOverlap              = "contract.overlapping_employment"
	RuleEffectiveRange       = "benefit.effective_range"
	RuleNegativeContribution = "benefit.negative_contribution"
	RuleFundInsufficient     = "zfss.fund_insufficient"
)

// Violation is a single field-scoped rule failure. The Rule identifier is
// machine-readable; Message is for humans.
type Violation struct {
	Rule    string `json:"rule"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("%s [%s]: %s", v.Rule, v.Field, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// =============================================================================
// VALIDATION RESULT - Aggregates violations instead of failing fast
// =============================================================================

// Result collects every violation found in a request so a UI can display
// all of them at once. A nil/empty violation list means the input passed.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

func (r *Result) Add(rule, field, message string) {
	r.Violations = append(r.Violations, Violation{Rule: rule, Field: field, Message: message})
}

func (r *Result) AddViolation(v Violation) {
	r.Violations = append(r.Violations, v)
}

// Merge appends another result's violations.
func (r *Result) Merge(other Result) {
	r.Violations = append(r.Violations, other.Violations...)
}

// OK returns true if no violations were recorded.
func (r Result) OK() bool { return len(r.Violations) == 0 }

// Err returns the result as an error, or nil when it passed.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Result: r}
}

// ValidationError wraps a failed Result as an error value.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	if len(e.Result.Violations) == 1 {
		return e.Result.Violations[0].Error()
	}
	return fmt.Sprintf("%d rule violations (first: %s)",
		len(e.Result.Violations), e.Result.Violations[0].Error())
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidIdentityCode) ||
		errors.Is(err, ErrDuplicateIdentity) ||
		errors.Is(err, ErrBelowMinimumWage) ||
		errors.Is(err, ErrOverlappingEmployment) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrFundInsufficient)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrBenefitTypeNotFound) ||
		errors.Is(err, ErrAssignmentNotFound)
}
