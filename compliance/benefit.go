/*
benefit.go - Benefit type definitions and assignments

PURPOSE:
  Models benefit-type definitions (category, tax and contribution
  treatment, caps) and per-employee benefit assignments with their
  effective date ranges and mutation history.

CALCULATION METHOD:
  The calculation method is a closed sum type - Fixed, PercentageOfSalary,
  or Formula - not a string tag. Every calculation site switches over the
  concrete variants, so an unrecognized method is impossible to represent
  and a missing case is a compile-visible gap.

FORMULA BENEFITS:
  Formula evaluation is delegated to an injected expression evaluator
  outside this engine. The core receives the pre-evaluated numeric result
  and applies only caps, proration, and contribution logic to it.

SEE ALSO:
  - benefitcalc.go: The gross/net calculation over these types
*/
package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// CALCULATION METHOD - Closed sum type
// =============================================================================

// CalculationMethod determines the benefit's base gross amount.
// The implementation set is closed: Fixed, PercentageOfSalary, Formula.
type CalculationMethod interface {
	isCalculationMethod()
}

// Fixed is a flat monthly amount.
type Fixed struct {
	Amount decimal.Decimal
}

// PercentageOfSalary is a rate applied to the supplied gross salary.
type PercentageOfSalary struct {
	Percent decimal.Decimal
}

// Formula carries a value pre-evaluated by an external expression
// evaluator; the core only applies caps, proration, and contributions.
type Formula struct {
	Value decimal.Decimal
}

func (Fixed) isCalculationMethod()              {}
func (PercentageOfSalary) isCalculationMethod() {}
func (Formula) isCalculationMethod()            {}

// =============================================================================
// BENEFIT TYPE - The registry-supplied definition
// =============================================================================

type BenefitCategory string

const (
	CategoryMedical   BenefitCategory = "MEDICAL"
	CategorySport     BenefitCategory = "SPORT"
	CategoryInsurance BenefitCategory = "INSURANCE"
	CategoryMeal      BenefitCategory = "MEAL"
	CategoryTransport BenefitCategory = "TRANSPORT"
	CategoryOther     BenefitCategory = "OTHER"
)

// BenefitType is a benefit definition supplied by the benefit-type
// registry. Immutable for the duration of a calculation.
type BenefitType struct {
	ID       BenefitTypeID
	Name     string
	Category BenefitCategory

	Taxable       bool
	ZUSApplicable bool
	ZUSType       ZUSType

	// Optional caps; nil means uncapped.
	MaxAmount  *decimal.Decimal
	MaxPercent *decimal.Decimal
}

// =============================================================================
// BENEFIT ASSIGNMENT - A benefit granted to an employee
// =============================================================================

// BenefitAssignment grants a benefit type to an employee over an
// effective date range.
type BenefitAssignment struct {
	ID            AssignmentID
	EmployeeID    EmployeeID
	BenefitTypeID BenefitTypeID

	Method CalculationMethod

	EffectiveFrom Date
	EffectiveTo   *Date // nil = open-ended

	// EmployeeContribution is deducted from the gross benefit to form
	// the net benefit. Never negative, never prorated.
	EmployeeContribution decimal.Decimal

	Status BenefitStatus
}

// Validate checks the assignment's structural invariants.
func (a BenefitAssignment) Validate() Result {
	var res Result
	if a.EffectiveFrom.IsZero() {
		res.Add(RuleFieldRequired, "effective_from", "effective-from date is required")
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(a.EffectiveFrom) {
		res.Add(RuleEffectiveRange, "effective_to", "effective-to precedes effective-from")
	}
	if a.EmployeeContribution.IsNegative() {
		res.Add(RuleNegativeContribution, "employee_contribution", "employee contribution must not be negative")
	}
	if a.Method == nil {
		res.Add(RuleFieldRequired, "method", "calculation method is required")
	}
	return res
}

// ActiveIn reports whether the assignment's effective range touches the
// given month at all.
func (a BenefitAssignment) ActiveIn(p MonthPeriod) bool {
	if a.EffectiveFrom.After(p.End()) {
		return false
	}
	if a.EffectiveTo != nil && a.EffectiveTo.Before(p.Start()) {
		return false
	}
	return true
}

// =============================================================================
// ASSIGNMENT HISTORY - Mutations recorded as before/after entries
// =============================================================================

// AssignmentChange records one mutation of an assignment: which field
// changed, its previous and new value, who changed it and why.
type AssignmentChange struct {
	AssignmentID AssignmentID
	Field        string
	Previous     string
	New          string
	Actor        string
	Reason       string
	ChangedAt    Date
}
