/*
Package payroll implements the benefit and social-fund service layer.

PURPOSE:
  Orchestrates the benefit side of the compliance engine against stored
  state: benefit-type registry access, assignment lifecycle with
  before/after history entries, monthly benefit calculation, and
  ZFŚS grants with fund-balance tracking.

KEY CONCEPTS:
  BenefitTypeStore: The benefit-type registry (immutable per call).
  AssignmentStore:  Assignments plus their mutation history.
  FundStore:        The company social fund balance; grants debit it and
                    fail on insufficiency (a domain-rule violation, not
                    a programming error).

SEE ALSO:
  - compliance/: Calculate and ResolveTier
  - employment/: The contract-side service layer
*/
package payroll

import (
	"context"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// BenefitTypeStore is the benefit-type registry.
type BenefitTypeStore interface {
	SaveBenefitType(ctx context.Context, bt compliance.BenefitType) error
	GetBenefitType(ctx context.Context, id compliance.BenefitTypeID) (*compliance.BenefitType, error)
	ListBenefitTypes(ctx context.Context) ([]compliance.BenefitType, error)
}

// AssignmentStore persists benefit assignments and their history.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a compliance.BenefitAssignment) error
	GetAssignment(ctx context.Context, id compliance.AssignmentID) (*compliance.BenefitAssignment, error)
	ListAssignmentsByEmployee(ctx context.Context, employeeID compliance.EmployeeID) ([]compliance.BenefitAssignment, error)
	UpdateAssignment(ctx context.Context, a compliance.BenefitAssignment) error

	AppendAssignmentChange(ctx context.Context, ch compliance.AssignmentChange) error
	ListAssignmentChanges(ctx context.Context, id compliance.AssignmentID) ([]compliance.AssignmentChange, error)
}

// FundStore tracks the company social fund balance per year.
type FundStore interface {
	FundBalance(ctx context.Context, year int) (decimal.Decimal, error)
	// DebitFund atomically subtracts the amount; implementations return
	// compliance.ErrFundInsufficient when the balance would go negative.
	DebitFund(ctx context.Context, year int, amount decimal.Decimal) error
	CreditFund(ctx context.Context, year int, amount decimal.Decimal) error
}

// Audit actions emitted by this package.
const (
	AuditBenefitAssigned   = "benefit.assigned"
	AuditBenefitUpdated    = "benefit.updated"
	AuditBenefitSuspended  = "benefit.suspended"
	AuditBenefitTerminated = "benefit.terminated"
	AuditZfssGranted       = "zfss.granted"
)

// AuditSink is re-exported so payroll callers wire the same sink as the
// employment side.
type AuditSink = employment.AuditSink
