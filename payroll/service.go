/*
service.go - Benefit assignment and social-fund commands

PURPOSE:
  Command layer for benefits: assignment lifecycle with recorded history
  entries, monthly calculation via the compliance engine, and ZFŚS
  grants that resolve the income tier, check fund sufficiency, and debit
  the fund.

SEE ALSO:
  - types.go: Store interfaces
  - compliance/benefitcalc.go: The calculation invoked here
  - compliance/zfss.go: Tier resolution
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
	"github.com/shopspring/decimal"
)

// Config carries the injected legal constants for the benefit side.
type Config struct {
	Rates      compliance.ContributionRates
	Thresholds []compliance.Threshold
}

// Service executes benefit and fund commands.
type Service struct {
	Types       BenefitTypeStore
	Assignments AssignmentStore
	Fund        FundStore
	Audit       AuditSink
	Config      Config
}

func NewService(types BenefitTypeStore, assignments AssignmentStore, fund FundStore, audit AuditSink, cfg Config) *Service {
	if audit == nil {
		audit = employment.NopAudit{}
	}
	return &Service{Types: types, Assignments: assignments, Fund: fund, Audit: audit, Config: cfg}
}

// =============================================================================
// ASSIGNMENT LIFECYCLE
// =============================================================================

// AssignBenefit validates and persists a new ACTIVE assignment.
func (s *Service) AssignBenefit(ctx context.Context, a compliance.BenefitAssignment, actor string) (*compliance.BenefitAssignment, error) {
	bt, err := s.Types.GetBenefitType(ctx, a.BenefitTypeID)
	if err != nil {
		return nil, err
	}
	if bt == nil {
		return nil, compliance.ErrBenefitTypeNotFound
	}

	if err := a.Validate().Err(); err != nil {
		return nil, err
	}

	a.ID = compliance.AssignmentID(uuid.NewString())
	a.Status = compliance.BenefitActive
	if err := s.Assignments.SaveAssignment(ctx, a); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, s.event(actor, AuditBenefitAssigned, string(a.ID), string(bt.ID)))
	return &a, nil
}

// UpdateContribution changes the employee contribution, recording a
// history entry with the previous and new value.
func (s *Service) UpdateContribution(ctx context.Context, id compliance.AssignmentID, contribution decimal.Decimal, actor, reason string) error {
	a, err := s.Assignments.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return compliance.ErrAssignmentNotFound
	}
	if contribution.IsNegative() {
		var res compliance.Result
		res.Add(compliance.RuleNegativeContribution, "employee_contribution",
			"employee contribution must not be negative")
		return res.Err()
	}

	previous := a.EmployeeContribution
	a.EmployeeContribution = contribution
	if err := s.Assignments.UpdateAssignment(ctx, *a); err != nil {
		return err
	}
	if err := s.Assignments.AppendAssignmentChange(ctx, compliance.AssignmentChange{
		AssignmentID: id,
		Field:        "employee_contribution",
		Previous:     previous.String(),
		New:          contribution.String(),
		Actor:        actor,
		Reason:       reason,
		ChangedAt:    today(),
	}); err != nil {
		return err
	}

	s.Audit.Record(ctx, s.event(actor, AuditBenefitUpdated, string(id), reason))
	return nil
}

// SuspendAssignment and TerminateAssignment set the status, recording
// the change. Neither status self-transitions back.
func (s *Service) SuspendAssignment(ctx context.Context, id compliance.AssignmentID, actor, reason string) error {
	return s.setStatus(ctx, id, compliance.BenefitSuspended, AuditBenefitSuspended, actor, reason)
}

func (s *Service) TerminateAssignment(ctx context.Context, id compliance.AssignmentID, actor, reason string) error {
	return s.setStatus(ctx, id, compliance.BenefitTerminated, AuditBenefitTerminated, actor, reason)
}

func (s *Service) setStatus(ctx context.Context, id compliance.AssignmentID, status compliance.BenefitStatus, action, actor, reason string) error {
	a, err := s.Assignments.GetAssignment(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return compliance.ErrAssignmentNotFound
	}

	previous := a.Status
	a.Status = status
	if err := s.Assignments.UpdateAssignment(ctx, *a); err != nil {
		return err
	}
	if err := s.Assignments.AppendAssignmentChange(ctx, compliance.AssignmentChange{
		AssignmentID: id,
		Field:        "status",
		Previous:     string(previous),
		New:          string(status),
		Actor:        actor,
		Reason:       reason,
		ChangedAt:    today(),
	}); err != nil {
		return err
	}

	s.Audit.Record(ctx, s.event(actor, action, string(id), reason))
	return nil
}

// =============================================================================
// CALCULATION
// =============================================================================

// CalculateBenefit runs the monthly calculation for a stored assignment.
// Pure read: nothing is persisted.
func (s *Service) CalculateBenefit(ctx context.Context, id compliance.AssignmentID, grossSalary decimal.Decimal, period compliance.MonthPeriod) (*compliance.CalculationResult, error) {
	a, err := s.Assignments.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, compliance.ErrAssignmentNotFound
	}
	bt, err := s.Types.GetBenefitType(ctx, a.BenefitTypeID)
	if err != nil {
		return nil, err
	}
	if bt == nil {
		return nil, compliance.ErrBenefitTypeNotFound
	}

	result := compliance.Calculate(*a, *bt, grossSalary, period, s.Config.Rates)
	return &result, nil
}

// =============================================================================
// ZFŚS GRANTS
// =============================================================================

// ZfssGrant is the outcome of a social-fund grant.
type ZfssGrant struct {
	EmployeeID compliance.EmployeeID
	Tier       compliance.Tier
	BaseAmount decimal.Decimal
	Amount     decimal.Decimal // base scaled by the tier percentage
	Year       int
}

// GrantZfss resolves the employee's income tier, scales the base amount
// by the tier percentage, checks fund sufficiency, and debits the fund.
func (s *Service) GrantZfss(ctx context.Context, employeeID compliance.EmployeeID, income, baseAmount decimal.Decimal, year int, actor string) (*ZfssGrant, error) {
	tier := compliance.ResolveTier(income, s.Config.Thresholds)

	amount := compliance.RoundMoney(baseAmount.Mul(tier.Percentage).Div(decimal.NewFromInt(100)))

	if err := s.Fund.DebitFund(ctx, year, amount); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, s.event(actor, AuditZfssGranted, string(employeeID),
		fmt.Sprintf("tier %d, %s PLN", tier.Number, amount)))
	return &ZfssGrant{
		EmployeeID: employeeID,
		Tier:       tier,
		BaseAmount: baseAmount,
		Amount:     amount,
		Year:       year,
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func today() compliance.Date {
	now := time.Now().UTC()
	return compliance.NewDate(now.Year(), now.Month(), now.Day())
}

func (s *Service) event(actor, action, subject, detail string) employment.AuditEvent {
	return employment.AuditEvent{
		ID:        uuid.NewString(),
		At:        time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		SubjectID: subject,
		Detail:    detail,
	}
}
