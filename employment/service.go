/*
service.go - Employee and contract commands

PURPOSE:
  The command layer over EmployeeStore/ContractStore. Each command
  follows the same shape:
  1. Load the stored snapshot the engine needs
  2. Run the pure compliance computation
  3. Persist the outcome
  4. Emit an audit event

REFERENCE DATES:
  Commands that depend on "today" (termination notice, expiry sweep)
  take the reference date as an explicit parameter. The HTTP layer
  passes the current date; tests pass fixed dates.

SEE ALSO:
  - types.go: Store and sink interfaces
  - compliance/: The calculations sequenced here
*/
package employment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kadry/compliance-engine/compliance"
)

// Config carries the injected legal constants for a service instance.
type Config struct {
	MinimumWage   compliance.MinimumWage
	SexConvention compliance.SexConvention
}

// Service executes employee and contract commands.
type Service struct {
	Employees EmployeeStore
	Contracts ContractStore
	Audit     AuditSink
	Config    Config
}

func NewService(employees EmployeeStore, contracts ContractStore, audit AuditSink, cfg Config) *Service {
	if cfg.SexConvention == (compliance.SexConvention{}) {
		cfg.SexConvention = compliance.DefaultSexConvention
	}
	if audit == nil {
		audit = NopAudit{}
	}
	return &Service{Employees: employees, Contracts: contracts, Audit: audit, Config: cfg}
}

// =============================================================================
// EMPLOYEE COMMANDS
// =============================================================================

// CreateEmployee validates the request, rejects duplicate identity
// codes, and persists the record with its decoded identity fields.
func (s *Service) CreateEmployee(ctx context.Context, in compliance.EmployeeInput, actor string) (*Employee, error) {
	identity, res := compliance.ValidateEmployeeWith(in, s.Config.SexConvention)
	if err := res.Err(); err != nil {
		return nil, err
	}

	hash := HashIdentityCode(identity.Code)
	exists, err := s.Employees.IdentityHashExists(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup: %w", err)
	}
	if exists {
		return nil, compliance.ErrDuplicateIdentity
	}

	e := Employee{
		ID:           compliance.EmployeeID(uuid.NewString()),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		IdentityCode: identity.Code,
		IdentityHash: hash,
		BirthDate:    identity.BirthDate,
		Sex:          identity.Sex,
		Status:       EmployeeActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Employees.SaveEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, s.event(actor, AuditEmployeeCreated, string(e.ID),
		fmt.Sprintf("%s %s", e.FirstName, e.LastName)))
	return &e, nil
}

// ImportEmployees evaluates each row independently and persists the
// rows that pass. One row's violations never abort the rest; rows whose
// identity code is already stored are marked failed with a duplicate
// violation.
func (s *Service) ImportEmployees(ctx context.Context, rows []compliance.EmployeeInput, actor string) (compliance.BulkResult, error) {
	bulk := compliance.EvaluateEmployeeRows(rows)

	for i := range bulk.Outcomes {
		outcome := &bulk.Outcomes[i]
		if !outcome.OK() {
			continue
		}

		hash := HashIdentityCode(outcome.Identity.Code)
		exists, err := s.Employees.IdentityHashExists(ctx, hash)
		if err != nil {
			return bulk, fmt.Errorf("duplicate lookup for row %d: %w", outcome.Row, err)
		}
		if exists {
			outcome.Result.Add(compliance.RuleIdentityFormat, "identity_code", "identity code already registered")
			bulk.Succeeded--
			bulk.Failed++
			continue
		}

		row := rows[outcome.Row-1]
		e := Employee{
			ID:           compliance.EmployeeID(uuid.NewString()),
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Email:        row.Email,
			IdentityCode: outcome.Identity.Code,
			IdentityHash: hash,
			BirthDate:    outcome.Identity.BirthDate,
			Sex:          outcome.Identity.Sex,
			Status:       EmployeeActive,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.Employees.SaveEmployee(ctx, e); err != nil {
			return bulk, err
		}
		s.Audit.Record(ctx, s.event(actor, AuditEmployeeImported, string(e.ID), fmt.Sprintf("row %d", outcome.Row)))
	}

	return bulk, nil
}

// =============================================================================
// CONTRACT COMMANDS
// =============================================================================

// ContractInput is the request data for creating a contract.
type ContractInput struct {
	EmployeeID   compliance.EmployeeID
	Type         compliance.ContractType
	Position     string
	StartDate    compliance.Date
	Indefinite   bool
	EndDate      *compliance.Date
	TrialPeriod  bool
	TrialEndDate *compliance.Date
	SalaryType   compliance.SalaryType
	GrossAmount  string // decimal string, parsed here
	WorkingTime  string
	Primary      bool
}

// CreateContract validates the contract against the employee's existing
// contracts and persists it as DRAFT.
func (s *Service) CreateContract(ctx context.Context, in ContractInput, actor string) (*compliance.Contract, error) {
	emp, err := s.Employees.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, compliance.ErrEmployeeNotFound
	}

	c := compliance.Contract{
		ID:           compliance.ContractID(uuid.NewString()),
		EmployeeID:   in.EmployeeID,
		Type:         in.Type,
		Position:     in.Position,
		StartDate:    in.StartDate,
		Indefinite:   in.Indefinite,
		EndDate:      in.EndDate,
		TrialPeriod:  in.TrialPeriod,
		TrialEndDate: in.TrialEndDate,
		SalaryType:   in.SalaryType,
		GrossAmount:  compliance.ParseMoney(in.GrossAmount),
		WorkingTime:  compliance.ParseMoney(in.WorkingTime),
		Primary:      in.Primary,
		Status:       compliance.ContractDraft,
	}

	existing, err := s.Contracts.ListContractsByEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := compliance.ValidateContract(c, existing, s.Config.MinimumWage).Err(); err != nil {
		return nil, err
	}

	if err := s.Contracts.SaveContract(ctx, c); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, s.event(actor, AuditContractCreated, string(c.ID), string(c.Type)))
	return &c, nil
}

// ConfirmContract moves a DRAFT contract to ACTIVE.
func (s *Service) ConfirmContract(ctx context.Context, id compliance.ContractID, actor string) error {
	return s.transition(ctx, id, compliance.EventConfirm, AuditContractConfirmed, actor)
}

// SuspendContract moves an ACTIVE contract to SUSPENDED.
func (s *Service) SuspendContract(ctx context.Context, id compliance.ContractID, actor string) error {
	return s.transition(ctx, id, compliance.EventSuspend, AuditContractSuspended, actor)
}

// ResumeContract moves a SUSPENDED contract back to ACTIVE.
func (s *Service) ResumeContract(ctx context.Context, id compliance.ContractID, actor string) error {
	return s.transition(ctx, id, compliance.EventResume, AuditContractResumed, actor)
}

// TerminationOutcome reports the applied notice period alongside the
// terminated contract.
type TerminationOutcome struct {
	Contract         compliance.Contract
	NoticePeriodDays int
}

// TerminateContract terminates an ACTIVE contract as of the reference
// date, returning the statutory notice period. Terminating the primary
// contract cascades the employee status to TERMINATED.
func (s *Service) TerminateContract(ctx context.Context, id compliance.ContractID, referenceDate compliance.Date, actor string) (*TerminationOutcome, error) {
	c, err := s.Contracts.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, compliance.ErrContractNotFound
	}

	next, err := compliance.Transition(c.Status, compliance.EventTerminate)
	if err != nil {
		return nil, err
	}

	notice := compliance.NoticePeriodDays(*c, referenceDate)

	if err := s.Contracts.UpdateContractStatus(ctx, id, next); err != nil {
		return nil, err
	}
	c.Status = next

	if c.Primary {
		if err := s.Employees.UpdateEmployeeStatus(ctx, c.EmployeeID, EmployeeTerminated); err != nil {
			return nil, fmt.Errorf("employee cascade: %w", err)
		}
	}

	s.Audit.Record(ctx, s.event(actor, AuditContractTerminated, string(id),
		fmt.Sprintf("notice %d days", notice)))
	return &TerminationOutcome{Contract: *c, NoticePeriodDays: notice}, nil
}

// ExpireContracts sweeps ACTIVE contracts whose end date has passed and
// moves them to EXPIRED. Returns the number of contracts expired.
func (s *Service) ExpireContracts(ctx context.Context, asOf compliance.Date) (int, error) {
	due, err := s.Contracts.ListContractsExpiring(ctx, asOf)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range due {
		next, err := compliance.Transition(c.Status, compliance.EventExpire)
		if err != nil {
			continue // raced with another command; skip
		}
		if err := s.Contracts.UpdateContractStatus(ctx, c.ID, next); err != nil {
			return expired, err
		}
		s.Audit.Record(ctx, s.event("system", AuditContractExpired, string(c.ID), asOf.String()))
		expired++
	}
	return expired, nil
}

// NoticePeriod computes the statutory notice period for a contract as
// of the reference date, without changing anything.
func (s *Service) NoticePeriod(ctx context.Context, id compliance.ContractID, referenceDate compliance.Date) (int, error) {
	c, err := s.Contracts.GetContract(ctx, id)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, compliance.ErrContractNotFound
	}
	return compliance.NoticePeriodDays(*c, referenceDate), nil
}

// =============================================================================
// AMENDMENTS
// =============================================================================

// AmendContract records an amendment derived by diffing the stored
// contract against the desired state, applies it, and persists both.
// The amended contract must still satisfy every compliance check.
func (s *Service) AmendContract(ctx context.Context, id compliance.ContractID, desired compliance.Contract, effectiveFrom compliance.Date, actor, reason string) (*compliance.Amendment, error) {
	current, err := s.Contracts.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, compliance.ErrContractNotFound
	}

	changes := compliance.DiffContracts(*current, desired)
	if len(changes) == 0 {
		return nil, fmt.Errorf("amendment to %s: no field changes", id)
	}

	amended := compliance.ApplyChanges(*current, changes)
	existing, err := s.Contracts.ListContractsByEmployee(ctx, current.EmployeeID)
	if err != nil {
		return nil, err
	}
	// The amended contract replaces the current one in the overlap snapshot.
	peers := existing[:0:0]
	for _, e := range existing {
		if e.ID != id {
			peers = append(peers, e)
		}
	}
	if err := compliance.ValidateContract(amended, peers, s.Config.MinimumWage).Err(); err != nil {
		return nil, err
	}

	number, err := s.Contracts.NextAmendmentNumber(ctx, id)
	if err != nil {
		return nil, err
	}

	amendment := compliance.Amendment{
		ContractID:    id,
		Number:        number,
		EffectiveFrom: effectiveFrom,
		Changes:       changes,
		CreatedBy:     actor,
		Reason:        reason,
	}
	if err := s.Contracts.AppendAmendment(ctx, amendment); err != nil {
		return nil, err
	}
	if err := s.Contracts.ApplyAmendment(ctx, amended); err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, s.event(actor, AuditContractAmended, string(id),
		fmt.Sprintf("amendment #%d (%d fields)", number, len(changes))))
	return &amendment, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) transition(ctx context.Context, id compliance.ContractID, ev compliance.ContractEvent, action, actor string) error {
	c, err := s.Contracts.GetContract(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return compliance.ErrContractNotFound
	}
	next, err := compliance.Transition(c.Status, ev)
	if err != nil {
		return err
	}
	if err := s.Contracts.UpdateContractStatus(ctx, id, next); err != nil {
		return err
	}
	s.Audit.Record(ctx, s.event(actor, action, string(id), string(next)))
	return nil
}

func (s *Service) event(actor, action, subject, detail string) AuditEvent {
	return AuditEvent{
		ID:        uuid.NewString(),
		At:        time.Now().UTC(),
		Actor:     actor,
		Action:    action,
		SubjectID: subject,
		Detail:    detail,
	}
}
