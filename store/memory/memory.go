// Package memory provides an in-memory implementation of every store
// interface, for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
	"github.com/shopspring/decimal"
)

// Store implements the employment and payroll store interfaces plus the
// audit sink, all in memory.
type Store struct {
	mu sync.RWMutex

	employees   map[compliance.EmployeeID]employment.Employee
	identityIdx map[string]compliance.EmployeeID

	contracts  map[compliance.ContractID]compliance.Contract
	amendments map[compliance.ContractID][]compliance.Amendment

	benefitTypes map[compliance.BenefitTypeID]compliance.BenefitType
	assignments  map[compliance.AssignmentID]compliance.BenefitAssignment
	history      map[compliance.AssignmentID][]compliance.AssignmentChange

	funds map[int]decimal.Decimal

	audit []employment.AuditEvent
}

func New() *Store {
	return &Store{
		employees:    make(map[compliance.EmployeeID]employment.Employee),
		identityIdx:  make(map[string]compliance.EmployeeID),
		contracts:    make(map[compliance.ContractID]compliance.Contract),
		amendments:   make(map[compliance.ContractID][]compliance.Amendment),
		benefitTypes: make(map[compliance.BenefitTypeID]compliance.BenefitType),
		assignments:  make(map[compliance.AssignmentID]compliance.BenefitAssignment),
		history:      make(map[compliance.AssignmentID][]compliance.AssignmentChange),
		funds:        make(map[int]decimal.Decimal),
	}
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) SaveEmployee(_ context.Context, e employment.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.identityIdx[e.IdentityHash]; ok && existing != e.ID {
		return compliance.ErrDuplicateIdentity
	}
	s.employees[e.ID] = e
	s.identityIdx[e.IdentityHash] = e.ID
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id compliance.EmployeeID) (*employment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]employment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]employment.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) IdentityHashExists(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.identityIdx[hash]
	return ok, nil
}

func (s *Store) UpdateEmployeeStatus(_ context.Context, id compliance.EmployeeID, status employment.EmployeeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return compliance.ErrEmployeeNotFound
	}
	e.Status = status
	s.employees[id] = e
	return nil
}

// =============================================================================
// CONTRACT STORE
// =============================================================================

func (s *Store) SaveContract(_ context.Context, c compliance.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[c.ID] = c
	return nil
}

func (s *Store) GetContract(_ context.Context, id compliance.ContractID) (*compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.contracts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (s *Store) ListContractsByEmployee(_ context.Context, employeeID compliance.EmployeeID) ([]compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []compliance.Contract
	for _, c := range s.contracts {
		if c.EmployeeID == employeeID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateContractStatus(_ context.Context, id compliance.ContractID, status compliance.ContractStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contracts[id]
	if !ok {
		return compliance.ErrContractNotFound
	}
	c.Status = status
	s.contracts[id] = c
	return nil
}

func (s *Store) ListContractsExpiring(_ context.Context, asOf compliance.Date) ([]compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []compliance.Contract
	for _, c := range s.contracts {
		if c.Status == compliance.ContractActive && c.EndDate != nil && c.EndDate.BeforeOrEqual(asOf) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AppendAmendment(_ context.Context, a compliance.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amendments[a.ContractID] = append(s.amendments[a.ContractID], a)
	return nil
}

func (s *Store) ListAmendments(_ context.Context, contractID compliance.ContractID) ([]compliance.Amendment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]compliance.Amendment(nil), s.amendments[contractID]...), nil
}

func (s *Store) NextAmendmentNumber(_ context.Context, contractID compliance.ContractID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.amendments[contractID]) + 1, nil
}

func (s *Store) ApplyAmendment(_ context.Context, c compliance.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contracts[c.ID]; !ok {
		return compliance.ErrContractNotFound
	}
	s.contracts[c.ID] = c
	return nil
}

// =============================================================================
// BENEFIT TYPE / ASSIGNMENT STORE
// =============================================================================

func (s *Store) SaveBenefitType(_ context.Context, bt compliance.BenefitType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.benefitTypes[bt.ID] = bt
	return nil
}

func (s *Store) GetBenefitType(_ context.Context, id compliance.BenefitTypeID) (*compliance.BenefitType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if bt, ok := s.benefitTypes[id]; ok {
		return &bt, nil
	}
	return nil, nil
}

func (s *Store) ListBenefitTypes(_ context.Context) ([]compliance.BenefitType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]compliance.BenefitType, 0, len(s.benefitTypes))
	for _, bt := range s.benefitTypes {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveAssignment(_ context.Context, a compliance.BenefitAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID] = a
	return nil
}

func (s *Store) GetAssignment(_ context.Context, id compliance.AssignmentID) (*compliance.BenefitAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.assignments[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *Store) ListAssignmentsByEmployee(_ context.Context, employeeID compliance.EmployeeID) ([]compliance.BenefitAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []compliance.BenefitAssignment
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateAssignment(_ context.Context, a compliance.BenefitAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.ID]; !ok {
		return compliance.ErrAssignmentNotFound
	}
	s.assignments[a.ID] = a
	return nil
}

func (s *Store) AppendAssignmentChange(_ context.Context, ch compliance.AssignmentChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[ch.AssignmentID] = append(s.history[ch.AssignmentID], ch)
	return nil
}

func (s *Store) ListAssignmentChanges(_ context.Context, id compliance.AssignmentID) ([]compliance.AssignmentChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]compliance.AssignmentChange(nil), s.history[id]...), nil
}

// =============================================================================
// FUND STORE
// =============================================================================

func (s *Store) FundBalance(_ context.Context, year int) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.funds[year], nil
}

func (s *Store) DebitFund(_ context.Context, year int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := s.funds[year]
	if balance.LessThan(amount) {
		return compliance.ErrFundInsufficient
	}
	s.funds[year] = balance.Sub(amount)
	return nil
}

func (s *Store) CreditFund(_ context.Context, year int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funds[year] = s.funds[year].Add(amount)
	return nil
}

// =============================================================================
// AUDIT SINK
// =============================================================================

func (s *Store) Record(_ context.Context, ev employment.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, ev)
}

// AuditEvents returns a copy of everything recorded, for test assertions.
func (s *Store) AuditEvents() []employment.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]employment.AuditEvent(nil), s.audit...)
}

// ListAuditEvents returns the audit trail for a subject, newest first.
func (s *Store) ListAuditEvents(_ context.Context, subjectID string) ([]employment.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []employment.AuditEvent
	for i := len(s.audit) - 1; i >= 0; i-- {
		if s.audit[i].SubjectID == subjectID {
			out = append(out, s.audit[i])
		}
	}
	return out, nil
}
