/*
handlers.go - HTTP API handlers for the compliance engine

PURPOSE:
  Exposes the employment and payroll services via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List all employees
    POST   /api/employees                     Register employee
    POST   /api/employees/import              Bulk import (per-row outcomes)
    GET    /api/employees/{id}                Get employee details
    GET    /api/employees/{id}/contracts      Contracts of an employee
    GET    /api/employees/{id}/benefits       Benefit assignments of an employee

  Identity:
    POST   /api/identity/validate             Dry-run identity decode

  Contracts:
    POST   /api/contracts                     Create contract (DRAFT)
    GET    /api/contracts/{id}                Get contract
    POST   /api/contracts/{id}/confirm        DRAFT -> ACTIVE
    POST   /api/contracts/{id}/suspend        ACTIVE -> SUSPENDED
    POST   /api/contracts/{id}/resume         SUSPENDED -> ACTIVE
    POST   /api/contracts/{id}/terminate      ACTIVE -> TERMINATED
    GET    /api/contracts/{id}/notice-period  Read-only notice computation
    POST   /api/contracts/{id}/amendments     Record and apply an amendment
    GET    /api/contracts/{id}/amendments     Amendment history

  Benefits:
    GET    /api/benefit-types                 List benefit types
    POST   /api/benefit-types                 Register benefit type
    POST   /api/benefits                      Assign benefit
    GET    /api/benefits/{id}                 Get assignment
    PUT    /api/benefits/{id}/contribution    Change employee contribution
    POST   /api/benefits/{id}/suspend         Suspend assignment
    POST   /api/benefits/{id}/terminate       Terminate assignment
    GET    /api/benefits/{id}/history         Mutation history
    POST   /api/benefits/{id}/calculate       Monthly calculation (read-only)

  ZFŚS:
    POST   /api/zfss/grants                   Grant from the social fund
    GET    /api/zfss/fund                     Fund balance (?year=)
    POST   /api/zfss/fund/credit              Top up the fund
    GET    /api/zfss/tier                     Resolve income tier (?income=)

  Admin:
    POST   /api/admin/expire-contracts        Manual expiry sweep
    GET    /api/audit/{subject}               Audit trail for a record
    POST   /api/seed                          Load demo data (dev only)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Rule violations, malformed input (violations array included)
  - 404: Record not found
  - 409: Duplicate identity code
  - 500: Internal errors

ACTOR ATTRIBUTION:
  The X-Actor header names who performs a command; it defaults to "api".
  Audit events carry it verbatim.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - seed.go: Demo data loader
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
	"github.com/kadry/compliance-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the read surface the handlers need beyond the services.
type Store interface {
	employment.EmployeeStore
	employment.ContractStore
	payroll.BenefitTypeStore
	payroll.AssignmentStore
	payroll.FundStore

	ListAuditEvents(ctx context.Context, subjectID string) ([]employment.AuditEvent, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Employment *employment.Service
	Payroll    *payroll.Service
}

// NewHandler creates a new handler over the given store and services.
func NewHandler(store Store, emp *employment.Service, pay *payroll.Service) *Handler {
	return &Handler{Store: store, Employment: emp, Payroll: pay}
}

func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "api"
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee registers an employee from an identity code.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Employment.CreateEmployee(r.Context(), compliance.EmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IdentityCode: req.IdentityCode,
		Email:        req.Email,
	}, actor(r))
	if err != nil {
		writeDomainError(w, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*e))
}

// ImportEmployees evaluates a batch of rows and stores the valid ones.
func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	var req ImportEmployeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := make([]compliance.EmployeeInput, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = compliance.EmployeeInput{
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			IdentityCode: row.IdentityCode,
			Email:        row.Email,
		}
	}

	bulk, err := h.Employment.ImportEmployees(r.Context(), rows, actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Import failed", err)
		return
	}

	out := ImportResultDTO{
		Succeeded: bulk.Succeeded,
		Failed:    bulk.Failed,
		Rows:      make([]ImportRowDTO, len(bulk.Outcomes)),
	}
	for i, o := range bulk.Outcomes {
		out.Rows[i] = ImportRowDTO{Row: o.Row, OK: o.OK(), Violations: o.Result.Violations}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := compliance.EmployeeID(chi.URLParam(r, "id"))

	e, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*e))
}

// GetEmployeeContracts returns the employee's contracts.
func (h *Handler) GetEmployeeContracts(w http.ResponseWriter, r *http.Request) {
	id := compliance.EmployeeID(chi.URLParam(r, "id"))

	contracts, err := h.Store.ListContractsByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeBenefits returns the employee's benefit assignments.
func (h *Handler) GetEmployeeBenefits(w http.ResponseWriter, r *http.Request) {
	id := compliance.EmployeeID(chi.URLParam(r, "id"))

	assignments, err := h.Store.ListAssignmentsByEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ValidateIdentity decodes an identity code without storing anything.
func (h *Handler) ValidateIdentity(w http.ResponseWriter, r *http.Request) {
	var req ValidateIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	identity, err := compliance.DecodeWith(req.IdentityCode, h.Employment.Config.SexConvention)
	if err != nil {
		writeJSON(w, http.StatusOK, IdentityDTO{
			Valid: false,
			Violations: []compliance.Violation{{
				Rule:    compliance.RuleIdentityChecksum,
				Field:   "identity_code",
				Message: err.Error(),
			}},
		})
		return
	}
	writeJSON(w, http.StatusOK, IdentityDTO{
		Valid:     true,
		BirthDate: identity.BirthDate.String(),
		Sex:       string(identity.Sex),
	})
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// CreateContract creates a DRAFT contract for an employee.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := compliance.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return
	}
	trialEnd, err := parseDatePtr(req.TrialEndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trial_end_date", err)
		return
	}

	c, err := h.Employment.CreateContract(r.Context(), employment.ContractInput{
		EmployeeID:   compliance.EmployeeID(req.EmployeeID),
		Type:         compliance.ContractType(req.Type),
		Position:     req.Position,
		StartDate:    start,
		Indefinite:   req.Indefinite,
		EndDate:      end,
		TrialPeriod:  req.TrialPeriod,
		TrialEndDate: trialEnd,
		SalaryType:   compliance.SalaryType(req.SalaryType),
		GrossAmount:  req.GrossAmount,
		WorkingTime:  req.WorkingTime,
		Primary:      req.Primary,
	}, actor(r))
	if err != nil {
		writeDomainError(w, "Failed to create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(*c))
}

// GetContract returns one contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	c, err := h.Store.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*c))
}

// ConfirmContract moves a DRAFT contract to ACTIVE.
func (h *Handler) ConfirmContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Employment.ConfirmContract)
}

// SuspendContract moves an ACTIVE contract to SUSPENDED.
func (h *Handler) SuspendContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Employment.SuspendContract)
}

// ResumeContract moves a SUSPENDED contract back to ACTIVE.
func (h *Handler) ResumeContract(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Employment.ResumeContract)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, cmd func(context.Context, compliance.ContractID, string) error) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	if err := cmd(r.Context(), id, actor(r)); err != nil {
		writeDomainError(w, "Status change rejected", err)
		return
	}

	c, err := h.Store.GetContract(r.Context(), id)
	if err != nil || c == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(*c))
}

// TerminateContract terminates the contract and reports the notice period.
func (h *Handler) TerminateContract(w http.ResponseWriter, r *http.Request) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	var req TerminateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	reference, err := parseDateOrToday(req.ReferenceDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reference_date", err)
		return
	}

	out, err := h.Employment.TerminateContract(r.Context(), id, reference, actor(r))
	if err != nil {
		writeDomainError(w, "Termination rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, TerminationDTO{
		Contract:         toContractDTO(out.Contract),
		NoticePeriodDays: out.NoticePeriodDays,
	})
}

// GetNoticePeriod computes the notice period without changing anything.
// GET /api/contracts/{id}/notice-period?reference_date=2025-03-01
func (h *Handler) GetNoticePeriod(w http.ResponseWriter, r *http.Request) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	reference, err := parseDateOrToday(r.URL.Query().Get("reference_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reference_date", err)
		return
	}

	days, err := h.Employment.NoticePeriod(r.Context(), id, reference)
	if err != nil {
		writeDomainError(w, "Failed to compute notice period", err)
		return
	}
	writeJSON(w, http.StatusOK, NoticePeriodDTO{
		ContractID:       string(id),
		ReferenceDate:    reference.String(),
		NoticePeriodDays: days,
	})
}

// AmendContract records an amendment built from the requested field values.
func (h *Handler) AmendContract(w http.ResponseWriter, r *http.Request) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	var req AmendContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	effectiveFrom, err := compliance.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from", err)
		return
	}

	current, err := h.Store.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contract", err)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}

	desired := *current
	if req.GrossAmount != nil {
		desired.GrossAmount = compliance.ParseMoney(*req.GrossAmount)
	}
	if req.WorkingTime != nil {
		desired.WorkingTime = compliance.ParseMoney(*req.WorkingTime)
	}
	if req.SalaryType != nil {
		desired.SalaryType = compliance.SalaryType(*req.SalaryType)
	}
	if req.Position != nil {
		desired.Position = *req.Position
	}
	if req.EndDate != nil {
		end, err := compliance.ParseDate(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
		desired.EndDate = &end
		desired.Indefinite = false
	}
	if req.Indefinite != nil && *req.Indefinite {
		desired.Indefinite = true
		desired.EndDate = nil
	}

	amendment, err := h.Employment.AmendContract(r.Context(), id, desired, effectiveFrom, actor(r), req.Reason)
	if err != nil {
		writeDomainError(w, "Amendment rejected", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAmendmentDTO(*amendment))
}

// ListAmendments returns the amendment history of a contract.
func (h *Handler) ListAmendments(w http.ResponseWriter, r *http.Request) {
	id := compliance.ContractID(chi.URLParam(r, "id"))

	amendments, err := h.Store.ListAmendments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list amendments", err)
		return
	}

	dtos := make([]AmendmentDTO, len(amendments))
	for i, a := range amendments {
		dtos[i] = toAmendmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BENEFIT HANDLERS
// =============================================================================

// ListBenefitTypes returns the benefit-type registry.
func (h *Handler) ListBenefitTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListBenefitTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list benefit types", err)
		return
	}

	dtos := make([]BenefitTypeDTO, len(types))
	for i, bt := range types {
		dtos[i] = toBenefitTypeDTO(bt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBenefitType registers or updates a benefit type.
func (h *Handler) CreateBenefitType(w http.ResponseWriter, r *http.Request) {
	var req CreateBenefitTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	bt := compliance.BenefitType{
		ID:            compliance.BenefitTypeID(req.ID),
		Name:          req.Name,
		Category:      compliance.BenefitCategory(req.Category),
		Taxable:       req.Taxable,
		ZUSApplicable: req.ZUSApplicable,
		ZUSType:       compliance.ZUSType(req.ZUSType),
	}
	if req.MaxAmount != nil {
		max := compliance.ParseMoney(*req.MaxAmount)
		bt.MaxAmount = &max
	}
	if req.MaxPercent != nil {
		max := compliance.ParseMoney(*req.MaxPercent)
		bt.MaxPercent = &max
	}

	if err := h.Store.SaveBenefitType(r.Context(), bt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save benefit type", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBenefitTypeDTO(bt))
}

// AssignBenefit assigns a benefit type to an employee.
func (h *Handler) AssignBenefit(w http.ResponseWriter, r *http.Request) {
	var req AssignBenefitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	method, err := parseMethod(req.Method, req.MethodValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid calculation method", err)
		return
	}
	from, err := compliance.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from", err)
		return
	}
	to, err := parseDatePtr(req.EffectiveTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_to", err)
		return
	}

	a, err := h.Payroll.AssignBenefit(r.Context(), compliance.BenefitAssignment{
		EmployeeID:           compliance.EmployeeID(req.EmployeeID),
		BenefitTypeID:        compliance.BenefitTypeID(req.BenefitTypeID),
		Method:               method,
		EffectiveFrom:        from,
		EffectiveTo:          to,
		EmployeeContribution: compliance.ParseMoney(req.EmployeeContribution),
	}, actor(r))
	if err != nil {
		writeDomainError(w, "Failed to assign benefit", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(*a))
}

// GetAssignment returns one benefit assignment.
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id := compliance.AssignmentID(chi.URLParam(r, "id"))

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assignment", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "Assignment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(*a))
}

// UpdateContribution changes the employee contribution on an assignment.
func (h *Handler) UpdateContribution(w http.ResponseWriter, r *http.Request) {
	id := compliance.AssignmentID(chi.URLParam(r, "id"))

	var req UpdateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Payroll.UpdateContribution(r.Context(), id, compliance.ParseMoney(req.Contribution), actor(r), req.Reason)
	if err != nil {
		writeDomainError(w, "Contribution change rejected", err)
		return
	}

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil || a == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(*a))
}

// SuspendAssignment suspends a benefit assignment.
func (h *Handler) SuspendAssignment(w http.ResponseWriter, r *http.Request) {
	h.assignmentStatus(w, r, h.Payroll.SuspendAssignment)
}

// TerminateAssignment terminates a benefit assignment.
func (h *Handler) TerminateAssignment(w http.ResponseWriter, r *http.Request) {
	h.assignmentStatus(w, r, h.Payroll.TerminateAssignment)
}

func (h *Handler) assignmentStatus(w http.ResponseWriter, r *http.Request, cmd func(context.Context, compliance.AssignmentID, string, string) error) {
	id := compliance.AssignmentID(chi.URLParam(r, "id"))

	var req StatusChangeRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // reason is optional
	}

	if err := cmd(r.Context(), id, actor(r), req.Reason); err != nil {
		writeDomainError(w, "Status change rejected", err)
		return
	}

	a, err := h.Store.GetAssignment(r.Context(), id)
	if err != nil || a == nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(*a))
}

// GetAssignmentHistory returns the mutation history of an assignment.
func (h *Handler) GetAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	id := compliance.AssignmentID(chi.URLParam(r, "id"))

	history, err := h.Store.ListAssignmentChanges(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history", err)
		return
	}

	dtos := make([]AssignmentChangeDTO, len(history))
	for i, ch := range history {
		dtos[i] = AssignmentChangeDTO{
			Field:     ch.Field,
			Previous:  ch.Previous,
			New:       ch.New,
			Actor:     ch.Actor,
			Reason:    ch.Reason,
			ChangedAt: ch.ChangedAt.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CalculateBenefit runs the monthly calculation for an assignment.
func (h *Handler) CalculateBenefit(w http.ResponseWriter, r *http.Request) {
	id := compliance.AssignmentID(chi.URLParam(r, "id"))

	var req CalculateBenefitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 || req.Month < 1 || req.Month > 12 {
		writeError(w, http.StatusBadRequest, "year and month (1-12) are required", nil)
		return
	}

	result, err := h.Payroll.CalculateBenefit(r.Context(), id,
		compliance.ParseMoney(req.GrossSalary),
		compliance.NewMonthPeriod(req.Year, time.Month(req.Month)))
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toCalculationDTO(*result))
}

// =============================================================================
// ZFŚS HANDLERS
// =============================================================================

// GrantZfss grants a benefit from the social fund.
func (h *Handler) GrantZfss(w http.ResponseWriter, r *http.Request) {
	var req GrantZfssRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	grant, err := h.Payroll.GrantZfss(r.Context(),
		compliance.EmployeeID(req.EmployeeID),
		compliance.ParseMoney(req.Income),
		compliance.ParseMoney(req.BaseAmount),
		req.Year, actor(r))
	if err != nil {
		writeDomainError(w, "Grant rejected", err)
		return
	}
	writeJSON(w, http.StatusCreated, ZfssGrantDTO{
		EmployeeID:     string(grant.EmployeeID),
		Tier:           grant.Tier.Number,
		TierPercentage: grant.Tier.Percentage.String(),
		BaseAmount:     grant.BaseAmount.String(),
		Amount:         grant.Amount.String(),
		AmountDisplay:  FormatPLN(grant.Amount),
		Year:           grant.Year,
	})
}

// GetFundBalance returns the fund balance for a year.
// GET /api/zfss/fund?year=2025
func (h *Handler) GetFundBalance(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year query parameter is required", err)
		return
	}

	balance, err := h.Store.FundBalance(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get fund balance", err)
		return
	}
	writeJSON(w, http.StatusOK, FundBalanceDTO{
		Year:           year,
		Balance:        balance.String(),
		BalanceDisplay: FormatPLN(balance),
	})
}

// CreditFund tops up the fund for a year.
func (h *Handler) CreditFund(w http.ResponseWriter, r *http.Request) {
	var req CreditFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	amount := compliance.ParseMoney(req.Amount)
	if !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	if err := h.Store.CreditFund(r.Context(), req.Year, amount); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to credit fund", err)
		return
	}

	balance, err := h.Store.FundBalance(r.Context(), req.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload balance", err)
		return
	}
	writeJSON(w, http.StatusOK, FundBalanceDTO{
		Year:           req.Year,
		Balance:        balance.String(),
		BalanceDisplay: FormatPLN(balance),
	})
}

// ResolveTier previews the income tier an income falls into.
// GET /api/zfss/tier?income=4500
func (h *Handler) ResolveTier(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("income")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "income query parameter is required", nil)
		return
	}
	if len(h.Payroll.Config.Thresholds) == 0 {
		writeError(w, http.StatusInternalServerError, "Threshold table not configured", nil)
		return
	}

	tier := compliance.ResolveTier(compliance.ParseMoney(raw), h.Payroll.Config.Thresholds)
	writeJSON(w, http.StatusOK, TierDTO{
		Tier:       tier.Number,
		Percentage: tier.Percentage.String(),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ExpireContracts runs the expiry sweep manually.
// POST /api/admin/expire-contracts?as_of=2025-03-01
func (h *Handler) ExpireContracts(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDateOrToday(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of", err)
		return
	}

	expired, err := h.Employment.ExpireContracts(r.Context(), asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Sweep failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResultDTO{AsOf: asOf.String(), Expired: expired})
}

// GetAuditTrail returns the audit trail of a record.
func (h *Handler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	events, err := h.Store.ListAuditEvents(r.Context(), subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list audit events", err)
		return
	}

	dtos := make([]AuditEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toAuditEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP statuses. Rule violations
// carry their violation list so clients can highlight fields.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var ve *compliance.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      message,
			Details:    err.Error(),
			Violations: ve.Result.Violations,
		})
	case errors.Is(err, compliance.ErrDuplicateIdentity):
		writeError(w, http.StatusConflict, message, err)
	case compliance.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case compliance.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func parseDatePtr(s *string) (*compliance.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := compliance.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseDateOrToday(s string) (compliance.Date, error) {
	if s == "" {
		now := time.Now().UTC()
		return compliance.NewDate(now.Year(), now.Month(), now.Day()), nil
	}
	return compliance.ParseDate(s)
}

func parseMethod(kind, value string) (compliance.CalculationMethod, error) {
	if value == "" {
		return nil, fmt.Errorf("method_value is required")
	}
	amount := compliance.ParseMoney(value)
	switch kind {
	case "fixed":
		return compliance.Fixed{Amount: amount}, nil
	case "percentage":
		return compliance.PercentageOfSalary{Percent: amount}, nil
	case "formula":
		return compliance.Formula{Value: amount}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (expected fixed, percentage, or formula)", kind)
	}
}
