/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Money travels as decimal strings ("4242.00"), never floats. Response
  DTOs additionally carry display strings (see format.go); requests
  accept the raw form only.

PRIVACY:
  Identity codes never appear in responses. EmployeeDTO carries the
  masked form plus the decoded birth date and sex.

VALIDATION:
  Validation is done in the compliance package, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - format.go: Display-string helpers
*/
package api

import (
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty"`
	IdentityCode string `json:"identity_code"` // masked
	BirthDate    string `json:"birth_date"`
	Sex          string `json:"sex"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to register an employee.
type CreateEmployeeRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IdentityCode string `json:"identity_code"`
	Email        string `json:"email,omitempty"`
}

// ImportEmployeesRequest carries a batch of registration rows.
type ImportEmployeesRequest struct {
	Rows []CreateEmployeeRequest `json:"rows"`
}

// ImportRowDTO reports one row's outcome; row numbers are 1-based.
type ImportRowDTO struct {
	Row        int                    `json:"row"`
	OK         bool                   `json:"ok"`
	Violations []compliance.Violation `json:"violations,omitempty"`
}

// ImportResultDTO summarizes a bulk import.
type ImportResultDTO struct {
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Rows      []ImportRowDTO `json:"rows"`
}

// ValidateIdentityRequest asks for a dry-run identity decode.
type ValidateIdentityRequest struct {
	IdentityCode string `json:"identity_code"`
}

// IdentityDTO is the decoded identity preview.
type IdentityDTO struct {
	Valid      bool                   `json:"valid"`
	BirthDate  string                 `json:"birth_date,omitempty"`
	Sex        string                 `json:"sex,omitempty"`
	Violations []compliance.Violation `json:"violations,omitempty"`
}

// =============================================================================
// CONTRACTS
// =============================================================================

// ContractDTO represents a contract in API responses.
type ContractDTO struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	Type               string  `json:"type"`
	Position           string  `json:"position,omitempty"`
	StartDate          string  `json:"start_date"`
	Indefinite         bool    `json:"indefinite"`
	EndDate            *string `json:"end_date,omitempty"`
	TrialPeriod        bool    `json:"trial_period"`
	TrialEndDate       *string `json:"trial_end_date,omitempty"`
	SalaryType         string  `json:"salary_type"`
	GrossAmount        string  `json:"gross_amount"`
	GrossDisplay       string  `json:"gross_display"`
	WorkingTime        string  `json:"working_time"`
	WorkingTimeDisplay string  `json:"working_time_display"`
	Primary            bool    `json:"primary"`
	Status             string  `json:"status"`
}

// CreateContractRequest is the request to create a contract.
type CreateContractRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Type         string  `json:"type"`
	Position     string  `json:"position,omitempty"`
	StartDate    string  `json:"start_date"`
	Indefinite   bool    `json:"indefinite"`
	EndDate      *string `json:"end_date,omitempty"`
	TrialPeriod  bool    `json:"trial_period"`
	TrialEndDate *string `json:"trial_end_date,omitempty"`
	SalaryType   string  `json:"salary_type"`
	GrossAmount  string  `json:"gross_amount"`
	WorkingTime  string  `json:"working_time"`
	Primary      bool    `json:"primary"`
}

// TerminateContractRequest carries the termination reference date.
type TerminateContractRequest struct {
	ReferenceDate string `json:"reference_date"`
}

// TerminationDTO reports the applied notice period.
type TerminationDTO struct {
	Contract         ContractDTO `json:"contract"`
	NoticePeriodDays int         `json:"notice_period_days"`
}

// NoticePeriodDTO is the read-only notice computation.
type NoticePeriodDTO struct {
	ContractID       string `json:"contract_id"`
	ReferenceDate    string `json:"reference_date"`
	NoticePeriodDays int    `json:"notice_period_days"`
}

// AmendContractRequest names the desired field values; omitted fields
// keep their current value.
type AmendContractRequest struct {
	EffectiveFrom string  `json:"effective_from"`
	Reason        string  `json:"reason,omitempty"`
	GrossAmount   *string `json:"gross_amount,omitempty"`
	WorkingTime   *string `json:"working_time,omitempty"`
	SalaryType    *string `json:"salary_type,omitempty"`
	Position      *string `json:"position,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Indefinite    *bool   `json:"indefinite,omitempty"`
}

// FieldChangeDTO is one before/after pair in an amendment.
type FieldChangeDTO struct {
	Field  string  `json:"field"`
	Before *string `json:"before"`
	After  *string `json:"after"`
}

// AmendmentDTO represents a recorded amendment.
type AmendmentDTO struct {
	ContractID    string           `json:"contract_id"`
	Number        int              `json:"number"`
	EffectiveFrom string           `json:"effective_from"`
	Changes       []FieldChangeDTO `json:"changes"`
	CreatedBy     string           `json:"created_by"`
	Reason        string           `json:"reason,omitempty"`
}

// =============================================================================
// BENEFITS
// =============================================================================

// BenefitTypeDTO represents a benefit type in API responses.
type BenefitTypeDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Taxable       bool    `json:"taxable"`
	ZUSApplicable bool    `json:"zus_applicable"`
	ZUSType       string  `json:"zus_type"`
	MaxAmount     *string `json:"max_amount,omitempty"`
	MaxPercent    *string `json:"max_percent,omitempty"`
}

// CreateBenefitTypeRequest registers a benefit type.
type CreateBenefitTypeRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Taxable       bool    `json:"taxable"`
	ZUSApplicable bool    `json:"zus_applicable"`
	ZUSType       string  `json:"zus_type"`
	MaxAmount     *string `json:"max_amount,omitempty"`
	MaxPercent    *string `json:"max_percent,omitempty"`
}

// AssignmentDTO represents a benefit assignment.
type AssignmentDTO struct {
	ID                   string  `json:"id"`
	EmployeeID           string  `json:"employee_id"`
	BenefitTypeID        string  `json:"benefit_type_id"`
	Method               string  `json:"method"`
	MethodValue          string  `json:"method_value"`
	EffectiveFrom        string  `json:"effective_from"`
	EffectiveTo          *string `json:"effective_to,omitempty"`
	EmployeeContribution string  `json:"employee_contribution"`
	Status               string  `json:"status"`
}

// AssignBenefitRequest creates an assignment.
type AssignBenefitRequest struct {
	EmployeeID           string  `json:"employee_id"`
	BenefitTypeID        string  `json:"benefit_type_id"`
	Method               string  `json:"method"` // fixed | percentage | formula
	MethodValue          string  `json:"method_value"`
	EffectiveFrom        string  `json:"effective_from"`
	EffectiveTo          *string `json:"effective_to,omitempty"`
	EmployeeContribution string  `json:"employee_contribution,omitempty"`
}

// UpdateContributionRequest changes the employee contribution.
type UpdateContributionRequest struct {
	Contribution string `json:"contribution"`
	Reason       string `json:"reason,omitempty"`
}

// StatusChangeRequest carries the reason for suspend/terminate.
type StatusChangeRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AssignmentChangeDTO is one history entry of an assignment.
type AssignmentChangeDTO struct {
	Field     string `json:"field"`
	Previous  string `json:"previous"`
	New       string `json:"new"`
	Actor     string `json:"actor"`
	Reason    string `json:"reason,omitempty"`
	ChangedAt string `json:"changed_at"`
}

// CalculateBenefitRequest runs the monthly calculation.
type CalculateBenefitRequest struct {
	GrossSalary string `json:"gross_salary"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
}

// CalculationDTO is the monthly calculation breakdown.
type CalculationDTO struct {
	GrossAmount          string `json:"gross_amount"`
	GrossDisplay         string `json:"gross_display"`
	EmployeeContribution string `json:"employee_contribution"`
	NetBenefit           string `json:"net_benefit"`
	NetDisplay           string `json:"net_display"`
	TaxableAmount        string `json:"taxable_amount"`
	ZUSBase              string `json:"zus_base"`
	ZUSEmployee          string `json:"zus_employee"`
	ZUSEmployer          string `json:"zus_employer"`
	EffectiveDays        int    `json:"effective_days"`
}

// =============================================================================
// ZFŚS
// =============================================================================

// GrantZfssRequest requests a social-fund grant.
type GrantZfssRequest struct {
	EmployeeID string `json:"employee_id"`
	Income     string `json:"income"`
	BaseAmount string `json:"base_amount"`
	Year       int    `json:"year"`
}

// ZfssGrantDTO reports a completed grant.
type ZfssGrantDTO struct {
	EmployeeID     string `json:"employee_id"`
	Tier           int    `json:"tier"`
	TierPercentage string `json:"tier_percentage"`
	BaseAmount     string `json:"base_amount"`
	Amount         string `json:"amount"`
	AmountDisplay  string `json:"amount_display"`
	Year           int    `json:"year"`
}

// FundBalanceDTO is the fund balance for a year.
type FundBalanceDTO struct {
	Year           int    `json:"year"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
}

// CreditFundRequest tops up the fund.
type CreditFundRequest struct {
	Year   int    `json:"year"`
	Amount string `json:"amount"`
}

// TierDTO is the resolved income tier for a preview.
type TierDTO struct {
	Tier       int    `json:"tier"`
	Percentage string `json:"percentage"`
}

// =============================================================================
// SHARED
// =============================================================================

// AuditEventDTO represents one audit trail entry.
type AuditEventDTO struct {
	ID        string `json:"id"`
	At        string `json:"at"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	SubjectID string `json:"subject_id"`
	Detail    string `json:"detail,omitempty"`
}

// ErrorResponse is the standard error body. Violations are present for
// rule failures so clients can highlight fields.
type ErrorResponse struct {
	Error      string                 `json:"error"`
	Details    string                 `json:"details,omitempty"`
	Violations []compliance.Violation `json:"violations,omitempty"`
}

// SweepResultDTO reports a manual expiry sweep.
type SweepResultDTO struct {
	AsOf    string `json:"as_of"`
	Expired int    `json:"expired"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toEmployeeDTO(e employment.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:           string(e.ID),
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		IdentityCode: MaskIdentityCode(e.IdentityCode),
		BirthDate:    e.BirthDate.String(),
		Sex:          string(e.Sex),
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}

func toContractDTO(c compliance.Contract) ContractDTO {
	dto := ContractDTO{
		ID:                 string(c.ID),
		EmployeeID:         string(c.EmployeeID),
		Type:               string(c.Type),
		Position:           c.Position,
		StartDate:          c.StartDate.String(),
		Indefinite:         c.Indefinite,
		TrialPeriod:        c.TrialPeriod,
		SalaryType:         string(c.SalaryType),
		GrossAmount:        c.GrossAmount.String(),
		GrossDisplay:       FormatPLN(c.GrossAmount),
		WorkingTime:        c.WorkingTime.String(),
		WorkingTimeDisplay: FormatWorkingTime(c.WorkingTime),
		Primary:            c.Primary,
		Status:             string(c.Status),
	}
	if c.EndDate != nil {
		s := c.EndDate.String()
		dto.EndDate = &s
	}
	if c.TrialEndDate != nil {
		s := c.TrialEndDate.String()
		dto.TrialEndDate = &s
	}
	return dto
}

func toAmendmentDTO(a compliance.Amendment) AmendmentDTO {
	dto := AmendmentDTO{
		ContractID:    string(a.ContractID),
		Number:        a.Number,
		EffectiveFrom: a.EffectiveFrom.String(),
		CreatedBy:     a.CreatedBy,
		Reason:        a.Reason,
		Changes:       make([]FieldChangeDTO, 0, len(a.Changes)),
	}
	for _, ch := range a.Changes {
		dto.Changes = append(dto.Changes, toFieldChangeDTO(ch))
	}
	return dto
}

func toFieldChangeDTO(ch compliance.FieldChange) FieldChangeDTO {
	dto := FieldChangeDTO{Field: ch.FieldName()}
	switch c := ch.(type) {
	case compliance.GrossAmountChange:
		dto.Before, dto.After = strPtr(c.Before.String()), strPtr(c.After.String())
	case compliance.WorkingTimeChange:
		dto.Before, dto.After = strPtr(c.Before.String()), strPtr(c.After.String())
	case compliance.SalaryTypeChange:
		dto.Before, dto.After = strPtr(string(c.Before)), strPtr(string(c.After))
	case compliance.PositionChange:
		dto.Before, dto.After = strPtr(c.Before), strPtr(c.After)
	case compliance.EndDateChange:
		if c.Before != nil {
			dto.Before = strPtr(c.Before.String())
		}
		if c.After != nil {
			dto.After = strPtr(c.After.String())
		}
	}
	return dto
}

func toBenefitTypeDTO(bt compliance.BenefitType) BenefitTypeDTO {
	dto := BenefitTypeDTO{
		ID:            string(bt.ID),
		Name:          bt.Name,
		Category:      string(bt.Category),
		Taxable:       bt.Taxable,
		ZUSApplicable: bt.ZUSApplicable,
		ZUSType:       string(bt.ZUSType),
	}
	if bt.MaxAmount != nil {
		dto.MaxAmount = strPtr(bt.MaxAmount.String())
	}
	if bt.MaxPercent != nil {
		dto.MaxPercent = strPtr(bt.MaxPercent.String())
	}
	return dto
}

func toAssignmentDTO(a compliance.BenefitAssignment) AssignmentDTO {
	method, value := methodParts(a.Method)
	dto := AssignmentDTO{
		ID:                   string(a.ID),
		EmployeeID:           string(a.EmployeeID),
		BenefitTypeID:        string(a.BenefitTypeID),
		Method:               method,
		MethodValue:          value,
		EffectiveFrom:        a.EffectiveFrom.String(),
		EmployeeContribution: a.EmployeeContribution.String(),
		Status:               string(a.Status),
	}
	if a.EffectiveTo != nil {
		s := a.EffectiveTo.String()
		dto.EffectiveTo = &s
	}
	return dto
}

func methodParts(m compliance.CalculationMethod) (string, string) {
	switch c := m.(type) {
	case compliance.Fixed:
		return "fixed", c.Amount.String()
	case compliance.PercentageOfSalary:
		return "percentage", c.Percent.String()
	case compliance.Formula:
		return "formula", c.Value.String()
	default:
		return "", ""
	}
}

func toCalculationDTO(r compliance.CalculationResult) CalculationDTO {
	return CalculationDTO{
		GrossAmount:          r.GrossAmount.String(),
		GrossDisplay:         FormatPLN(r.GrossAmount),
		EmployeeContribution: r.EmployeeContribution.String(),
		NetBenefit:           r.NetBenefit.String(),
		NetDisplay:           FormatPLN(r.NetBenefit),
		TaxableAmount:        r.TaxableAmount.String(),
		ZUSBase:              r.ZUSBase.String(),
		ZUSEmployee:          r.ZUSEmployee.String(),
		ZUSEmployer:          r.ZUSEmployer.String(),
		EffectiveDays:        r.EffectiveDays,
	}
}

func toAuditEventDTO(ev employment.AuditEvent) AuditEventDTO {
	return AuditEventDTO{
		ID:        ev.ID,
		At:        ev.At.Format(time.RFC3339),
		Actor:     ev.Actor,
		Action:    ev.Action,
		SubjectID: ev.SubjectID,
		Detail:    ev.Detail,
	}
}

func strPtr(s string) *string { return &s }
