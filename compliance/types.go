/*
Package compliance provides the core labor-law calculation engine.

PURPOSE:
  This package contains the deterministic, side-effect-free computations
  behind Polish-labor-law HR administration: national identity code
  validation, statutory contract-term derivation (notice periods, minimum
  wage, overlap detection), benefit amount calculation with proration and
  contribution treatment, and social-fund tier resolution.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money helpers: decimal-backed monetary values (never float arithmetic)
  - Typed identifiers for employees, contracts, and benefit assignments
  - Closed enumerations: contract types, salary types, statuses, sex

DESIGN PRINCIPLES:
  1. Purity: no I/O, no clocks, no internal state; every function is
     re-entrant and safe to call concurrently
  2. Precision: uses decimal.Decimal to avoid floating-point errors
  3. Type safety: strong typing for IDs and closed enums for legal categories
  4. Injected legal constants: minimum wage and contribution rates change
     yearly and are always passed in, never compiled in

USAGE:
  ok := compliance.ValidateChecksum("85010112345")
  days := compliance.NoticePeriodDays(contract, refDate)
  result, err := compliance.Calculate(assignment, benefitType, salary, period, rates)

SEE ALSO:
  - pesel.go: Identity code decoding
  - termcalc.go: Notice period, minimum wage, overlap
  - benefitcalc.go: Benefit amount calculation
  - zfss.go: Social-fund tier resolution
*/
package compliance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY HELPERS - All monetary values are decimal.Decimal (PLN)
// =============================================================================

// NewMoney builds a monetary value from a float literal. Test and
// configuration convenience; stored values should come from ParseMoney.
func NewMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// ParseMoney parses a decimal string ("4242.00"). Returns zero on failure.
func ParseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds to grosze (2 decimal places, half away from zero).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ContractID string
type BenefitTypeID string
type AssignmentID string

// =============================================================================
// SEX - Derived from the identity code parity digit
// =============================================================================

type Sex string

const (
	Male   Sex = "MALE"
	Female Sex = "FEMALE"
)

// =============================================================================
// CONTRACT ENUMERATIONS
// =============================================================================

// ContractType distinguishes employment contracts (full labor-code
// protection) from civil-law engagements.
type ContractType string

const (
	ContractEmployment   ContractType = "EMPLOYMENT"    // umowa o pracę
	ContractMandate      ContractType = "MANDATE"       // umowa zlecenie
	ContractSpecificTask ContractType = "SPECIFIC_TASK" // umowa o dzieło
	ContractB2B          ContractType = "B2B"
)

type SalaryType string

const (
	SalaryMonthly SalaryType = "MONTHLY"
	SalaryHourly  SalaryType = "HOURLY"
	SalaryTask    SalaryType = "TASK"
)

type ContractStatus string

const (
	ContractDraft      ContractStatus = "DRAFT"
	ContractActive     ContractStatus = "ACTIVE"
	ContractSuspended  ContractStatus = "SUSPENDED"
	ContractTerminated ContractStatus = "TERMINATED"
	ContractExpired    ContractStatus = "EXPIRED"
)

// =============================================================================
// BENEFIT ENUMERATIONS
// =============================================================================

type BenefitStatus string

const (
	BenefitActive     BenefitStatus = "ACTIVE"
	BenefitSuspended  BenefitStatus = "SUSPENDED"
	BenefitTerminated BenefitStatus = "TERMINATED"
)

// ZUSType selects the statutory social-insurance contribution scheme
// applied to a benefit's contribution base.
type ZUSType string

const (
	ZUSFull    ZUSType = "FULL"
	ZUSPartial ZUSType = "PARTIAL"
	ZUSExempt  ZUSType = "EXEMPT"
)
