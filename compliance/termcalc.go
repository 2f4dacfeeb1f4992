/*
termcalc.go - Statutory contract-term calculations

PURPOSE:
  Computes legally mandated contract terms:
  - Notice period length by tenure or trial duration
  - Minimum-wage compliance for employment contracts
  - Date-range overlap between contracts (concurrent-employment rule)

LEGAL CONSTANTS:
  Notice-period day counts are fixed by the labor code and encoded here.
  Minimum-wage figures change yearly and are ALWAYS injected via
  MinimumWage; this file never embeds a specific year's amounts.

PURITY:
  The reference date is an explicit parameter, never wall-clock time, so
  every function here is reproducible in tests.

SEE ALSO:
  - contract.go: Contract model and state machine
  - factory/: Yearly minimum-wage configuration loading
*/
package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// NOTICE PERIOD
// =============================================================================

// Notice-period day counts fixed by the labor code.
const (
	noticeTrialShort  = 3  // trial up to 2 weeks
	noticeTrialMedium = 7  // trial up to 3 months
	noticeTrialLong   = 14 // trial over 3 months

	noticeTenureShort  = 14 // employed under 6 months
	noticeTenureMedium = 30 // employed under 3 years
	noticeTenureLong   = 90 // employed 3 years or more
)

// NoticePeriodDays returns the statutory notice period in days for a
// contract as of the given reference date.
//
// Trial contracts are graded by trial length; regular employment by
// tenure, where months employed = floor(days since start / 30).
func NoticePeriodDays(c Contract, referenceDate Date) int {
	if c.TrialPeriod && c.TrialEndDate != nil {
		trialDays := DaysBetween(c.StartDate, *c.TrialEndDate)
		switch {
		case trialDays <= 14:
			return noticeTrialShort
		case trialDays <= 90:
			return noticeTrialMedium
		default:
			return noticeTrialLong
		}
	}

	monthsEmployed := DaysBetween(c.StartDate, referenceDate) / 30
	switch {
	case monthsEmployed < 6:
		return noticeTenureShort
	case monthsEmployed < 36:
		return noticeTenureMedium
	default:
		return noticeTenureLong
	}
}

// =============================================================================
// MINIMUM WAGE
// =============================================================================

// MinimumWage carries one year's statutory wage floors. Versioned
// externally by effective year and injected per call.
type MinimumWage struct {
	Monthly decimal.Decimal
	Hourly  decimal.Decimal
}

// MeetsMinimumWage reports whether the contract's gross amount satisfies
// the statutory floor. Only employment contracts are subject to the
// check; the monthly floor scales with the working-time fraction.
func MeetsMinimumWage(c Contract, wage MinimumWage) bool {
	if c.Type != ContractEmployment {
		return true
	}
	switch c.SalaryType {
	case SalaryMonthly:
		floor := wage.Monthly.Mul(c.WorkingTime)
		return c.GrossAmount.GreaterThanOrEqual(floor)
	case SalaryHourly:
		return c.GrossAmount.GreaterThanOrEqual(wage.Hourly)
	default:
		return true
	}
}

// =============================================================================
// OVERLAP DETECTION
// =============================================================================

// FindOverlapping returns the ACTIVE contracts whose date range
// intersects the candidate interval. A nil end means the range is
// unbounded on the right, for both existing contracts and the candidate.
func FindOverlapping(existing []Contract, candidateStart Date, candidateEnd *Date) []Contract {
	var overlapping []Contract
	for _, c := range existing {
		if c.Status != ContractActive {
			continue
		}
		if rangesIntersect(c.StartDate, c.EndDate, candidateStart, candidateEnd) {
			overlapping = append(overlapping, c)
		}
	}
	return overlapping
}

// CheckConcurrentEmployment applies the exclusivity rule: an employee
// may hold only one concurrent EMPLOYMENT contract, while MANDATE,
// SPECIFIC_TASK, and B2B engagements may coexist freely. Returns the
// conflicting contracts, empty when the candidate is allowed.
func CheckConcurrentEmployment(existing []Contract, candidate Contract) []Contract {
	if candidate.Type != ContractEmployment {
		return nil
	}
	var employment []Contract
	for _, c := range existing {
		if c.Type == ContractEmployment {
			employment = append(employment, c)
		}
	}
	return FindOverlapping(employment, candidate.StartDate, candidate.EndDate)
}

func rangesIntersect(aStart Date, aEnd *Date, bStart Date, bEnd *Date) bool {
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	return true
}
