/*
contract.go - Contract model, lifecycle state machine, and amendments

PURPOSE:
  Defines the ContractTerm data model with its legal invariants, the
  status state machine, and append-only amendments expressed as a closed
  set of typed field changes.

LIFECYCLE:
  DRAFT -(confirm)-> ACTIVE -(suspend)-> SUSPENDED -(resume)-> ACTIVE
  ACTIVE -(terminate)-> TERMINATED
  ACTIVE -(expire)->    EXPIRED
  TERMINATED and EXPIRED are terminal.

AMENDMENTS:
  An amendment references its parent contract, carries a sequential
  number starting at 1, and records field-level changes as a tagged
  union (one variant per amendable field). Applying a change set to a
  contract snapshot and re-deriving the change set from before/after
  values reproduces the original change set exactly.

SEE ALSO:
  - termcalc.go: Notice period, minimum wage, overlap calculations
  - validate.go: Request-level invariant aggregation
*/
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT - The employment/civil contract term
// =============================================================================

// Contract is a single employment or civil-law contract term.
type Contract struct {
	ID         ContractID
	EmployeeID EmployeeID
	Type       ContractType
	Position   string

	StartDate  Date
	Indefinite bool
	EndDate    *Date // required unless Indefinite

	TrialPeriod  bool
	TrialEndDate *Date // required when TrialPeriod

	SalaryType  SalaryType
	GrossAmount decimal.Decimal
	WorkingTime decimal.Decimal // fraction of full time, in [1/8, 1]

	// Primary marks the contract whose termination cascades the
	// employee-status update.
	Primary bool
	Status  ContractStatus
}

// minWorkingTime is 1/8 of full time, the lowest legally recognized
// working-time fraction.
var minWorkingTime = decimal.New(125, -3)

// Validate checks the contract's structural invariants. Returns every
// violation found, never just the first.
func (c Contract) Validate() Result {
	var res Result
	if c.StartDate.IsZero() {
		res.Add(RuleFieldRequired, "start_date", "start date is required")
	}
	if !c.Indefinite && c.EndDate == nil {
		res.Add(RuleEndDateRequired, "end_date", "non-indefinite contracts must carry an end date")
	}
	if c.EndDate != nil && c.EndDate.Before(c.StartDate) {
		res.Add(RuleFieldInvalid, "end_date", "end date precedes start date")
	}
	if c.TrialPeriod && c.TrialEndDate == nil {
		res.Add(RuleTrialEndRequired, "trial_end_date", "trial contracts must carry a trial end date")
	}
	if c.WorkingTime.LessThan(minWorkingTime) || c.WorkingTime.GreaterThan(decimal.NewFromInt(1)) {
		res.Add(RuleWorkingTimeRange, "working_time",
			fmt.Sprintf("working-time fraction %s outside [1/8, 1]", c.WorkingTime))
	}
	if c.GrossAmount.IsNegative() {
		res.Add(RuleFieldInvalid, "gross_amount", "gross amount must not be negative")
	}
	return res
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// ContractEvent is a lifecycle command applied to a contract status.
type ContractEvent string

const (
	EventConfirm   ContractEvent = "confirm"
	EventSuspend   ContractEvent = "suspend"
	EventResume    ContractEvent = "resume"
	EventTerminate ContractEvent = "terminate"
	EventExpire    ContractEvent = "expire"
)

var contractTransitions = map[ContractStatus]map[ContractEvent]ContractStatus{
	ContractDraft: {
		EventConfirm: ContractActive,
	},
	ContractActive: {
		EventSuspend:   ContractSuspended,
		EventTerminate: ContractTerminated,
		EventExpire:    ContractExpired,
	},
	ContractSuspended: {
		EventResume: ContractActive,
	},
}

// Transition returns the status reached by applying an event, or
// ErrInvalidTransition when the event is not allowed in the current
// status. TERMINATED and EXPIRED accept no events.
func Transition(from ContractStatus, ev ContractEvent) (ContractStatus, error) {
	if to, ok := contractTransitions[from][ev]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, from)
}

// =============================================================================
// AMENDMENTS - Append-only typed field changes
// =============================================================================

// FieldChange is one amendable-field change. The set of implementations
// is closed: adding an amendable field means adding a variant here, so
// the compiler keeps Apply and Diff in sync.
type FieldChange interface {
	// FieldName identifies the amended contract field.
	FieldName() string

	// apply writes the After value onto the contract.
	apply(c *Contract)
}

// GrossAmountChange amends the gross salary amount.
type GrossAmountChange struct {
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
}

func (GrossAmountChange) FieldName() string    { return "gross_amount" }
func (ch GrossAmountChange) apply(c *Contract) { c.GrossAmount = ch.After }

// WorkingTimeChange amends the working-time fraction.
type WorkingTimeChange struct {
	Before decimal.Decimal `json:"before"`
	After  decimal.Decimal `json:"after"`
}

func (WorkingTimeChange) FieldName() string    { return "working_time" }
func (ch WorkingTimeChange) apply(c *Contract) { c.WorkingTime = ch.After }

// SalaryTypeChange amends the salary type.
type SalaryTypeChange struct {
	Before SalaryType `json:"before"`
	After  SalaryType `json:"after"`
}

func (SalaryTypeChange) FieldName() string    { return "salary_type" }
func (ch SalaryTypeChange) apply(c *Contract) { c.SalaryType = ch.After }

// PositionChange amends the position title.
type PositionChange struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

func (PositionChange) FieldName() string    { return "position" }
func (ch PositionChange) apply(c *Contract) { c.Position = ch.After }

// EndDateChange amends (or clears) the contract end date.
type EndDateChange struct {
	Before *Date `json:"before"`
	After  *Date `json:"after"`
}

func (EndDateChange) FieldName() string { return "end_date" }
func (ch EndDateChange) apply(c *Contract) {
	c.EndDate = ch.After
	c.Indefinite = ch.After == nil
}

// Amendment is an append-only record of field changes to a contract,
// numbered sequentially per contract starting at 1.
type Amendment struct {
	ContractID    ContractID
	Number        int
	EffectiveFrom Date
	Changes       []FieldChange
	CreatedBy     string
	Reason        string
}

// ApplyChanges returns a copy of the contract with every change applied.
// The input contract is never mutated.
func ApplyChanges(c Contract, changes []FieldChange) Contract {
	out := c
	for _, ch := range changes {
		ch.apply(&out)
	}
	return out
}

// DiffContracts derives the change set between two contract snapshots.
// Applying the result to `before` yields `after` for every amendable
// field; diffing again reproduces the same change set.
func DiffContracts(before, after Contract) []FieldChange {
	var changes []FieldChange
	if !before.GrossAmount.Equal(after.GrossAmount) {
		changes = append(changes, GrossAmountChange{Before: before.GrossAmount, After: after.GrossAmount})
	}
	if !before.WorkingTime.Equal(after.WorkingTime) {
		changes = append(changes, WorkingTimeChange{Before: before.WorkingTime, After: after.WorkingTime})
	}
	if before.SalaryType != after.SalaryType {
		changes = append(changes, SalaryTypeChange{Before: before.SalaryType, After: after.SalaryType})
	}
	if before.Position != after.Position {
		changes = append(changes, PositionChange{Before: before.Position, After: after.Position})
	}
	if !datePtrEqual(before.EndDate, after.EndDate) {
		changes = append(changes, EndDateChange{Before: before.EndDate, After: after.EndDate})
	}
	return changes
}

func datePtrEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
