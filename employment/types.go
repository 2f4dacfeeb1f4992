/*
Package employment implements the employee and contract service layer.

PURPOSE:
  Orchestrates the pure compliance engine against stored state: employee
  creation with duplicate-identity lookup, contract lifecycle commands,
  amendment recording, and audit emission. The engine computes;
  this package fetches snapshots, applies results, and persists.

KEY CONCEPTS:
  Employee:       The stored employee record with decoded identity fields
                  and the non-reversible identity-code hash used for
                  duplicate lookup (the engine itself never hashes).
  EmployeeStore / ContractStore:
                  Persistence seams implemented by store/sqlite (production)
                  and store/memory (tests).
  AuditSink:      Receives events such as employee.created and
                  contract.terminated after successful computations.

SEE ALSO:
  - compliance/: The pure calculation engine
  - store/sqlite/: Production persistence
  - payroll/: The benefit-side service layer
*/
package employment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kadry/compliance-engine/compliance"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "ACTIVE"
	EmployeeTerminated EmployeeStatus = "TERMINATED"
)

// Employee is the stored employee record.
type Employee struct {
	ID        compliance.EmployeeID
	FirstName string
	LastName  string
	Email     string

	// IdentityCode is the raw national identity code; IdentityHash is
	// its non-reversible hash used for duplicate lookup.
	IdentityCode string
	IdentityHash string

	BirthDate compliance.Date
	Sex       compliance.Sex

	Status    EmployeeStatus
	CreatedAt time.Time
}

// HashIdentityCode produces the non-reversible lookup hash of a
// normalized identity code. Persistence-layer concern: the compliance
// engine only validates and decodes.
func HashIdentityCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EmployeeStore persists employee records.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id compliance.EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// IdentityHashExists performs the duplicate-identity lookup.
	IdentityHashExists(ctx context.Context, hash string) (bool, error)

	// UpdateEmployeeStatus is used by the primary-contract termination cascade.
	UpdateEmployeeStatus(ctx context.Context, id compliance.EmployeeID, status EmployeeStatus) error
}

// ContractStore persists contracts and their append-only amendments.
type ContractStore interface {
	SaveContract(ctx context.Context, c compliance.Contract) error
	GetContract(ctx context.Context, id compliance.ContractID) (*compliance.Contract, error)
	ListContractsByEmployee(ctx context.Context, employeeID compliance.EmployeeID) ([]compliance.Contract, error)
	UpdateContractStatus(ctx context.Context, id compliance.ContractID, status compliance.ContractStatus) error

	// ListContractsExpiring returns ACTIVE contracts whose end date is on
	// or before the given date. Used by the expiry sweep.
	ListContractsExpiring(ctx context.Context, asOf compliance.Date) ([]compliance.Contract, error)

	// AppendAmendment persists an amendment. Amendments are append-only;
	// numbering is the caller's responsibility via NextAmendmentNumber.
	AppendAmendment(ctx context.Context, a compliance.Amendment) error
	ListAmendments(ctx context.Context, contractID compliance.ContractID) ([]compliance.Amendment, error)
	NextAmendmentNumber(ctx context.Context, contractID compliance.ContractID) (int, error)

	// ApplyAmendment atomically updates the contract's amendable fields.
	ApplyAmendment(ctx context.Context, c compliance.Contract) error
}

// =============================================================================
// AUDIT SINK
// =============================================================================

// AuditEvent records who did what, after the computation succeeded.
type AuditEvent struct {
	ID        string
	At        time.Time
	Actor     string
	Action    string
	SubjectID string
	Detail    string
}

// Audit actions emitted by this package.
const (
	AuditEmployeeCreated    = "employee.created"
	AuditEmployeeImported   = "employee.imported"
	AuditContractCreated    = "contract.created"
	AuditContractConfirmed  = "contract.confirmed"
	AuditContractSuspended  = "contract.suspended"
	AuditContractResumed    = "contract.resumed"
	AuditContractTerminated = "contract.terminated"
	AuditContractExpired    = "contract.expired"
	AuditContractAmended    = "contract.amended"
)

// AuditSink receives audit events. Implementations must not fail the
// business operation; errors are the sink's to log.
type AuditSink interface {
	Record(ctx context.Context, ev AuditEvent)
}

// NopAudit discards events; used in tests.
type NopAudit struct{}

func (NopAudit) Record(context.Context, AuditEvent) {}
