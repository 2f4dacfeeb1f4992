/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence seam the service layers consume -
  employees, contracts, amendments, benefit types, assignments with
  history, the social-fund balance, and the audit trail. In production
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

INTERFACES IMPLEMENTED:
  employment.EmployeeStore   Employee records + duplicate-identity lookup
  employment.ContractStore   Contracts and append-only amendments
  employment.AuditSink       Audit trail persistence
  payroll.BenefitTypeStore   Benefit-type registry
  payroll.AssignmentStore    Assignments + mutation history
  payroll.FundStore          Social fund balance per year

APPEND-ONLY ENFORCEMENT:
  Amendments, assignment history, and audit events are append-only:
  no UPDATE or DELETE statements touch those tables.

DUPLICATE-IDENTITY LOOKUP:
  Employees carry a non-reversible hash of the identity code with a
  UNIQUE index; the duplicate check queries the hash, never the raw
  code.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/kadry.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - employment/types.go, payroll/types.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent; writes
	// are serialized by the store mutex anyway.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id            TEXT PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		identity_code TEXT NOT NULL,
		identity_hash TEXT NOT NULL,
		birth_date    TEXT NOT NULL,
		sex           TEXT NOT NULL,
		status        TEXT NOT NULL,
		created_at    TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_identity_hash ON employees(identity_hash);

	CREATE TABLE IF NOT EXISTS contracts (
		id             TEXT PRIMARY KEY,
		employee_id    TEXT NOT NULL REFERENCES employees(id),
		type           TEXT NOT NULL,
		position       TEXT NOT NULL DEFAULT '',
		start_date     TEXT NOT NULL,
		indefinite     INTEGER NOT NULL,
		end_date       TEXT,
		trial_period   INTEGER NOT NULL,
		trial_end_date TEXT,
		salary_type    TEXT NOT NULL,
		gross_amount   TEXT NOT NULL,
		working_time   TEXT NOT NULL,
		is_primary     INTEGER NOT NULL,
		status         TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contracts_employee ON contracts(employee_id);
	CREATE INDEX IF NOT EXISTS idx_contracts_status_end ON contracts(status, end_date);

	CREATE TABLE IF NOT EXISTS amendments (
		contract_id    TEXT NOT NULL REFERENCES contracts(id),
		number         INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		changes        TEXT NOT NULL,
		created_by     TEXT NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (contract_id, number)
	);

	CREATE TABLE IF NOT EXISTS benefit_types (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL,
		taxable        INTEGER NOT NULL,
		zus_applicable INTEGER NOT NULL,
		zus_type       TEXT NOT NULL,
		max_amount     TEXT,
		max_percent    TEXT
	);

	CREATE TABLE IF NOT EXISTS benefit_assignments (
		id                    TEXT PRIMARY KEY,
		employee_id           TEXT NOT NULL REFERENCES employees(id),
		benefit_type_id       TEXT NOT NULL REFERENCES benefit_types(id),
		method_kind           TEXT NOT NULL,
		method_value          TEXT NOT NULL,
		effective_from        TEXT NOT NULL,
		effective_to          TEXT,
		employee_contribution TEXT NOT NULL,
		status                TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee ON benefit_assignments(employee_id);

	CREATE TABLE IF NOT EXISTS assignment_history (
		assignment_id TEXT NOT NULL REFERENCES benefit_assignments(id),
		field         TEXT NOT NULL,
		previous      TEXT NOT NULL,
		new_value     TEXT NOT NULL,
		actor         TEXT NOT NULL,
		reason        TEXT NOT NULL DEFAULT '',
		changed_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_assignment ON assignment_history(assignment_id);

	CREATE TABLE IF NOT EXISTS fund_balances (
		year    INTEGER PRIMARY KEY,
		balance TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_events (
		id         TEXT PRIMARY KEY,
		at         TEXT NOT NULL,
		actor      TEXT NOT NULL,
		action     TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		detail     TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_events(subject_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e employment.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, email, identity_code, identity_hash, birth_date, sex, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.ID), e.FirstName, e.LastName, e.Email, e.IdentityCode, e.IdentityHash,
		e.BirthDate.String(), string(e.Sex), string(e.Status), e.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id compliance.EmployeeID) (*employment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, identity_code, identity_hash, birth_date, sex, status, created_at
		FROM employees WHERE id = ?`, string(id))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]employment.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, identity_code, identity_hash, birth_date, sex, status, created_at
		FROM employees ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employment.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) IdentityHashExists(ctx context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM employees WHERE identity_hash = ?`, hash).Scan(&n)
	return n > 0, err
}

func (s *Store) UpdateEmployeeStatus(ctx context.Context, id compliance.EmployeeID, status employment.EmployeeStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `UPDATE employees SET status = ? WHERE id = ?`, string(status), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return compliance.ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(r rowScanner) (*employment.Employee, error) {
	var e employment.Employee
	var id, birthDate, sex, status, createdAt string
	if err := r.Scan(&id, &e.FirstName, &e.LastName, &e.Email, &e.IdentityCode, &e.IdentityHash,
		&birthDate, &sex, &status, &createdAt); err != nil {
		return nil, err
	}
	e.ID = compliance.EmployeeID(id)
	e.Sex = compliance.Sex(sex)
	e.Status = employment.EmployeeStatus(status)
	var err error
	if e.BirthDate, err = compliance.ParseDate(birthDate); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// =============================================================================
// CONTRACT STORE
// =============================================================================

func (s *Store) SaveContract(ctx context.Context, c compliance.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, employee_id, type, position, start_date, indefinite, end_date,
			trial_period, trial_end_date, salary_type, gross_amount, working_time, is_primary, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(c.ID), string(c.EmployeeID), string(c.Type), c.Position,
		c.StartDate.String(), boolInt(c.Indefinite), dateOrNil(c.EndDate),
		boolInt(c.TrialPeriod), dateOrNil(c.TrialEndDate),
		string(c.SalaryType), c.GrossAmount.String(), c.WorkingTime.String(),
		boolInt(c.Primary), string(c.Status))
	return err
}

func (s *Store) GetContract(ctx context.Context, id compliance.ContractID) (*compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, selectContract+` WHERE id = ?`, string(id))
	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *Store) ListContractsByEmployee(ctx context.Context, employeeID compliance.EmployeeID) ([]compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryContracts(ctx, selectContract+` WHERE employee_id = ? ORDER BY start_date`, string(employeeID))
}

func (s *Store) ListContractsExpiring(ctx context.Context, asOf compliance.Date) ([]compliance.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryContracts(ctx,
		selectContract+` WHERE status = ? AND end_date IS NOT NULL AND end_date <= ? ORDER BY end_date`,
		string(compliance.ContractActive), asOf.String())
}

func (s *Store) UpdateContractStatus(ctx context.Context, id compliance.ContractID, status compliance.ContractStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `UPDATE contracts SET status = ? WHERE id = ?`, string(status), string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return compliance.ErrContractNotFound
	}
	return nil
}

// ApplyAmendment updates the amendable columns only; status and identity
// columns are never touched here.
func (s *Store) ApplyAmendment(ctx context.Context, c compliance.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts SET position = ?, salary_type = ?, gross_amount = ?, working_time = ?,
			end_date = ?, indefinite = ?
		WHERE id = ?`,
		c.Position, string(c.SalaryType), c.GrossAmount.String(), c.WorkingTime.String(),
		dateOrNil(c.EndDate), boolInt(c.Indefinite), string(c.ID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return compliance.ErrContractNotFound
	}
	return nil
}

const selectContract = `
	SELECT id, employee_id, type, position, start_date, indefinite, end_date,
		trial_period, trial_end_date, salary_type, gross_amount, working_time, is_primary, status
	FROM contracts`

func (s *Store) queryContracts(ctx context.Context, query string, args ...any) ([]compliance.Contract, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanContract(r rowScanner) (*compliance.Contract, error) {
	var c compliance.Contract
	var id, employeeID, ctype, startDate, salaryType, gross, working, status string
	var indefinite, trial, primary int
	var endDate, trialEnd sql.NullString
	if err := r.Scan(&id, &employeeID, &ctype, &c.Position, &startDate, &indefinite, &endDate,
		&trial, &trialEnd, &salaryType, &gross, &working, &primary, &status); err != nil {
		return nil, err
	}

	c.ID = compliance.ContractID(id)
	c.EmployeeID = compliance.EmployeeID(employeeID)
	c.Type = compliance.ContractType(ctype)
	c.SalaryType = compliance.SalaryType(salaryType)
	c.Status = compliance.ContractStatus(status)
	c.Indefinite = indefinite != 0
	c.TrialPeriod = trial != 0
	c.Primary = primary != 0
	c.GrossAmount = compliance.ParseMoney(gross)
	c.WorkingTime = compliance.ParseMoney(working)

	var err error
	if c.StartDate, err = compliance.ParseDate(startDate); err != nil {
		return nil, err
	}
	if c.EndDate, err = nilOrDate(endDate); err != nil {
		return nil, err
	}
	if c.TrialEndDate, err = nilOrDate(trialEnd); err != nil {
		return nil, err
	}
	return &c, nil
}

// =============================================================================
// AMENDMENTS - Append-only
// =============================================================================

// changeJSON is the storage form of one field change.
type changeJSON struct {
	Field  string  `json:"field"`
	Before *string `json:"before"`
	After  *string `json:"after"`
}

func (s *Store) AppendAmendment(ctx context.Context, a compliance.Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := encodeChanges(a.Changes)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO amendments (contract_id, number, effective_from, changes, created_by, reason)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(a.ContractID), a.Number, a.EffectiveFrom.String(), encoded, a.CreatedBy, a.Reason)
	return err
}

func (s *Store) ListAmendments(ctx context.Context, contractID compliance.ContractID) ([]compliance.Amendment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT contract_id, number, effective_from, changes, created_by, reason
		FROM amendments WHERE contract_id = ? ORDER BY number`, string(contractID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.Amendment
	for rows.Next() {
		var a compliance.Amendment
		var cid, from, changes string
		if err := rows.Scan(&cid, &a.Number, &from, &changes, &a.CreatedBy, &a.Reason); err != nil {
			return nil, err
		}
		a.ContractID = compliance.ContractID(cid)
		if a.EffectiveFrom, err = compliance.ParseDate(from); err != nil {
			return nil, err
		}
		if a.Changes, err = decodeChanges(changes); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) NextAmendmentNumber(ctx context.Context, contractID compliance.ContractID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(number) FROM amendments WHERE contract_id = ?`, string(contractID)).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

func encodeChanges(changes []compliance.FieldChange) (string, error) {
	out := make([]changeJSON, 0, len(changes))
	for _, ch := range changes {
		cj := changeJSON{Field: ch.FieldName()}
		switch c := ch.(type) {
		case compliance.GrossAmountChange:
			cj.Before, cj.After = strPtr(c.Before.String()), strPtr(c.After.String())
		case compliance.WorkingTimeChange:
			cj.Before, cj.After = strPtr(c.Before.String()), strPtr(c.After.String())
		case compliance.SalaryTypeChange:
			cj.Before, cj.After = strPtr(string(c.Before)), strPtr(string(c.After))
		case compliance.PositionChange:
			cj.Before, cj.After = strPtr(c.Before), strPtr(c.After)
		case compliance.EndDateChange:
			cj.Before, cj.After = datePtrStr(c.Before), datePtrStr(c.After)
		default:
			return "", fmt.Errorf("unknown field change %T", ch)
		}
		out = append(out, cj)
	}
	data, err := json.Marshal(out)
	return string(data), err
}

func decodeChanges(encoded string) ([]compliance.FieldChange, error) {
	var cjs []changeJSON
	if err := json.Unmarshal([]byte(encoded), &cjs); err != nil {
		return nil, err
	}
	out := make([]compliance.FieldChange, 0, len(cjs))
	for _, cj := range cjs {
		switch cj.Field {
		case "gross_amount":
			out = append(out, compliance.GrossAmountChange{
				Before: compliance.ParseMoney(deref(cj.Before)),
				After:  compliance.ParseMoney(deref(cj.After)),
			})
		case "working_time":
			out = append(out, compliance.WorkingTimeChange{
				Before: compliance.ParseMoney(deref(cj.Before)),
				After:  compliance.ParseMoney(deref(cj.After)),
			})
		case "salary_type":
			out = append(out, compliance.SalaryTypeChange{
				Before: compliance.SalaryType(deref(cj.Before)),
				After:  compliance.SalaryType(deref(cj.After)),
			})
		case "position":
			out = append(out, compliance.PositionChange{Before: deref(cj.Before), After: deref(cj.After)})
		case "end_date":
			before, err := strPtrDate(cj.Before)
			if err != nil {
				return nil, err
			}
			after, err := strPtrDate(cj.After)
			if err != nil {
				return nil, err
			}
			out = append(out, compliance.EndDateChange{Before: before, After: after})
		default:
			return nil, fmt.Errorf("unknown field change %q", cj.Field)
		}
	}
	return out, nil
}

// =============================================================================
// BENEFIT TYPE STORE
// =============================================================================

func (s *Store) SaveBenefitType(ctx context.Context, bt compliance.BenefitType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO benefit_types (id, name, category, taxable, zus_applicable, zus_type, max_amount, max_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category,
			taxable = excluded.taxable, zus_applicable = excluded.zus_applicable,
			zus_type = excluded.zus_type, max_amount = excluded.max_amount, max_percent = excluded.max_percent`,
		string(bt.ID), bt.Name, string(bt.Category), boolInt(bt.Taxable), boolInt(bt.ZUSApplicable),
		string(bt.ZUSType), decimalOrNil(bt.MaxAmount), decimalOrNil(bt.MaxPercent))
	return err
}

func (s *Store) GetBenefitType(ctx context.Context, id compliance.BenefitTypeID) (*compliance.BenefitType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, taxable, zus_applicable, zus_type, max_amount, max_percent
		FROM benefit_types WHERE id = ?`, string(id))
	bt, err := scanBenefitType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return bt, err
}

func (s *Store) ListBenefitTypes(ctx context.Context) ([]compliance.BenefitType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, taxable, zus_applicable, zus_type, max_amount, max_percent
		FROM benefit_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.BenefitType
	for rows.Next() {
		bt, err := scanBenefitType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *bt)
	}
	return out, rows.Err()
}

func scanBenefitType(r rowScanner) (*compliance.BenefitType, error) {
	var bt compliance.BenefitType
	var id, category, zusType string
	var taxable, zusApplicable int
	var maxAmount, maxPercent sql.NullString
	if err := r.Scan(&id, &bt.Name, &category, &taxable, &zusApplicable, &zusType, &maxAmount, &maxPercent); err != nil {
		return nil, err
	}
	bt.ID = compliance.BenefitTypeID(id)
	bt.Category = compliance.BenefitCategory(category)
	bt.Taxable = taxable != 0
	bt.ZUSApplicable = zusApplicable != 0
	bt.ZUSType = compliance.ZUSType(zusType)
	bt.MaxAmount = nilOrDecimal(maxAmount)
	bt.MaxPercent = nilOrDecimal(maxPercent)
	return &bt, nil
}

// =============================================================================
// ASSIGNMENT STORE
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a compliance.BenefitAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, value := encodeMethod(a.Method)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO benefit_assignments (id, employee_id, benefit_type_id, method_kind, method_value,
			effective_from, effective_to, employee_contribution, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(a.ID), string(a.EmployeeID), string(a.BenefitTypeID), kind, value,
		a.EffectiveFrom.String(), dateOrNil(a.EffectiveTo), a.EmployeeContribution.String(), string(a.Status))
	return err
}

func (s *Store) UpdateAssignment(ctx context.Context, a compliance.BenefitAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, value := encodeMethod(a.Method)
	res, err := s.db.ExecContext(ctx, `
		UPDATE benefit_assignments SET method_kind = ?, method_value = ?, effective_from = ?,
			effective_to = ?, employee_contribution = ?, status = ?
		WHERE id = ?`,
		kind, value, a.EffectiveFrom.String(), dateOrNil(a.EffectiveTo),
		a.EmployeeContribution.String(), string(a.Status), string(a.ID))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return compliance.ErrAssignmentNotFound
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, id compliance.AssignmentID) (*compliance.BenefitAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, selectAssignment+` WHERE id = ?`, string(id))
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (s *Store) ListAssignmentsByEmployee(ctx context.Context, employeeID compliance.EmployeeID) ([]compliance.BenefitAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, selectAssignment+` WHERE employee_id = ? ORDER BY effective_from`, string(employeeID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.BenefitAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

const selectAssignment = `
	SELECT id, employee_id, benefit_type_id, method_kind, method_value,
		effective_from, effective_to, employee_contribution, status
	FROM benefit_assignments`

func scanAssignment(r rowScanner) (*compliance.BenefitAssignment, error) {
	var a compliance.BenefitAssignment
	var id, employeeID, typeID, kind, value, from, contribution, status string
	var to sql.NullString
	if err := r.Scan(&id, &employeeID, &typeID, &kind, &value, &from, &to, &contribution, &status); err != nil {
		return nil, err
	}
	a.ID = compliance.AssignmentID(id)
	a.EmployeeID = compliance.EmployeeID(employeeID)
	a.BenefitTypeID = compliance.BenefitTypeID(typeID)
	a.EmployeeContribution = compliance.ParseMoney(contribution)
	a.Status = compliance.BenefitStatus(status)

	var err error
	if a.Method, err = decodeMethod(kind, value); err != nil {
		return nil, err
	}
	if a.EffectiveFrom, err = compliance.ParseDate(from); err != nil {
		return nil, err
	}
	if a.EffectiveTo, err = nilOrDate(to); err != nil {
		return nil, err
	}
	return &a, nil
}

func encodeMethod(m compliance.CalculationMethod) (kind, value string) {
	switch c := m.(type) {
	case compliance.Fixed:
		return "fixed", c.Amount.String()
	case compliance.PercentageOfSalary:
		return "percentage", c.Percent.String()
	case compliance.Formula:
		return "formula", c.Value.String()
	default:
		panic(fmt.Sprintf("sqlite: unknown calculation method %T", m))
	}
}

func decodeMethod(kind, value string) (compliance.CalculationMethod, error) {
	d := compliance.ParseMoney(value)
	switch kind {
	case "fixed":
		return compliance.Fixed{Amount: d}, nil
	case "percentage":
		return compliance.PercentageOfSalary{Percent: d}, nil
	case "formula":
		return compliance.Formula{Value: d}, nil
	default:
		return nil, fmt.Errorf("unknown calculation method kind %q", kind)
	}
}

// =============================================================================
// ASSIGNMENT HISTORY - Append-only
// =============================================================================

func (s *Store) AppendAssignmentChange(ctx context.Context, ch compliance.AssignmentChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignment_history (assignment_id, field, previous, new_value, actor, reason, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(ch.AssignmentID), ch.Field, ch.Previous, ch.New, ch.Actor, ch.Reason, ch.ChangedAt.String())
	return err
}

func (s *Store) ListAssignmentChanges(ctx context.Context, id compliance.AssignmentID) ([]compliance.AssignmentChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT assignment_id, field, previous, new_value, actor, reason, changed_at
		FROM assignment_history WHERE assignment_id = ? ORDER BY rowid`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []compliance.AssignmentChange
	for rows.Next() {
		var ch compliance.AssignmentChange
		var aid, changedAt string
		if err := rows.Scan(&aid, &ch.Field, &ch.Previous, &ch.New, &ch.Actor, &ch.Reason, &changedAt); err != nil {
			return nil, err
		}
		ch.AssignmentID = compliance.AssignmentID(aid)
		if ch.ChangedAt, err = compliance.ParseDate(changedAt); err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// =============================================================================
// FUND STORE
// =============================================================================

func (s *Store) FundBalance(ctx context.Context, year int) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var balance string
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM fund_balances WHERE year = ?`, year).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return compliance.ParseMoney(balance), nil
}

func (s *Store) DebitFund(ctx context.Context, year int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM fund_balances WHERE year = ?`, year).Scan(&raw)
	if err == sql.ErrNoRows {
		return compliance.ErrFundInsufficient
	}
	if err != nil {
		return err
	}
	balance := compliance.ParseMoney(raw)
	if balance.LessThan(amount) {
		return compliance.ErrFundInsufficient
	}
	_, err = s.db.ExecContext(ctx, `UPDATE fund_balances SET balance = ? WHERE year = ?`,
		balance.Sub(amount).String(), year)
	return err
}

func (s *Store) CreditFund(ctx context.Context, year int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM fund_balances WHERE year = ?`, year).Scan(&raw)
	if err == sql.ErrNoRows {
		_, err = s.db.ExecContext(ctx, `INSERT INTO fund_balances (year, balance) VALUES (?, ?)`,
			year, amount.String())
		return err
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE fund_balances SET balance = ? WHERE year = ?`,
		compliance.ParseMoney(raw).Add(amount).String(), year)
	return err
}

// =============================================================================
// AUDIT SINK - Append-only; failures are logged, never propagated
// =============================================================================

func (s *Store) Record(ctx context.Context, ev employment.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, at, actor, action, subject_id, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.At.Format(time.RFC3339), ev.Actor, ev.Action, ev.SubjectID, ev.Detail)
	if err != nil {
		log.Printf("audit: failed to record %s for %s: %v", ev.Action, ev.SubjectID, err)
	}
}

// ListAuditEvents returns the audit trail for a subject, newest first.
func (s *Store) ListAuditEvents(ctx context.Context, subjectID string) ([]employment.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, at, actor, action, subject_id, detail
		FROM audit_events WHERE subject_id = ? ORDER BY at DESC`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employment.AuditEvent
	for rows.Next() {
		var ev employment.AuditEvent
		var at string
		if err := rows.Scan(&ev.ID, &at, &ev.Actor, &ev.Action, &ev.SubjectID, &ev.Detail); err != nil {
			return nil, err
		}
		if ev.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dateOrNil(d *compliance.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nilOrDate(ns sql.NullString) (*compliance.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := compliance.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nilOrDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d := compliance.ParseMoney(ns.String)
	return &d
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func datePtrStr(d *compliance.Date) *string {
	if d == nil {
		return nil
	}
	return strPtr(d.String())
}

func strPtrDate(s *string) (*compliance.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := compliance.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
