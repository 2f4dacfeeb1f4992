/*
seed.go - Demo data loader

PURPOSE:
  Populates the store with a small, realistic data set for local
  development and demos: a few employees with valid identity codes,
  contracts in different lifecycle states, the standard benefit
  catalog, and a funded ZFŚS year.

USAGE:
  POST /api/seed

  Safe to call once on an empty database. Calling it again fails on
  duplicate identity codes by design - reset the database file instead.

SEE ALSO:
  - handlers.go: The commands exercised here
  - server.go: Route registration
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
)

// SeedDemo loads the demo data set.
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.seed(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Seed failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

func (h *Handler) seed(ctx context.Context) error {
	const seedActor = "seed"

	// Benefit catalog
	maxSport := compliance.ParseMoney("200")
	types := []compliance.BenefitType{
		{
			ID:            "medical-premium",
			Name:          "Private medical care",
			Category:      compliance.CategoryMedical,
			Taxable:       true,
			ZUSApplicable: true,
			ZUSType:       compliance.ZUSFull,
		},
		{
			ID:            "sport-card",
			Name:          "Sports card",
			Category:      compliance.CategorySport,
			Taxable:       true,
			ZUSApplicable: true,
			ZUSType:       compliance.ZUSPartial,
			MaxAmount:     &maxSport,
		},
		{
			ID:       "life-insurance",
			Name:     "Group life insurance",
			Category: compliance.CategoryInsurance,
			ZUSType:  compliance.ZUSExempt,
		},
	}
	for _, bt := range types {
		if err := h.Store.SaveBenefitType(ctx, bt); err != nil {
			return fmt.Errorf("benefit type %s: %w", bt.ID, err)
		}
	}

	// Employees with valid identity codes
	anna, err := h.Employment.CreateEmployee(ctx, compliance.EmployeeInput{
		FirstName: "Anna", LastName: "Kowalska",
		IdentityCode: "85010112345", Email: "anna.kowalska@example.com",
	}, seedActor)
	if err != nil {
		return fmt.Errorf("employee Kowalska: %w", err)
	}
	jan, err := h.Employment.CreateEmployee(ctx, compliance.EmployeeInput{
		FirstName: "Jan", LastName: "Nowak",
		IdentityCode: "44051401359", Email: "jan.nowak@example.com",
	}, seedActor)
	if err != nil {
		return fmt.Errorf("employee Nowak: %w", err)
	}

	// Anna: indefinite full-time employment, confirmed
	annaContract, err := h.Employment.CreateContract(ctx, employment.ContractInput{
		EmployeeID: anna.ID,
		Type:       compliance.ContractEmployment,
		Position:   "Senior Accountant",
		StartDate:  compliance.NewDate(2023, time.March, 1),
		Indefinite: true,
		SalaryType: compliance.SalaryMonthly,
		GrossAmount: "9500",
		WorkingTime: "1",
		Primary:     true,
	}, seedActor)
	if err != nil {
		return fmt.Errorf("contract Kowalska: %w", err)
	}
	if err := h.Employment.ConfirmContract(ctx, annaContract.ID, seedActor); err != nil {
		return err
	}

	// Jan: fixed-term half-time employment, still DRAFT
	end := compliance.NewDate(2026, time.June, 30)
	if _, err := h.Employment.CreateContract(ctx, employment.ContractInput{
		EmployeeID: jan.ID,
		Type:       compliance.ContractEmployment,
		Position:   "Payroll Specialist",
		StartDate:  compliance.NewDate(2025, time.July, 1),
		EndDate:    &end,
		SalaryType: compliance.SalaryMonthly,
		GrossAmount: "3200",
		WorkingTime: "0.5",
		Primary:     true,
	}, seedActor); err != nil {
		return fmt.Errorf("contract Nowak: %w", err)
	}

	// Anna gets the medical package with a small contribution
	if _, err := h.Payroll.AssignBenefit(ctx, compliance.BenefitAssignment{
		EmployeeID:           anna.ID,
		BenefitTypeID:        "medical-premium",
		Method:               compliance.Fixed{Amount: compliance.ParseMoney("450")},
		EffectiveFrom:        compliance.NewDate(2023, time.April, 1),
		EmployeeContribution: compliance.ParseMoney("50"),
	}, seedActor); err != nil {
		return fmt.Errorf("assignment Kowalska: %w", err)
	}

	// Fund the current ZFŚS year
	year := time.Now().UTC().Year()
	if err := h.Store.CreditFund(ctx, year, compliance.ParseMoney("250000")); err != nil {
		return fmt.Errorf("fund %d: %w", year, err)
	}

	return nil
}
