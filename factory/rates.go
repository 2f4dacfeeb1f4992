/*
Package factory provides JSON to Go configuration conversion.

PURPOSE:
  Converts JSON legal-constant definitions into compliance config
  structs. Minimum wage, contribution rates, ZFŚS thresholds, and the
  fund budget all change yearly by law; keeping them in JSON means a
  new year's figures ship as configuration, not a code change.

JSON SCHEMA:
  {
    "minimum_wage": [
      {"year": 2024, "monthly": "4242.00", "hourly": "27.70"},
      {"year": 2025, "monthly": "4666.00", "hourly": "30.50"}
    ],
    "contribution_rates": {
      "full_employee": "0.1371",
      "full_employer": "0.2038",
      "partial_employee": "0.09"
    },
    "zfss": {
      "thresholds": [
        {"max_income": "3000", "percentage": "100"},
        {"max_income": "5000", "percentage": "80"},
        {"max_income": "8000", "percentage": "60"}
      ],
      "annual_budget": "250000"
    }
  }

KEY FEATURES:
  - Validates JSON structure
  - Applies the statutory default contribution rates when omitted
  - Rejects empty or unsorted threshold tables at load time, before the
    engine would panic on them

USAGE:
  cfg, err := factory.ParseConfig(data)
  wage, ok := cfg.MinimumWageFor(2025)

SEE ALSO:
  - compliance/termcalc.go: MinimumWage consumer
  - compliance/benefitcalc.go: ContributionRates consumer
  - compliance/zfss.go: Threshold consumer
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of the legal-constant set.
type ConfigJSON struct {
	MinimumWage       []MinimumWageJSON      `json:"minimum_wage"`
	ContributionRates *ContributionRatesJSON `json:"contribution_rates,omitempty"`
	Zfss              *ZfssJSON              `json:"zfss,omitempty"`
}

type MinimumWageJSON struct {
	Year    int    `json:"year"`
	Monthly string `json:"monthly"`
	Hourly  string `json:"hourly"`
}

type ContributionRatesJSON struct {
	FullEmployee    string `json:"full_employee"`
	FullEmployer    string `json:"full_employer"`
	PartialEmployee string `json:"partial_employee"`
}

type ZfssJSON struct {
	Thresholds   []ThresholdJSON `json:"thresholds"`
	AnnualBudget string          `json:"annual_budget,omitempty"`
}

type ThresholdJSON struct {
	MaxIncome  string `json:"max_income"`
	Percentage string `json:"percentage"`
}

// =============================================================================
// PARSED CONFIG
// =============================================================================

// Config is the parsed legal-constant set consumed by the services.
type Config struct {
	minimumWage map[int]compliance.MinimumWage

	Rates        compliance.ContributionRates
	Thresholds   []compliance.Threshold
	AnnualBudget decimal.Decimal
}

// MinimumWageFor returns the wage floors effective in the given year.
func (c *Config) MinimumWageFor(year int) (compliance.MinimumWage, bool) {
	w, ok := c.minimumWage[year]
	return w, ok
}

// Years lists the configured minimum-wage years.
func (c *Config) Years() []int {
	out := make([]int, 0, len(c.minimumWage))
	for y := range c.minimumWage {
		out = append(out, y)
	}
	return out
}

// =============================================================================
// PARSING
// =============================================================================

// ParseConfig parses and validates a JSON legal-constant set.
func ParseConfig(data []byte) (*Config, error) {
	var cj ConfigJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return FromJSON(cj)
}

// FromJSON converts ConfigJSON into a validated Config.
func FromJSON(cj ConfigJSON) (*Config, error) {
	cfg := &Config{
		minimumWage: make(map[int]compliance.MinimumWage),
		Rates:       compliance.DefaultContributionRates(),
	}

	if len(cj.MinimumWage) == 0 {
		return nil, fmt.Errorf("config: at least one minimum_wage entry is required")
	}
	for _, mw := range cj.MinimumWage {
		if mw.Year == 0 {
			return nil, fmt.Errorf("config: minimum_wage entry missing year")
		}
		monthly, err := parseDecimal("minimum_wage.monthly", mw.Monthly)
		if err != nil {
			return nil, err
		}
		hourly, err := parseDecimal("minimum_wage.hourly", mw.Hourly)
		if err != nil {
			return nil, err
		}
		cfg.minimumWage[mw.Year] = compliance.MinimumWage{Monthly: monthly, Hourly: hourly}
	}

	if cj.ContributionRates != nil {
		var err error
		if cfg.Rates.FullEmployee, err = parseDecimal("contribution_rates.full_employee", cj.ContributionRates.FullEmployee); err != nil {
			return nil, err
		}
		if cfg.Rates.FullEmployer, err = parseDecimal("contribution_rates.full_employer", cj.ContributionRates.FullEmployer); err != nil {
			return nil, err
		}
		if cfg.Rates.PartialEmployee, err = parseDecimal("contribution_rates.partial_employee", cj.ContributionRates.PartialEmployee); err != nil {
			return nil, err
		}
	}

	if cj.Zfss != nil {
		thresholds, err := parseThresholds(cj.Zfss.Thresholds)
		if err != nil {
			return nil, err
		}
		cfg.Thresholds = thresholds

		if cj.Zfss.AnnualBudget != "" {
			if cfg.AnnualBudget, err = parseDecimal("zfss.annual_budget", cj.Zfss.AnnualBudget); err != nil {
				return nil, err
			}
		}
	}

	return cfg, nil
}

// parseThresholds validates the table shape here at load time so the
// engine's fail-fast check never fires on configuration that made it
// through startup.
func parseThresholds(tjs []ThresholdJSON) ([]compliance.Threshold, error) {
	if len(tjs) == 0 {
		return nil, fmt.Errorf("config: zfss.thresholds must not be empty")
	}
	out := make([]compliance.Threshold, 0, len(tjs))
	for i, tj := range tjs {
		maxIncome, err := parseDecimal(fmt.Sprintf("zfss.thresholds[%d].max_income", i), tj.MaxIncome)
		if err != nil {
			return nil, err
		}
		percentage, err := parseDecimal(fmt.Sprintf("zfss.thresholds[%d].percentage", i), tj.Percentage)
		if err != nil {
			return nil, err
		}
		if i > 0 && !maxIncome.GreaterThan(out[i-1].MaxIncome) {
			return nil, fmt.Errorf("config: zfss.thresholds must be strictly ascending by max_income")
		}
		out = append(out, compliance.Threshold{MaxIncome: maxIncome, Percentage: percentage})
	}
	return out, nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("config: %s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s: %w", field, err)
	}
	return d, nil
}
