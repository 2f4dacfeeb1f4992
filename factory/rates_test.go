package factory_test

import (
	"testing"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `{
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
}`

func TestParseConfig_FullDocument(t *testing.T) {
	cfg, err := factory.ParseConfig([]byte(fullConfig))
	require.NoError(t, err)

	wage, ok := cfg.MinimumWageFor(2025)
	require.True(t, ok)
	assert.True(t, wage.Monthly.Equal(compliance.ParseMoney("4666")))
	assert.True(t, wage.Hourly.Equal(compliance.ParseMoney("30.50")))

	_, ok = cfg.MinimumWageFor(2020)
	assert.False(t, ok, "unconfigured year must report missing")

	assert.True(t, cfg.Rates.FullEmployer.Equal(compliance.ParseMoney("0.2038")))
	require.Len(t, cfg.Thresholds, 3)
	assert.True(t, cfg.Thresholds[1].MaxIncome.Equal(compliance.ParseMoney("5000")))
	assert.True(t, cfg.AnnualBudget.Equal(compliance.ParseMoney("250000")))
	assert.ElementsMatch(t, []int{2024, 2025}, cfg.Years())
}

func TestParseConfig_DefaultsContributionRates(t *testing.T) {
	// GIVEN: A config without contribution_rates
	// WHEN: Parsing it
	// THEN: The statutory defaults apply

	cfg, err := factory.ParseConfig([]byte(`{
		"minimum_wage": [{"year": 2024, "monthly": "4242.00", "hourly": "27.70"}]
	}`))
	require.NoError(t, err)

	assert.True(t, cfg.Rates.FullEmployee.Equal(compliance.ParseMoney("0.1371")))
	assert.True(t, cfg.Rates.FullEmployer.Equal(compliance.ParseMoney("0.2038")))
	assert.True(t, cfg.Rates.PartialEmployee.Equal(compliance.ParseMoney("0.09")))
}

func TestParseConfig_MissingMinimumWage_Rejected(t *testing.T) {
	_, err := factory.ParseConfig([]byte(`{}`))
	assert.Error(t, err)
}

func TestParseConfig_UnsortedThresholds_Rejected(t *testing.T) {
	// GIVEN: A threshold table that is not strictly ascending
	// WHEN: Parsing the config
	// THEN: Loading fails instead of deferring the problem to grant time

	_, err := factory.ParseConfig([]byte(`{
		"minimum_wage": [{"year": 2024, "monthly": "4242.00", "hourly": "27.70"}],
		"zfss": {
			"thresholds": [
				{"max_income": "5000", "percentage": "80"},
				{"max_income": "3000", "percentage": "100"}
			]
		}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly ascending")
}

func TestParseConfig_EmptyThresholds_Rejected(t *testing.T) {
	_, err := factory.ParseConfig([]byte(`{
		"minimum_wage": [{"year": 2024, "monthly": "4242.00", "hourly": "27.70"}],
		"zfss": {"thresholds": []}
	}`))
	assert.Error(t, err)
}

func TestParseConfig_BadDecimal_Rejected(t *testing.T) {
	_, err := factory.ParseConfig([]byte(`{
		"minimum_wage": [{"year": 2024, "monthly": "not-a-number", "hourly": "27.70"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum_wage.monthly")
}

func TestParseConfig_MalformedJSON_Rejected(t *testing.T) {
	_, err := factory.ParseConfig([]byte(`{`))
	assert.Error(t, err)
}
