package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, 36, cfg.HorizonMonths)
	require.InDelta(t, 0.30, cfg.ContractConversionRate, 1e-9)
	require.InDelta(t, 0.40, cfg.PaymentMigrationRate, 1e-9)
	require.InDelta(t, 8, cfg.TechSupportMonthlyCost, 1e-9)
	require.InDelta(t, 180000, cfg.InterventionInvestment, 1e-9)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "horizon_months: 24\ncontract_conversion_rate: 0.25\nintervention_investment: 90000\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 24, cfg.HorizonMonths)
	require.InDelta(t, 0.25, cfg.ContractConversionRate, 1e-9)
	require.InDelta(t, 90000, cfg.InterventionInvestment, 1e-9)
	// Untouched keys keep their defaults.
	require.InDelta(t, 0.40, cfg.PaymentMigrationRate, 1e-9)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CHURN_ANALYSIS_HORIZON_MONTHS", "12")
	t.Setenv("CHURN_ANALYSIS_INVESTMENT", "50000")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, 12, cfg.HorizonMonths)
	require.InDelta(t, 50000, cfg.InterventionInvestment, 1e-9)
}

func TestLoadConfigInvalidEnv(t *testing.T) {
	t.Setenv("CHURN_ANALYSIS_HORIZON_MONTHS", "soon")
	_, err := loadConfig("")
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	cfg := defaultConfig()
	cfg.HorizonMonths = 0
	require.Error(t, cfg.validate())

	cfg = defaultConfig()
	cfg.ContractConversionRate = 1.5
	require.Error(t, cfg.validate())

	cfg = defaultConfig()
	cfg.PaymentMigrationRate = -0.1
	require.Error(t, cfg.validate())

	cfg = defaultConfig()
	cfg.TechSupportMonthlyCost = -1
	require.Error(t, cfg.validate())

	require.NoError(t, defaultConfig().validate())
}
