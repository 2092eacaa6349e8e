package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the analysis parameters that used to live as module-level
// constants in earlier versions of this analysis. Everything here feeds the
// CLV projector or the impact estimator; the risk rule weights stay fixed
// business constants and are not configurable.
type Config struct {
	HorizonMonths          int     `yaml:"horizon_months"`
	ContractConversionRate float64 `yaml:"contract_conversion_rate"`
	PaymentMigrationRate   float64 `yaml:"payment_migration_rate"`
	TechSupportMonthlyCost float64 `yaml:"tech_support_monthly_cost"`
	InterventionInvestment float64 `yaml:"intervention_investment"`
}

func defaultConfig() Config {
	return Config{
		HorizonMonths:          36,
		ContractConversionRate: 0.30,
		PaymentMigrationRate:   0.40,
		TechSupportMonthlyCost: 8,
		InterventionInvestment: 180000,
	}
}

// loadConfig builds the configuration from defaults, an optional YAML file
// (explicit path, else CHURN_ANALYSIS_CONFIG) and environment overrides.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("CHURN_ANALYSIS_CONFIG")
	}
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if value := os.Getenv("CHURN_ANALYSIS_HORIZON_MONTHS"); value != "" {
		months, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHURN_ANALYSIS_HORIZON_MONTHS: %w", err)
		}
		cfg.HorizonMonths = months
	}
	if value := os.Getenv("CHURN_ANALYSIS_INVESTMENT"); value != "" {
		investment, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHURN_ANALYSIS_INVESTMENT: %w", err)
		}
		cfg.InterventionInvestment = investment
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	if c.HorizonMonths <= 0 {
		return fmt.Errorf("horizon_months must be positive, got %d", c.HorizonMonths)
	}
	if c.ContractConversionRate < 0 || c.ContractConversionRate > 1 {
		return fmt.Errorf("contract_conversion_rate must be in [0,1], got %g", c.ContractConversionRate)
	}
	if c.PaymentMigrationRate < 0 || c.PaymentMigrationRate > 1 {
		return fmt.Errorf("payment_migration_rate must be in [0,1], got %g", c.PaymentMigrationRate)
	}
	if c.TechSupportMonthlyCost < 0 {
		return fmt.Errorf("tech_support_monthly_cost must not be negative, got %g", c.TechSupportMonthlyCost)
	}
	if c.InterventionInvestment < 0 {
		return fmt.Errorf("intervention_investment must not be negative, got %g", c.InterventionInvestment)
	}
	return nil
}
