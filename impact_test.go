package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildImpactFixture returns 16 customers with exactly representable churn
// rates: month-to-month churns at 0.75, one-year at 0.25, two-year at 0;
// electronic check churns at 0.5, credit card at 0; internet customers
// without tech support churn at 0.75, with tech support at 0.
func buildImpactFixture() []Customer {
	customers := []Customer{}

	add := func(contract, payment, internet, techSupport string, churned bool) {
		customers = append(customers, Customer{
			Contract:        contract,
			PaymentMethod:   payment,
			InternetService: internet,
			TechSupport:     techSupport,
			MonthlyCharges:  100,
			Churned:         churned,
		})
	}

	// Month-to-month: 8 customers, 6 churned. The first six are also the
	// churned electronic-check / no-tech-support population.
	for i := 0; i < 4; i++ {
		add("Month-to-month", "Electronic check", "Fiber optic", "No", true)
	}
	add("Month-to-month", "Mailed check", "Fiber optic", "No", true)
	add("Month-to-month", "Mailed check", "Fiber optic", "No", true)
	add("Month-to-month", "Electronic check", "Fiber optic", "No", false)
	add("Month-to-month", "Electronic check", "Fiber optic", "No", false)

	// One year: 4 customers, 1 churned.
	add("One year", "Mailed check", "No", "No internet service", true)
	add("One year", "Electronic check", "No", "No internet service", false)
	add("One year", "Electronic check", "No", "No internet service", false)
	add("One year", "Mailed check", "No", "No internet service", false)

	// Two year: 4 active credit-card customers with tech support.
	for i := 0; i < 4; i++ {
		add("Two year", "Credit card (automatic)", "DSL", "Yes", false)
	}

	return customers
}

func TestEstimateImpactScenarios(t *testing.T) {
	cfg := Config{
		HorizonMonths:          36,
		ContractConversionRate: 0.5,
		PaymentMigrationRate:   0.5,
		TechSupportMonthlyCost: 8,
		InterventionInvestment: 100000,
	}

	summary := estimateImpact(buildImpactFixture(), cfg)
	require.Len(t, summary.Scenarios, 3)

	contract := summary.Scenarios[0]
	require.Equal(t, 8, contract.Population)
	require.Equal(t, 4, contract.Targeted)
	require.InDelta(t, 0.75, contract.BaselineChurnRate, 1e-9)
	require.InDelta(t, 0.25, contract.TargetChurnRate, 1e-9)
	require.Equal(t, 2, contract.CustomersSaved)
	require.InDelta(t, 2400, contract.RevenueProtected, 1e-9)
	require.InDelta(t, 2400, contract.NetBenefit, 1e-9)

	payment := summary.Scenarios[1]
	// Population counts only active electronic-check payers.
	require.Equal(t, 4, payment.Population)
	require.Equal(t, 2, payment.Targeted)
	require.InDelta(t, 0.5, payment.BaselineChurnRate, 1e-9)
	require.InDelta(t, 0, payment.TargetChurnRate, 1e-9)
	require.Equal(t, 1, payment.CustomersSaved)
	require.InDelta(t, 1200, payment.RevenueProtected, 1e-9)

	techSupport := summary.Scenarios[2]
	require.Equal(t, 2, techSupport.Population)
	require.InDelta(t, 0.75, techSupport.BaselineChurnRate, 1e-9)
	require.InDelta(t, 0, techSupport.TargetChurnRate, 1e-9)
	require.Equal(t, 1, techSupport.CustomersSaved)
	require.InDelta(t, 1200, techSupport.RevenueProtected, 1e-9)
	require.InDelta(t, 192, techSupport.Investment, 1e-9)
	require.InDelta(t, 1008, techSupport.NetBenefit, 1e-9)
}

func TestEstimateImpactTotals(t *testing.T) {
	cfg := Config{
		HorizonMonths:          36,
		ContractConversionRate: 0.5,
		PaymentMigrationRate:   0.5,
		TechSupportMonthlyCost: 8,
		InterventionInvestment: 100000,
	}

	summary := estimateImpact(buildImpactFixture(), cfg)

	require.Equal(t, 4, summary.CustomersSaved)
	// Scenario 3 enters the total net of its support cost.
	require.InDelta(t, 2400+1200+1008, summary.RevenueProtected, 1e-9)
	require.InDelta(t, 7.0/16.0, summary.BaselineChurnRate, 1e-9)
	require.InDelta(t, 3.0/16.0, summary.ProjectedChurnRate, 1e-9)
	require.InDelta(t, 100000, summary.Investment, 1e-9)
	require.InDelta(t, 4608.0/100000.0, summary.ROI, 1e-9)
}

func TestEstimateImpactTruncatesCustomerCounts(t *testing.T) {
	// 3 month-to-month customers at 30% conversion targets int(0.9) = 0
	// customers, so the scenario saves nobody.
	customers := []Customer{
		{Contract: "Month-to-month", PaymentMethod: "Electronic check", InternetService: "Fiber optic", TechSupport: "No", MonthlyCharges: 100, Churned: true},
		{Contract: "Month-to-month", PaymentMethod: "Mailed check", InternetService: "No", MonthlyCharges: 100, Churned: true},
		{Contract: "Month-to-month", PaymentMethod: "Credit card (automatic)", InternetService: "DSL", TechSupport: "Yes", MonthlyCharges: 100, Churned: false},
		{Contract: "One year", PaymentMethod: "Credit card (automatic)", InternetService: "DSL", TechSupport: "Yes", MonthlyCharges: 100, Churned: false},
	}
	cfg := defaultConfig()

	summary := estimateImpact(customers, cfg)
	contract := summary.Scenarios[0]
	require.Equal(t, 3, contract.Population)
	require.Equal(t, 0, contract.Targeted)
	require.Equal(t, 0, contract.CustomersSaved)
	require.InDelta(t, 0, contract.RevenueProtected, 1e-9)
}
