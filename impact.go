package main

import (
	"math"
	"strings"
)

// ImpactScenario is one what-if intervention. Customer counts truncate
// toward zero at each step, matching the deliberately conservative
// arithmetic of the business case.
type ImpactScenario struct {
	Name              string  `json:"name"`
	Population        int     `json:"population"`
	TargetRate        float64 `json:"target_rate"`
	Targeted          int     `json:"targeted"`
	BaselineChurnRate float64 `json:"baseline_churn_rate"`
	TargetChurnRate   float64 `json:"target_churn_rate"`
	CustomersSaved    int     `json:"customers_saved"`
	RevenueProtected  float64 `json:"revenue_protected"`
	Investment        float64 `json:"investment"`
	NetBenefit        float64 `json:"net_benefit"`
}

// ImpactSummary combines the three scenarios into the projected totals.
type ImpactSummary struct {
	BaselineChurnRate  float64          `json:"baseline_churn_rate"`
	ProjectedChurnRate float64          `json:"projected_churn_rate"`
	CustomersSaved     int              `json:"customers_saved"`
	RevenueProtected   float64          `json:"revenue_protected"`
	Investment         float64          `json:"investment"`
	ROI                float64          `json:"roi"`
	Scenarios          []ImpactScenario `json:"scenarios"`
}

func countWhere(customers []Customer, match func(Customer) bool) int {
	count := 0
	for _, customer := range customers {
		if match(customer) {
			count++
		}
	}
	return count
}

// churnRateWhere is the mean churn indicator over the matching subset,
// NaN when the subset is empty (callers pick the populations).
func churnRateWhere(customers []Customer, match func(Customer) bool) float64 {
	total := 0
	churned := 0
	for _, customer := range customers {
		if !match(customer) {
			continue
		}
		total++
		if customer.Churned {
			churned++
		}
	}
	return float64(churned) / float64(total)
}

// truncCount truncates a fractional customer count toward zero. A NaN
// input means one of the scenario populations was empty and no estimate is
// possible; that counts as zero customers saved.
func truncCount(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	return int(value)
}

// sanitizeRate keeps undefined rates (empty populations) out of the
// report; JSON cannot carry NaN.
func sanitizeRate(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return value
}

// estimateImpact runs the three retention scenarios and sums them. The
// tech-support scenario nets out its per-customer cost before entering the
// total; the other two carry no direct cost.
func estimateImpact(customers []Customer, cfg Config) ImpactSummary {
	totalCustomers := len(customers)
	churnedCount := countWhere(customers, func(c Customer) bool { return c.Churned })

	avgMonthlyCharge := 0.0
	if totalCustomers > 0 {
		totalMonthly := 0.0
		for _, customer := range customers {
			totalMonthly += customer.MonthlyCharges
		}
		avgMonthlyCharge = totalMonthly / float64(totalCustomers)
	}

	// Scenario 1: migrate month-to-month contracts to annual.
	monthToMonth := func(c Customer) bool { return c.Contract == "Month-to-month" }
	oneYear := func(c Customer) bool { return c.Contract == "One year" }

	monthlyChurn := churnRateWhere(customers, monthToMonth)
	annualChurn := churnRateWhere(customers, oneYear)
	contract := ImpactScenario{
		Name:              "Contract migration (monthly to annual)",
		Population:        countWhere(customers, monthToMonth),
		TargetRate:        cfg.ContractConversionRate,
		BaselineChurnRate: sanitizeRate(monthlyChurn),
		TargetChurnRate:   sanitizeRate(annualChurn),
	}
	contract.Targeted = int(float64(contract.Population) * contract.TargetRate)
	contract.CustomersSaved = truncCount(float64(contract.Targeted) * (monthlyChurn - annualChurn))
	contract.RevenueProtected = float64(contract.CustomersSaved) * avgMonthlyCharge * 12
	contract.NetBenefit = contract.RevenueProtected

	// Scenario 2: migrate active electronic-check payers to credit card.
	electronicCheck := func(c Customer) bool { return c.PaymentMethod == "Electronic check" }
	creditCard := func(c Customer) bool {
		return strings.Contains(strings.ToLower(c.PaymentMethod), "credit card")
	}

	echeckChurn := churnRateWhere(customers, electronicCheck)
	creditCardChurn := churnRateWhere(customers, creditCard)
	payment := ImpactScenario{
		Name:              "Payment migration (e-check to credit card)",
		Population:        countWhere(customers, func(c Customer) bool { return electronicCheck(c) && !c.Churned }),
		TargetRate:        cfg.PaymentMigrationRate,
		BaselineChurnRate: sanitizeRate(echeckChurn),
		TargetChurnRate:   sanitizeRate(creditCardChurn),
	}
	payment.Targeted = int(float64(payment.Population) * payment.TargetRate)
	payment.CustomersSaved = truncCount(float64(payment.Targeted) * (echeckChurn - creditCardChurn))
	payment.RevenueProtected = float64(payment.CustomersSaved) * avgMonthlyCharge * 12
	payment.NetBenefit = payment.RevenueProtected

	// Scenario 3: bundle tech support for internet customers, net of the
	// per-customer support cost.
	noTechSupport := func(c Customer) bool {
		return c.TechSupport == "No" && c.InternetService != "No" && c.InternetService != ""
	}
	withTechSupport := func(c Customer) bool { return c.TechSupport == "Yes" }

	noTechChurn := churnRateWhere(customers, noTechSupport)
	withTechChurn := churnRateWhere(customers, withTechSupport)
	techSupport := ImpactScenario{
		Name:              "Tech support bundling (internet plans)",
		Population:        countWhere(customers, func(c Customer) bool { return noTechSupport(c) && !c.Churned }),
		TargetRate:        1.0,
		BaselineChurnRate: sanitizeRate(noTechChurn),
		TargetChurnRate:   sanitizeRate(withTechChurn),
	}
	techSupport.Targeted = techSupport.Population
	techSupport.CustomersSaved = truncCount(float64(techSupport.Population) * (noTechChurn - withTechChurn))
	techSupport.RevenueProtected = float64(techSupport.CustomersSaved) * avgMonthlyCharge * 12
	techSupport.Investment = float64(techSupport.Population) * cfg.TechSupportMonthlyCost * 12
	techSupport.NetBenefit = techSupport.RevenueProtected - techSupport.Investment

	summary := ImpactSummary{
		CustomersSaved:   contract.CustomersSaved + payment.CustomersSaved + techSupport.CustomersSaved,
		RevenueProtected: contract.NetBenefit + payment.NetBenefit + techSupport.NetBenefit,
		Investment:       cfg.InterventionInvestment,
		Scenarios:        []ImpactScenario{contract, payment, techSupport},
	}
	if totalCustomers > 0 {
		summary.BaselineChurnRate = float64(churnedCount) / float64(totalCustomers)
		summary.ProjectedChurnRate = float64(churnedCount-summary.CustomersSaved) / float64(totalCustomers)
	}
	if summary.Investment > 0 {
		summary.ROI = summary.RevenueProtected / summary.Investment
	}
	return summary
}
