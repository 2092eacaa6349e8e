package main

// CLVProjection is the deterministic lifetime-value projection for one
// customer: charges to date plus the monthly charge carried forward over
// the horizon. CLVAtRisk is nonzero only for churned customers.
type CLVProjection struct {
	ProjectedCLV float64 `json:"projected_clv"`
	CLVAtRisk    float64 `json:"clv_at_risk"`
}

// ContractCLV is the average projected CLV for one contract type.
type ContractCLV struct {
	Contract string  `json:"contract"`
	AvgCLV   float64 `json:"avg_clv"`
}

// CLVSummary aggregates the projection across the whole table.
type CLVSummary struct {
	HorizonMonths      int           `json:"horizon_months"`
	AvgCLVAll          float64       `json:"avg_clv_all"`
	AvgCLVChurned      float64       `json:"avg_clv_churned"`
	AvgCLVRetained     float64       `json:"avg_clv_retained"`
	TotalCLVAtRisk     float64       `json:"total_clv_at_risk"`
	MonthlyRevenueLoss float64       `json:"monthly_revenue_loss"`
	AnnualRevenueLoss  float64       `json:"annual_revenue_loss"`
	ByContract         []ContractCLV `json:"by_contract"`
}

// projectCLV computes the projection for one customer. horizonMonths is
// expected to be positive; config validation enforces that before any
// caller gets here.
func projectCLV(c Customer, horizonMonths int) CLVProjection {
	projection := CLVProjection{
		ProjectedCLV: c.TotalCharges + c.MonthlyCharges*float64(horizonMonths),
	}
	if c.Churned {
		projection.CLVAtRisk = projection.ProjectedCLV
	}
	return projection
}

// summarizeCLV projects every customer and rolls the results up into
// population averages, the total value at risk from churned customers and
// per-contract averages in display order.
func summarizeCLV(customers []Customer, horizonMonths int) CLVSummary {
	summary := CLVSummary{HorizonMonths: horizonMonths}

	totalAll := 0.0
	totalChurned := 0.0
	totalRetained := 0.0
	churnedCount := 0
	contractTotals := map[string]float64{}
	contractCounts := map[string]int{}

	for _, customer := range customers {
		projection := projectCLV(customer, horizonMonths)
		totalAll += projection.ProjectedCLV
		if customer.Churned {
			totalChurned += projection.ProjectedCLV
			churnedCount++
			summary.TotalCLVAtRisk += projection.CLVAtRisk
			summary.MonthlyRevenueLoss += customer.MonthlyCharges
		} else {
			totalRetained += projection.ProjectedCLV
		}
		contractTotals[customer.Contract] += projection.ProjectedCLV
		contractCounts[customer.Contract]++
	}

	retainedCount := len(customers) - churnedCount
	if len(customers) > 0 {
		summary.AvgCLVAll = totalAll / float64(len(customers))
	}
	if churnedCount > 0 {
		summary.AvgCLVChurned = totalChurned / float64(churnedCount)
	}
	if retainedCount > 0 {
		summary.AvgCLVRetained = totalRetained / float64(retainedCount)
	}
	summary.AnnualRevenueLoss = summary.MonthlyRevenueLoss * 12

	for _, contract := range contractOrder {
		count := contractCounts[contract]
		if count == 0 {
			continue
		}
		summary.ByContract = append(summary.ByContract, ContractCLV{
			Contract: contract,
			AvgCLV:   contractTotals[contract] / float64(count),
		})
	}
	return summary
}
