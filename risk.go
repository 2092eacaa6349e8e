package main

import "sort"

// Risk categories in display order (highest first).
const (
	riskCritical = "Critical Risk"
	riskHigh     = "High Risk"
	riskMedium   = "Medium Risk"
	riskLow      = "Low Risk"
)

var riskCategoryOrder = []string{riskCritical, riskHigh, riskMedium, riskLow}

// Fixed business constants of the scoring rule set. The weights sum to
// maxRiskScore; they are not fitted from data.
const (
	maxRiskScore        = 15
	highChargeThreshold = 80.0
)

// RiskAssessment is the scored snapshot of one customer. It carries the
// fields the intervention export and run store need alongside the score.
type RiskAssessment struct {
	CustomerID      string  `json:"customer_id"`
	TenureMonths    int     `json:"tenure_months"`
	Contract        string  `json:"contract"`
	MonthlyCharges  float64 `json:"monthly_charges"`
	PaymentMethod   string  `json:"payment_method"`
	TechSupport     string  `json:"tech_support"`
	InternetService string  `json:"internet_service"`
	Score           int     `json:"risk_score"`
	Category        string  `json:"risk_category"`
}

// RiskBucket summarizes one risk category over a scored set.
type RiskBucket struct {
	Category            string  `json:"category"`
	Customers           int     `json:"customers"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	AvgScore            float64 `json:"avg_score"`
	AnnualRevenueAtRisk float64 `json:"annual_revenue_at_risk"`
}

// CategoryShare is the share of a scored set falling into one category,
// used to validate the rule set against customers who actually churned.
type CategoryShare struct {
	Category  string  `json:"category"`
	Customers int     `json:"customers"`
	Percent   float64 `json:"percent"`
}

// HighRiskProfile describes the Critical + High slice of the active base.
type HighRiskProfile struct {
	Customers        int     `json:"customers"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	AnnualRevenue    float64 `json:"annual_revenue"`
	AvgMonthlyCharge float64 `json:"avg_monthly_charge"`
	AvgTenureMonths  float64 `json:"avg_tenure_months"`
}

// riskScore applies the fixed rule table. Every matching rule adds its
// points; there is no early exit.
func riskScore(c Customer) int {
	score := 0

	// Contract type carries the most weight.
	switch c.Contract {
	case "Month-to-month":
		score += 3
	case "One year":
		score += 1
	}

	// Early tenure churns hardest.
	if c.TenureMonths <= 12 {
		score += 3
	} else if c.TenureMonths <= 24 {
		score += 1
	}

	// Payment friction.
	if c.PaymentMethod == "Electronic check" {
		score += 2
	}

	hasInternet := c.InternetService != "No" && c.InternetService != ""
	if c.TechSupport == "No" && hasInternet {
		score += 2
	}
	if c.OnlineSecurity == "No" && hasInternet {
		score += 2
	}

	// Price sensitivity.
	if c.MonthlyCharges > highChargeThreshold {
		score += 2
	}

	if c.InternetService == "Fiber optic" {
		score += 1
	}

	return score
}

// riskCategory maps a score onto its category. Thresholds are exact at
// 4, 7 and 10.
func riskCategory(score int) string {
	switch {
	case score >= 10:
		return riskCritical
	case score >= 7:
		return riskHigh
	case score >= 4:
		return riskMedium
	default:
		return riskLow
	}
}

// scoreCustomers scores a record set. It is invoked once over the active
// customers for the distribution report and once over the churned
// customers for validation; the two sets never mix.
func scoreCustomers(customers []Customer) []RiskAssessment {
	assessments := make([]RiskAssessment, 0, len(customers))
	for _, customer := range customers {
		score := riskScore(customer)
		assessments = append(assessments, RiskAssessment{
			CustomerID:      customer.ID,
			TenureMonths:    customer.TenureMonths,
			Contract:        customer.Contract,
			MonthlyCharges:  customer.MonthlyCharges,
			PaymentMethod:   customer.PaymentMethod,
			TechSupport:     customer.TechSupport,
			InternetService: customer.InternetService,
			Score:           score,
			Category:        riskCategory(score),
		})
	}
	return assessments
}

// riskDistribution buckets assessments by category in display order.
// Categories with no members are omitted.
func riskDistribution(assessments []RiskAssessment) []RiskBucket {
	buckets := map[string]*RiskBucket{}
	scoreTotals := map[string]int{}

	for _, assessment := range assessments {
		bucket, exists := buckets[assessment.Category]
		if !exists {
			bucket = &RiskBucket{Category: assessment.Category}
			buckets[assessment.Category] = bucket
		}
		bucket.Customers++
		bucket.MonthlyRevenue += assessment.MonthlyCharges
		scoreTotals[assessment.Category] += assessment.Score
	}

	result := make([]RiskBucket, 0, len(buckets))
	for _, category := range riskCategoryOrder {
		bucket, exists := buckets[category]
		if !exists {
			continue
		}
		bucket.AvgScore = float64(scoreTotals[category]) / float64(bucket.Customers)
		bucket.AnnualRevenueAtRisk = bucket.MonthlyRevenue * 12
		result = append(result, *bucket)
	}
	return result
}

// categoryShares reports what fraction of a scored set landed in each
// category, in display order.
func categoryShares(assessments []RiskAssessment) []CategoryShare {
	counts := map[string]int{}
	for _, assessment := range assessments {
		counts[assessment.Category]++
	}

	result := make([]CategoryShare, 0, len(counts))
	for _, category := range riskCategoryOrder {
		count, exists := counts[category]
		if !exists {
			continue
		}
		result = append(result, CategoryShare{
			Category:  category,
			Customers: count,
			Percent:   float64(count) / float64(len(assessments)) * 100,
		})
	}
	return result
}

// highRiskCustomers returns the Critical + High assessments sorted by
// score descending, the order the intervention export uses.
func highRiskCustomers(assessments []RiskAssessment) []RiskAssessment {
	result := []RiskAssessment{}
	for _, assessment := range assessments {
		if assessment.Category == riskCritical || assessment.Category == riskHigh {
			result = append(result, assessment)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

// profileHighRisk summarizes the Critical + High slice.
func profileHighRisk(assessments []RiskAssessment) HighRiskProfile {
	profile := HighRiskProfile{}
	tenureTotal := 0
	for _, assessment := range assessments {
		if assessment.Category != riskCritical && assessment.Category != riskHigh {
			continue
		}
		profile.Customers++
		profile.MonthlyRevenue += assessment.MonthlyCharges
		tenureTotal += assessment.TenureMonths
	}
	profile.AnnualRevenue = profile.MonthlyRevenue * 12
	if profile.Customers > 0 {
		profile.AvgMonthlyCharge = profile.MonthlyRevenue / float64(profile.Customers)
		profile.AvgTenureMonths = float64(tenureTotal) / float64(profile.Customers)
	}
	return profile
}
