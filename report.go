package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Overview holds the headline figures of the loaded table.
type Overview struct {
	TotalCustomers      int     `json:"total_customers"`
	ChurnedCustomers    int     `json:"churned_customers"`
	ChurnRate           float64 `json:"churn_rate"`
	TotalMonthlyCharges float64 `json:"total_monthly_charges"`
	AvgMonthlyCharges   float64 `json:"avg_monthly_charges"`
	AvgTenureMonths     float64 `json:"avg_tenure_months"`
	InvalidRows         int     `json:"invalid_rows"`
}

// SegmentReport is the summary of one grouping dimension.
type SegmentReport struct {
	Dimension string           `json:"dimension"`
	Label     string           `json:"label"`
	Segments  []SegmentSummary `json:"segments"`
}

// Report is everything one analysis run produces.
type Report struct {
	Overview          Overview         `json:"overview"`
	Segments          []SegmentReport  `json:"segments"`
	FactorTests       []FactorTest     `json:"factor_tests"`
	CLV               CLVSummary       `json:"clv"`
	ActiveRisk        []RiskBucket     `json:"active_risk_distribution"`
	HighRiskProfile   HighRiskProfile  `json:"high_risk_profile"`
	HighRiskCustomers []RiskAssessment `json:"high_risk_customers"`
	ChurnedRiskShares []CategoryShare  `json:"churned_risk_shares"`
	Impact            ImpactSummary    `json:"impact"`
}

type runOptions struct {
	Verbose  bool
	Progress bool
}

// segmentDimensions are the grouping dimensions analyzed per run, with the
// display orders that override first-seen ordering.
var segmentDimensions = []struct {
	Field string
	Label string
	Order []string
}{
	{"Contract", "Contract Type", contractOrder},
	{"PaymentMethod", "Payment Method", nil},
	{"TenureGroup", "Tenure Group", tenureGroupOrder},
	{"InternetService", "Internet Service", nil},
	{"TechSupport", "Tech Support", nil},
	{"SeniorCitizen", "Senior Citizen", nil},
}

// testFactors are the categorical factors tested for independence from
// churn. All seven run each time, with no multiple-comparison correction.
var testFactors = []string{
	"Contract",
	"PaymentMethod",
	"TechSupport",
	"InternetService",
	"SeniorCitizen",
	"Partner",
	"Dependents",
}

// runAnalysis loads the table and runs the full pipeline: normalization,
// segment summaries, independence tests, CLV projection, risk scoring over
// the active and churned sets, and the intervention impact estimate.
func runAnalysis(path string, cfg Config, opts runOptions) (Report, error) {
	customers, invalidRows, err := loadCustomers(path)
	if err != nil {
		return Report{}, err
	}
	if opts.Verbose {
		log.Printf("[INFO] loaded %d customers (%d invalid rows skipped)", len(customers), invalidRows)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(segmentDimensions) + len(testFactors) + 3))
	}
	step := func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	report := Report{Overview: buildOverview(customers, invalidRows)}

	for _, dimension := range segmentDimensions {
		segments, err := aggregateSegmentsOrdered(customers, dimension.Field, dimension.Order)
		if err != nil {
			return Report{}, fmt.Errorf("segment %s: %w", dimension.Field, err)
		}
		report.Segments = append(report.Segments, SegmentReport{
			Dimension: dimension.Field,
			Label:     dimension.Label,
			Segments:  segments,
		})
		if opts.Verbose {
			log.Printf("[INFO] segmented by %s: %d groups", dimension.Field, len(segments))
		}
		step()
	}

	for _, factor := range testFactors {
		test, err := testIndependence(customers, factor, "Churn")
		if err != nil {
			return Report{}, fmt.Errorf("independence test %s: %w", factor, err)
		}
		report.FactorTests = append(report.FactorTests, test)
		if opts.Verbose {
			log.Printf("[INFO] chi-square %s: stat=%.2f p=%.3g", factor, test.ChiSquare, test.PValue)
		}
		step()
	}

	report.CLV = summarizeCLV(customers, cfg.HorizonMonths)
	step()

	active := []Customer{}
	churned := []Customer{}
	for _, customer := range customers {
		if customer.Churned {
			churned = append(churned, customer)
		} else {
			active = append(active, customer)
		}
	}
	activeAssessments := scoreCustomers(active)
	churnedAssessments := scoreCustomers(churned)
	report.ActiveRisk = riskDistribution(activeAssessments)
	report.HighRiskCustomers = highRiskCustomers(activeAssessments)
	report.HighRiskProfile = profileHighRisk(activeAssessments)
	report.ChurnedRiskShares = categoryShares(churnedAssessments)
	if opts.Verbose {
		log.Printf("[INFO] scored %d active and %d churned customers, %d high risk",
			len(active), len(churned), len(report.HighRiskCustomers))
	}
	step()

	report.Impact = estimateImpact(customers, cfg)
	step()

	return report, nil
}

func buildOverview(customers []Customer, invalidRows int) Overview {
	overview := Overview{
		TotalCustomers: len(customers),
		InvalidRows:    invalidRows,
	}
	tenureTotal := 0
	for _, customer := range customers {
		if customer.Churned {
			overview.ChurnedCustomers++
		}
		overview.TotalMonthlyCharges += customer.MonthlyCharges
		tenureTotal += customer.TenureMonths
	}
	if overview.TotalCustomers > 0 {
		overview.ChurnRate = float64(overview.ChurnedCustomers) / float64(overview.TotalCustomers)
		overview.AvgMonthlyCharges = overview.TotalMonthlyCharges / float64(overview.TotalCustomers)
		overview.AvgTenureMonths = float64(tenureTotal) / float64(overview.TotalCustomers)
	}
	return overview
}

func printReport(report Report, inputPath string) {
	fmt.Println("Customer Churn Analysis")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Input: %s\n", filepath.Base(inputPath))
	fmt.Printf("Total customers: %d\n", report.Overview.TotalCustomers)
	fmt.Printf("Churned customers: %d (%.1f%%)\n", report.Overview.ChurnedCustomers, report.Overview.ChurnRate*100)
	fmt.Printf("Total monthly charges: $%.2f (avg $%.2f)\n", report.Overview.TotalMonthlyCharges, report.Overview.AvgMonthlyCharges)
	fmt.Printf("Average tenure: %.1f months\n", report.Overview.AvgTenureMonths)
	if report.Overview.InvalidRows > 0 {
		fmt.Printf("Invalid rows skipped: %d\n", report.Overview.InvalidRows)
	}

	for _, segmentReport := range report.Segments {
		fmt.Printf("\nChurn by %s\n", segmentReport.Label)
		fmt.Println(strings.Repeat("-", 50))
		for _, segment := range segmentReport.Segments {
			fmt.Printf("%-28s | customers %5d | churned %4d | rate %5.1f%% | revenue at risk $%.2f\n",
				segment.Value,
				segment.Customers,
				segment.Churned,
				segment.ChurnRate*100,
				segment.RevenueAtRisk,
			)
		}
	}

	fmt.Println("\nChi-square tests vs churn")
	fmt.Println(strings.Repeat("-", 50))
	for _, test := range report.FactorTests {
		verdict := "not significant"
		if test.Significant {
			verdict = "significant"
		}
		fmt.Printf("%-16s | chi2 %10.2f | p %.2e | dof %d | %s\n",
			test.Factor, test.ChiSquare, test.PValue, test.DegreesOfFreedom, verdict)
	}

	fmt.Println("\nCustomer lifetime value")
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("Horizon: %d months\n", report.CLV.HorizonMonths)
	fmt.Printf("Average CLV (all): $%.2f\n", report.CLV.AvgCLVAll)
	fmt.Printf("Average CLV (churned): $%.2f\n", report.CLV.AvgCLVChurned)
	fmt.Printf("Average CLV (retained): $%.2f\n", report.CLV.AvgCLVRetained)
	fmt.Printf("Total CLV at risk: $%.2f\n", report.CLV.TotalCLVAtRisk)
	fmt.Printf("Revenue loss (monthly/annual): $%.2f / $%.2f\n", report.CLV.MonthlyRevenueLoss, report.CLV.AnnualRevenueLoss)
	for _, contractCLV := range report.CLV.ByContract {
		fmt.Printf("Avg CLV %s: $%.2f\n", contractCLV.Contract, contractCLV.AvgCLV)
	}

	fmt.Println("\nRisk distribution (active customers)")
	fmt.Println(strings.Repeat("-", 50))
	for _, bucket := range report.ActiveRisk {
		fmt.Printf("%-14s | customers %5d | avg score %4.1f | annual revenue at risk $%.2f\n",
			bucket.Category, bucket.Customers, bucket.AvgScore, bucket.AnnualRevenueAtRisk)
	}
	profile := report.HighRiskProfile
	fmt.Printf("High-risk customers: %d | monthly $%.2f | annual $%.2f | avg charge $%.2f | avg tenure %.1f months\n",
		profile.Customers, profile.MonthlyRevenue, profile.AnnualRevenue, profile.AvgMonthlyCharge, profile.AvgTenureMonths)

	if len(report.ChurnedRiskShares) > 0 {
		fmt.Println("\nRule validation (churned customers by category)")
		fmt.Println(strings.Repeat("-", 50))
		for _, share := range report.ChurnedRiskShares {
			fmt.Printf("%-14s | %.1f%% of churned customers\n", share.Category, share.Percent)
		}
	}

	fmt.Println("\nProjected intervention impact")
	fmt.Println(strings.Repeat("-", 50))
	for _, scenario := range report.Impact.Scenarios {
		fmt.Printf("%s\n", scenario.Name)
		fmt.Printf("  population %d | targeted %d | churn %.1f%% -> %.1f%%\n",
			scenario.Population, scenario.Targeted, scenario.BaselineChurnRate*100, scenario.TargetChurnRate*100)
		fmt.Printf("  customers saved %d | revenue protected $%.2f", scenario.CustomersSaved, scenario.RevenueProtected)
		if scenario.Investment > 0 {
			fmt.Printf(" | investment $%.2f | net $%.2f", scenario.Investment, scenario.NetBenefit)
		}
		fmt.Println()
	}
	fmt.Printf("\nChurn rate: %.1f%% -> %.1f%%\n", report.Impact.BaselineChurnRate*100, report.Impact.ProjectedChurnRate*100)
	fmt.Printf("Customers saved: %d\n", report.Impact.CustomersSaved)
	fmt.Printf("Revenue protected: $%.2f\n", report.Impact.RevenueProtected)
	fmt.Printf("Investment: $%.2f | ROI: %.1fx\n", report.Impact.Investment, report.Impact.ROI)
}

func writeJSON(report Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// writeHighRiskCSV exports the Critical + High active customers for the
// retention team, highest score first.
func writeHighRiskCSV(report Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{
		"customer_id",
		"tenure_months",
		"contract",
		"monthly_charges",
		"payment_method",
		"tech_support",
		"internet_service",
		"risk_score",
		"risk_category",
	}); err != nil {
		return err
	}

	for _, entry := range report.HighRiskCustomers {
		record := []string{
			entry.CustomerID,
			fmt.Sprintf("%d", entry.TenureMonths),
			entry.Contract,
			fmt.Sprintf("%.2f", entry.MonthlyCharges),
			entry.PaymentMethod,
			entry.TechSupport,
			entry.InternetService,
			fmt.Sprintf("%d", entry.Score),
			entry.Category,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// writeSummaryCSV exports the headline metrics as metric,value pairs.
func writeSummaryCSV(report Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	rows := [][]string{
		{"metric", "value"},
		{"Total Customers", fmt.Sprintf("%d", report.Overview.TotalCustomers)},
		{"Churned Customers", fmt.Sprintf("%d", report.Overview.ChurnedCustomers)},
		{"Churn Rate", fmt.Sprintf("%.1f%%", report.Overview.ChurnRate*100)},
		{"Monthly Revenue Loss", fmt.Sprintf("$%.2f", report.CLV.MonthlyRevenueLoss)},
		{"Annual Revenue Loss", fmt.Sprintf("$%.2f", report.CLV.AnnualRevenueLoss)},
		{"High-Risk Customers", fmt.Sprintf("%d", len(report.HighRiskCustomers))},
		{"Projected Churn Rate (Post-Intervention)", fmt.Sprintf("%.1f%%", report.Impact.ProjectedChurnRate*100)},
		{"Projected Annual Savings", fmt.Sprintf("$%.2f", report.Impact.RevenueProtected)},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
