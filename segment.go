package main

import (
	"errors"
	"fmt"
)

var errUnknownField = errors.New("unknown field")

// SegmentSummary aggregates one distinct value of a grouping dimension.
// RevenueAtRisk apportions the whole segment's revenue by its churn rate;
// it is deliberately not the sum of the churned members' charges.
type SegmentSummary struct {
	Value         string  `json:"value"`
	Customers     int     `json:"customers"`
	Churned       int     `json:"churned"`
	ChurnRate     float64 `json:"churn_rate"`
	TotalRevenue  float64 `json:"total_revenue"`
	RevenueAtRisk float64 `json:"revenue_at_risk"`
}

// fieldValue resolves a grouping field name against a customer. Requesting
// a field that does not exist is a caller bug and surfaces as an error.
func fieldValue(c Customer, field string) (string, error) {
	switch field {
	case "Contract":
		return c.Contract, nil
	case "PaymentMethod":
		return c.PaymentMethod, nil
	case "TenureGroup":
		return c.TenureGroup, nil
	case "InternetService":
		return c.InternetService, nil
	case "TechSupport":
		return c.TechSupport, nil
	case "OnlineSecurity":
		return c.OnlineSecurity, nil
	case "SeniorCitizen":
		return c.SeniorCitizen, nil
	case "Partner":
		return c.Partner, nil
	case "Dependents":
		return c.Dependents, nil
	case "Churn":
		if c.Churned {
			return "Yes", nil
		}
		return "No", nil
	default:
		return "", fmt.Errorf("%w: %s", errUnknownField, field)
	}
}

// aggregateSegments groups customers by field in first-seen value order.
// Records with an empty field value (e.g. uncategorized tenure) are left
// out of the grouping.
func aggregateSegments(customers []Customer, field string) ([]SegmentSummary, error) {
	return aggregateSegmentsOrdered(customers, field, nil)
}

// aggregateSegmentsOrdered is aggregateSegments with a caller-supplied
// display order. Ordered values absent from the data are omitted rather
// than reported as empty segments.
func aggregateSegmentsOrdered(customers []Customer, field string, order []string) ([]SegmentSummary, error) {
	buckets := map[string]*SegmentSummary{}
	seen := []string{}

	for _, customer := range customers {
		value, err := fieldValue(customer, field)
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}
		bucket, exists := buckets[value]
		if !exists {
			bucket = &SegmentSummary{Value: value}
			buckets[value] = bucket
			seen = append(seen, value)
		}
		bucket.Customers++
		if customer.Churned {
			bucket.Churned++
		}
		bucket.TotalRevenue += customer.MonthlyCharges
	}

	values := seen
	if len(order) > 0 {
		values = make([]string, 0, len(order))
		for _, value := range order {
			if _, exists := buckets[value]; exists {
				values = append(values, value)
			}
		}
	}

	summaries := make([]SegmentSummary, 0, len(values))
	for _, value := range values {
		bucket := buckets[value]
		bucket.ChurnRate = float64(bucket.Churned) / float64(bucket.Customers)
		bucket.RevenueAtRisk = bucket.TotalRevenue * bucket.ChurnRate
		summaries = append(summaries, *bucket)
	}
	return summaries, nil
}
